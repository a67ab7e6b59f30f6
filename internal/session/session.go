// Package session holds per-chat conversational state and its storage.
package session

import (
	"time"

	"github.com/NeverDieOne/train-bot/internal/progress"
	"github.com/NeverDieOne/train-bot/internal/workout"
)

// State names the conversational state of a chat.
type State string

const (
	// StateMenu is the initial state showing the main menu.
	StateMenu State = "menu"
	// StateAwaitingWorkoutFile means the bot prompted for a workout document.
	StateAwaitingWorkoutFile State = "awaiting_workout_file"
	// StateInTraining means a step card is on screen.
	StateInTraining State = "in_training"
)

// Session is the per-chat working state. One Session per user; created on
// the first /start and persisted after every handled event.
type Session struct {
	UserID          int64
	ChatID          int64
	State           State
	ScreenMessageID int // 0 means no live screen message
	Workout         *workout.Definition
	Progress        progress.Progress
	UpdatedAt       time.Time
}

// New creates a fresh session positioned at the menu.
func New(userID, chatID int64) *Session {
	return &Session{
		UserID:   userID,
		ChatID:   chatID,
		State:    StateMenu,
		Progress: progress.New(),
	}
}

// ReplaceWorkout installs a newly uploaded definition. Progress is preserved
// across uploads, only the definition itself is replaced.
func (s *Session) ReplaceWorkout(def *workout.Definition) {
	s.Workout = def
}
