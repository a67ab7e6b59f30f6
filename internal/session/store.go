package session

import (
	"context"

	"github.com/NeverDieOne/train-bot/internal/progress"
)

// Recipient identifies a chat eligible for a reminder.
type Recipient struct {
	UserID int64 `db:"user_id"`
	ChatID int64 `db:"chat_id"`
}

// Store persists sessions keyed by user id.
//
// Load returns (nil, nil) for an unknown user. Save writes the whole session
// atomically so a crash never leaves a half-updated record.
type Store interface {
	Load(ctx context.Context, userID int64) (*Session, error)
	Save(ctx context.Context, s *Session) error

	// Count reports the number of stored sessions.
	Count(ctx context.Context) (int, error)

	// DueForReminder lists chats that have a workout loaded and have not
	// completed it today. Reminder delivery never mutates sessions.
	DueForReminder(ctx context.Context, today progress.Date) ([]Recipient, error)
}
