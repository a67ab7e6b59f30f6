package bot

import (
	"github.com/NeverDieOne/train-bot/internal/progress"
	"github.com/NeverDieOne/train-bot/internal/session"
	"github.com/NeverDieOne/train-bot/internal/workout"
)

// EventKind enumerates the external events the conversation reacts to.
type EventKind int

const (
	// EventStart is the /start command.
	EventStart EventKind = iota
	// EventTapAddWorkout is the "add workout" menu button.
	EventTapAddWorkout
	// EventTapTrain is the "train" menu button.
	EventTapTrain
	// EventTapBack is the "back" button.
	EventTapBack
	// EventTapNextStep is the "next step" button on a step card.
	EventTapNextStep
	// EventWorkoutLoaded carries a freshly parsed workout definition.
	EventWorkoutLoaded
	// EventWorkoutRejected reports that an uploaded payload failed to parse.
	EventWorkoutRejected
	// EventReset is the /reset command restarting progress at step 1.
	EventReset
)

// Event is a single external input scoped to one chat.
type Event struct {
	Kind    EventKind
	Workout *workout.Definition // set for EventWorkoutLoaded
}

// ScreenKind names the screen an event produced, if any.
type ScreenKind int

const (
	// ScreenNone means the event changed state without a visible screen.
	ScreenNone ScreenKind = iota
	// ScreenMenu is the main menu.
	ScreenMenu
	// ScreenUploadPrompt asks for a workout document.
	ScreenUploadPrompt
	// ScreenUploadOK confirms a successful upload.
	ScreenUploadOK
	// ScreenUploadFailed reports a malformed upload.
	ScreenUploadFailed
	// ScreenStep is a step card.
	ScreenStep
	// ScreenFinished is the routine-complete notice.
	ScreenFinished
	// ScreenNoWorkout tells the user to upload a workout first.
	ScreenNoWorkout
)

// Outcome is the result of applying one event to a session.
type Outcome struct {
	Handled bool
	Screen  ScreenKind
	Step    workout.Step // valid when Screen == ScreenStep
}

var ignored = Outcome{}

// Reduce applies a single event to the session and reports what to render.
//
// Reduce is total over (state, event): pairs outside the transition table are
// no-ops with Handled=false. It mutates only the given session and performs
// no I/O, so callers own persistence and rendering.
func Reduce(s *session.Session, ev Event, today progress.Date) Outcome {
	switch ev.Kind {
	case EventStart:
		// Re-entry from any state keeps workout and progress.
		s.State = session.StateMenu
		return Outcome{Handled: true, Screen: ScreenMenu}
	case EventReset:
		s.Progress.CurrentStep = 1
		return Outcome{Handled: true, Screen: ScreenNone}
	case EventTapBack:
		s.State = session.StateMenu
		return Outcome{Handled: true, Screen: ScreenMenu}
	}

	switch s.State {
	case session.StateMenu:
		switch ev.Kind {
		case EventTapAddWorkout:
			s.State = session.StateAwaitingWorkoutFile
			return Outcome{Handled: true, Screen: ScreenUploadPrompt}
		case EventTapTrain:
			return enterTraining(s, today)
		}
	case session.StateAwaitingWorkoutFile:
		switch ev.Kind {
		case EventWorkoutLoaded:
			s.ReplaceWorkout(ev.Workout)
			return Outcome{Handled: true, Screen: ScreenUploadOK}
		case EventWorkoutRejected:
			return Outcome{Handled: true, Screen: ScreenUploadFailed}
		}
	case session.StateInTraining:
		if ev.Kind == EventTapNextStep {
			return nextStep(s, today)
		}
	}

	return ignored
}

// enterTraining handles the "train" tap from the menu. A zero-step
// definition counts as no workout: it must never fabricate a completion.
func enterTraining(s *session.Session, today progress.Date) Outcome {
	if s.Workout.Len() == 0 {
		// Stay in the menu rather than enter training with nothing to show.
		return Outcome{Handled: true, Screen: ScreenNoWorkout}
	}

	s.Progress = s.Progress.ApplyDailyReset(today)
	s.State = session.StateInTraining

	step, ok := s.Workout.Step(s.Progress.CurrentStep)
	if !ok {
		s.Progress = s.Progress.Complete(today)
		return Outcome{Handled: true, Screen: ScreenFinished}
	}
	return Outcome{Handled: true, Screen: ScreenStep, Step: step}
}

// nextStep advances through the routine. The advance is guarded by the
// current step existing, so a finished routine stays put and every further
// tap just reconfirms completion.
func nextStep(s *session.Session, today progress.Date) Outcome {
	if s.Workout.Len() == 0 {
		return ignored
	}

	s.Progress = s.Progress.ApplyDailyReset(today)

	if _, ok := s.Workout.Step(s.Progress.CurrentStep); ok {
		s.Progress = s.Progress.Advance()
	}

	step, ok := s.Workout.Step(s.Progress.CurrentStep)
	if !ok {
		s.Progress = s.Progress.Complete(today)
		return Outcome{Handled: true, Screen: ScreenFinished}
	}
	return Outcome{Handled: true, Screen: ScreenStep, Step: step}
}
