package bot

import (
	"testing"
	"time"

	"github.com/NeverDieOne/train-bot/internal/progress"
	"github.com/NeverDieOne/train-bot/internal/session"
	"github.com/NeverDieOne/train-bot/internal/workout"
)

func day(y int, m time.Month, d int) progress.Date {
	return progress.Date{Year: y, Month: m, Day: d}
}

func testWorkout(steps int) *workout.Definition {
	def := &workout.Definition{}
	for i := 1; i <= steps; i++ {
		def.Steps = append(def.Steps, workout.Step{Index: i, Title: "step", Description: "desc"})
	}
	return def
}

func testSession() *session.Session {
	return session.New(7, 42)
}

func TestStartAlwaysReturnsToMenu(t *testing.T) {
	today := day(2024, time.March, 10)
	for _, state := range []session.State{session.StateMenu, session.StateAwaitingWorkoutFile, session.StateInTraining} {
		s := testSession()
		s.State = state
		s.Workout = testWorkout(2)
		s.Progress = s.Progress.Advance()

		out := Reduce(s, Event{Kind: EventStart}, today)
		if !out.Handled || out.Screen != ScreenMenu {
			t.Fatalf("start from %s: %+v", state, out)
		}
		if s.State != session.StateMenu {
			t.Fatalf("start from %s left state %s", state, s.State)
		}
		// Re-entry keeps workout and progress.
		if s.Workout == nil || s.Progress.CurrentStep != 2 {
			t.Fatalf("start must not discard data: workout=%v step=%d", s.Workout, s.Progress.CurrentStep)
		}
	}
}

func TestBackAlwaysReturnsToMenu(t *testing.T) {
	today := day(2024, time.March, 10)
	for _, state := range []session.State{session.StateMenu, session.StateAwaitingWorkoutFile, session.StateInTraining} {
		s := testSession()
		s.State = state
		out := Reduce(s, Event{Kind: EventTapBack}, today)
		if !out.Handled || out.Screen != ScreenMenu || s.State != session.StateMenu {
			t.Fatalf("back from %s: %+v, state=%s", state, out, s.State)
		}
	}
}

func TestAddWorkoutTapOpensUploadPrompt(t *testing.T) {
	s := testSession()
	out := Reduce(s, Event{Kind: EventTapAddWorkout}, day(2024, time.March, 10))
	if !out.Handled || out.Screen != ScreenUploadPrompt {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if s.State != session.StateAwaitingWorkoutFile {
		t.Fatalf("state = %s", s.State)
	}
}

func TestTrainWithoutWorkoutStaysInMenu(t *testing.T) {
	s := testSession()
	out := Reduce(s, Event{Kind: EventTapTrain}, day(2024, time.March, 10))
	if !out.Handled || out.Screen != ScreenNoWorkout {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if s.State != session.StateMenu {
		t.Fatalf("no-workout train tap must not enter training, state = %s", s.State)
	}
}

func TestTrainWithEmptyWorkoutStaysInMenu(t *testing.T) {
	today := day(2024, time.March, 10)
	s := testSession()
	s.Workout = &workout.Definition{}

	out := Reduce(s, Event{Kind: EventTapTrain}, today)
	if !out.Handled || out.Screen != ScreenNoWorkout {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if s.State != session.StateMenu {
		t.Fatalf("zero-step workout must not enter training, state = %s", s.State)
	}
	// A workout with no steps must never count as completed.
	if !s.Progress.LastCompleted.IsZero() {
		t.Fatalf("completion date must stay unset, got %v", s.Progress.LastCompleted)
	}
}

func TestTrainingFlowWithThreeSteps(t *testing.T) {
	today := day(2024, time.March, 10)
	s := testSession()
	s.Workout = testWorkout(3)

	out := Reduce(s, Event{Kind: EventTapTrain}, today)
	if out.Screen != ScreenStep || out.Step.Index != 1 {
		t.Fatalf("train tap: %+v", out)
	}
	if s.State != session.StateInTraining {
		t.Fatalf("state = %s", s.State)
	}

	out = Reduce(s, Event{Kind: EventTapNextStep}, today)
	if out.Screen != ScreenStep || out.Step.Index != 2 {
		t.Fatalf("first next: %+v", out)
	}
	out = Reduce(s, Event{Kind: EventTapNextStep}, today)
	if out.Screen != ScreenStep || out.Step.Index != 3 {
		t.Fatalf("second next: %+v", out)
	}

	out = Reduce(s, Event{Kind: EventTapNextStep}, today)
	if out.Screen != ScreenFinished {
		t.Fatalf("third next: %+v", out)
	}
	if s.Progress.LastCompleted != today {
		t.Fatalf("completion date = %v", s.Progress.LastCompleted)
	}
	if s.Progress.CurrentStep != 4 {
		t.Fatalf("current step = %d, expected 4", s.Progress.CurrentStep)
	}

	// Further taps reconfirm completion without advancing past the end.
	out = Reduce(s, Event{Kind: EventTapNextStep}, today)
	if out.Screen != ScreenFinished || s.Progress.CurrentStep != 4 {
		t.Fatalf("tap after completion: %+v, step=%d", out, s.Progress.CurrentStep)
	}
}

func TestDailyResetOnReentry(t *testing.T) {
	d1 := day(2024, time.March, 10)
	d2 := day(2024, time.March, 11)

	s := testSession()
	s.Workout = testWorkout(2)

	Reduce(s, Event{Kind: EventTapTrain}, d1)
	Reduce(s, Event{Kind: EventTapNextStep}, d1)
	out := Reduce(s, Event{Kind: EventTapNextStep}, d1)
	if out.Screen != ScreenFinished {
		t.Fatalf("expected completion, got %+v", out)
	}

	// Same day: re-entering training reconfirms completion.
	Reduce(s, Event{Kind: EventTapBack}, d1)
	out = Reduce(s, Event{Kind: EventTapTrain}, d1)
	if out.Screen != ScreenFinished {
		t.Fatalf("same-day re-entry: %+v", out)
	}

	// Next day: the routine starts over from step 1.
	Reduce(s, Event{Kind: EventTapBack}, d2)
	out = Reduce(s, Event{Kind: EventTapTrain}, d2)
	if out.Screen != ScreenStep || out.Step.Index != 1 {
		t.Fatalf("next-day re-entry: %+v", out)
	}
}

func TestUploadReplacesWorkoutAndKeepsProgress(t *testing.T) {
	today := day(2024, time.March, 10)
	s := testSession()
	s.State = session.StateAwaitingWorkoutFile
	s.Workout = testWorkout(2)
	s.Progress = s.Progress.Advance()

	replacement := testWorkout(5)
	out := Reduce(s, Event{Kind: EventWorkoutLoaded, Workout: replacement}, today)
	if !out.Handled || out.Screen != ScreenUploadOK {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if s.Workout != replacement {
		t.Fatal("workout must be replaced wholesale")
	}
	if s.Progress.CurrentStep != 2 {
		t.Fatalf("progress must survive uploads, step = %d", s.Progress.CurrentStep)
	}
	if s.State != session.StateAwaitingWorkoutFile {
		t.Fatalf("state = %s", s.State)
	}
}

func TestRejectedUploadLeavesWorkoutUntouched(t *testing.T) {
	today := day(2024, time.March, 10)
	s := testSession()
	s.State = session.StateAwaitingWorkoutFile
	prev := testWorkout(2)
	s.Workout = prev
	s.Progress = s.Progress.Advance()

	out := Reduce(s, Event{Kind: EventWorkoutRejected}, today)
	if !out.Handled || out.Screen != ScreenUploadFailed {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if s.Workout != prev || s.Progress.CurrentStep != 2 {
		t.Fatal("rejected upload must not touch stored workout or progress")
	}
	if s.State != session.StateAwaitingWorkoutFile {
		t.Fatalf("state = %s", s.State)
	}
}

func TestUnlistedPairsAreNoOps(t *testing.T) {
	today := day(2024, time.March, 10)
	cases := []struct {
		state session.State
		ev    Event
	}{
		{session.StateMenu, Event{Kind: EventTapNextStep}},
		{session.StateMenu, Event{Kind: EventWorkoutLoaded, Workout: testWorkout(1)}},
		{session.StateAwaitingWorkoutFile, Event{Kind: EventTapTrain}},
		{session.StateAwaitingWorkoutFile, Event{Kind: EventTapNextStep}},
		{session.StateInTraining, Event{Kind: EventTapAddWorkout}},
		{session.StateInTraining, Event{Kind: EventWorkoutLoaded, Workout: testWorkout(1)}},
	}
	for _, c := range cases {
		s := testSession()
		s.State = c.state
		out := Reduce(s, c.ev, today)
		if out.Handled {
			t.Errorf("state %s, event %d: expected no-op, got %+v", c.state, c.ev.Kind, out)
		}
		if s.State != c.state || s.Workout != nil || s.Progress.CurrentStep != 1 {
			t.Errorf("state %s, event %d: no-op must not mutate the session", c.state, c.ev.Kind)
		}
	}
}

func TestNextStepWithoutWorkoutIsIgnored(t *testing.T) {
	for _, def := range []*workout.Definition{nil, {}} {
		s := testSession()
		s.State = session.StateInTraining
		s.Workout = def
		out := Reduce(s, Event{Kind: EventTapNextStep}, day(2024, time.March, 10))
		if out.Handled {
			t.Fatalf("workout %+v: expected no-op, got %+v", def, out)
		}
		if !s.Progress.LastCompleted.IsZero() {
			t.Fatalf("workout %+v: completion date must stay unset", def)
		}
	}
}

func TestResetRestartsProgress(t *testing.T) {
	s := testSession()
	s.Workout = testWorkout(3)
	s.Progress = s.Progress.Advance().Advance()

	out := Reduce(s, Event{Kind: EventReset}, day(2024, time.March, 10))
	if !out.Handled || out.Screen != ScreenNone {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if s.Progress.CurrentStep != 1 {
		t.Fatalf("current step = %d", s.Progress.CurrentStep)
	}
}
