package session

import (
	"context"
	"testing"
	"time"

	"github.com/NeverDieOne/train-bot/internal/progress"
	"github.com/NeverDieOne/train-bot/internal/workout"
)

func day(y int, m time.Month, d int) progress.Date {
	return progress.Date{Year: y, Month: m, Day: d}
}

func TestMemoryStoreLoadAbsent(t *testing.T) {
	store := NewMemoryStore()
	s, err := store.Load(context.Background(), 1)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s != nil {
		t.Fatalf("expected nil for unknown user, got %+v", s)
	}
}

func TestMemoryStoreSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	s := New(7, 42)
	s.State = StateInTraining
	s.ScreenMessageID = 101
	s.Progress = s.Progress.Advance()
	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Mutating the original after save must not leak into the store.
	s.ScreenMessageID = 999

	loaded, err := store.Load(ctx, 7)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected session")
	}
	if loaded.ScreenMessageID != 101 || loaded.State != StateInTraining || loaded.Progress.CurrentStep != 2 {
		t.Fatalf("unexpected session: %+v", loaded)
	}

	n, err := store.Count(ctx)
	if err != nil || n != 1 {
		t.Fatalf("count = %d, err = %v", n, err)
	}
}

func TestMemoryStoreDueForReminder(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	today := day(2024, time.March, 10)

	def := &workout.Definition{Steps: []workout.Step{{Index: 1, Title: "a"}}}

	withWorkout := New(1, 11)
	withWorkout.Workout = def

	completedToday := New(2, 22)
	completedToday.Workout = def
	completedToday.Progress = completedToday.Progress.Complete(today)

	completedYesterday := New(3, 33)
	completedYesterday.Workout = def
	completedYesterday.Progress = completedYesterday.Progress.Complete(day(2024, time.March, 9))

	noWorkout := New(4, 44)

	for _, s := range []*Session{withWorkout, completedToday, completedYesterday, noWorkout} {
		if err := store.Save(ctx, s); err != nil {
			t.Fatalf("save %d: %v", s.UserID, err)
		}
	}

	got, err := store.DueForReminder(ctx, today)
	if err != nil {
		t.Fatalf("due: %v", err)
	}
	want := []Recipient{{UserID: 1, ChatID: 11}, {UserID: 3, ChatID: 33}}
	if len(got) != len(want) {
		t.Fatalf("recipients = %+v, expected %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("recipient %d = %+v, expected %+v", i, got[i], want[i])
		}
	}
}
