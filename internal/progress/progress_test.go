package progress

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) Date {
	return Date{Year: y, Month: m, Day: d}
}

func TestResetAfterCompletionOnLaterDay(t *testing.T) {
	d1 := date(2024, time.March, 10)
	d2 := date(2024, time.March, 12)

	p := New().Advance().Advance().Complete(d1)
	got := p.ApplyDailyReset(d2)
	if got.CurrentStep != 1 {
		t.Fatalf("current step = %d, expected reset to 1", got.CurrentStep)
	}
	if got.LastCompleted != d1 {
		t.Fatalf("reset must not touch last completed date, got %v", got.LastCompleted)
	}
}

func TestSameDayReentryKeepsPosition(t *testing.T) {
	d := date(2024, time.March, 10)

	p := New().Advance().Advance().Complete(d)
	got := p.ApplyDailyReset(d)
	if got != p {
		t.Fatalf("same-day re-entry must be a no-op: %+v != %+v", got, p)
	}
}

func TestResetWithoutCompletionIsNoop(t *testing.T) {
	p := New().Advance()
	got := p.ApplyDailyReset(date(2024, time.March, 10))
	if got != p {
		t.Fatalf("reset without a completion date must not change progress: %+v", got)
	}
}

func TestAdvanceIncrementsByExactlyOne(t *testing.T) {
	p := New()
	p = p.Advance()
	p = p.Advance()
	if p.CurrentStep != 3 {
		t.Fatalf("two advances from 1 must land on 3, got %d", p.CurrentStep)
	}
}

func TestDateOrdering(t *testing.T) {
	cases := []struct {
		a, b  Date
		after bool
	}{
		{date(2024, time.March, 11), date(2024, time.March, 10), true},
		{date(2024, time.April, 1), date(2024, time.March, 31), true},
		{date(2025, time.January, 1), date(2024, time.December, 31), true},
		{date(2024, time.March, 10), date(2024, time.March, 10), false},
		{date(2024, time.March, 9), date(2024, time.March, 10), false},
	}
	for _, c := range cases {
		if got := c.a.After(c.b); got != c.after {
			t.Errorf("%v after %v = %v, expected %v", c.a, c.b, got, c.after)
		}
	}
}

func TestDateScanAndValue(t *testing.T) {
	var d Date
	if err := d.Scan(time.Date(2024, time.March, 10, 15, 30, 0, 0, time.UTC)); err != nil {
		t.Fatalf("scan time: %v", err)
	}
	if d != date(2024, time.March, 10) {
		t.Fatalf("unexpected date: %v", d)
	}

	if err := d.Scan("2024-07-01"); err != nil {
		t.Fatalf("scan string: %v", err)
	}
	if d.String() != "2024-07-01" {
		t.Fatalf("unexpected date string: %s", d)
	}

	var unset Date
	v, err := unset.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if v != nil {
		t.Fatalf("unset date must map to NULL, got %v", v)
	}

	if err := d.Scan(nil); err != nil {
		t.Fatalf("scan nil: %v", err)
	}
	if !d.IsZero() {
		t.Fatal("scanning NULL must clear the date")
	}
}
