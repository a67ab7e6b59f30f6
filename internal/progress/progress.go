// Package progress models per-user training progress and the daily reset rule.
package progress

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Date is a calendar date without a time component. The zero value means
// "not set".
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// Today returns the current calendar date in the local time zone.
func Today() Date {
	return DateOf(time.Now())
}

// DateOf truncates a time to its calendar date.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d == Date{}
}

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool {
	if d.Year != other.Year {
		return d.Year > other.Year
	}
	if d.Month != other.Month {
		return d.Month > other.Month
	}
	return d.Day > other.Day
}

// String renders the date in ISO 8601 form.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Value implements driver.Valuer; unset dates map to NULL.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC), nil
}

// Scan implements sql.Scanner for DATE columns.
func (d *Date) Scan(src any) error {
	if src == nil {
		*d = Date{}
		return nil
	}
	switch v := src.(type) {
	case time.Time:
		*d = DateOf(v)
		return nil
	case []byte:
		return d.parse(string(v))
	case string:
		return d.parse(v)
	default:
		return fmt.Errorf("scan date: unsupported type %T", src)
	}
}

func (d *Date) parse(s string) error {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return fmt.Errorf("scan date: %w", err)
	}
	*d = DateOf(t)
	return nil
}

// Progress tracks the user's position in the routine.
//
// CurrentStep is only ever incremented by exactly 1 and resets to 1 on a new
// calendar day. LastCompleted is set only when the routine is exhausted.
type Progress struct {
	CurrentStep   int  `db:"current_step"`
	LastCompleted Date `db:"last_completed"`
}

// New returns progress positioned at the first step.
func New() Progress {
	return Progress{CurrentStep: 1}
}

// Advance moves to the next step.
func (p Progress) Advance() Progress {
	p.CurrentStep++
	return p
}

// ApplyDailyReset restarts the routine when a new calendar day has begun
// since the last completion. Same-day re-entry keeps the current position.
func (p Progress) ApplyDailyReset(today Date) Progress {
	if !p.LastCompleted.IsZero() && today.After(p.LastCompleted) {
		p.CurrentStep = 1
	}
	return p
}

// Complete records that the routine was exhausted today.
func (p Progress) Complete(today Date) Progress {
	p.LastCompleted = today
	return p
}
