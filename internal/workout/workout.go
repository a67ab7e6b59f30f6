// Package workout parses and holds uploaded workout definitions.
package workout

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrMalformed indicates that an uploaded payload is not a valid workout document.
var ErrMalformed = errors.New("malformed workout document")

// Step is one unit of a workout routine. Immutable once loaded.
type Step struct {
	Index       int    `json:"index"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
}

// Definition is an ordered set of steps loaded wholesale from an uploaded
// document. A new upload replaces the previous definition entirely.
type Definition struct {
	ID       uuid.UUID `json:"id"`
	Steps    []Step    `json:"steps"`
	LoadedAt time.Time `json:"loaded_at"`
}

type stepPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

const stepKeyPrefix = "step_"

// Parse builds a Definition from raw uploaded bytes.
//
// The document is a JSON object whose keys are "step_1".."step_N" with
// contiguous indices starting at 1. Missing title/description propagate as
// empty strings. Any structural violation is reported as ErrMalformed.
func Parse(raw []byte) (*Definition, error) {
	var doc map[string]stepPayload
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	steps := make([]Step, 0, len(doc))
	for key, payload := range doc {
		if !strings.HasPrefix(key, stepKeyPrefix) {
			return nil, fmt.Errorf("%w: unexpected key %q", ErrMalformed, key)
		}
		idx, err := strconv.Atoi(strings.TrimPrefix(key, stepKeyPrefix))
		if err != nil || idx < 1 {
			return nil, fmt.Errorf("%w: invalid step key %q", ErrMalformed, key)
		}
		steps = append(steps, Step{
			Index:       idx,
			Title:       payload.Title,
			Description: payload.Description,
			Image:       payload.Image,
		})
	}

	sort.Slice(steps, func(i, j int) bool { return steps[i].Index < steps[j].Index })
	for i, s := range steps {
		if s.Index != i+1 {
			return nil, fmt.Errorf("%w: step indices must be contiguous from 1, got %d at position %d", ErrMalformed, s.Index, i+1)
		}
	}

	return &Definition{
		ID:       uuid.New(),
		Steps:    steps,
		LoadedAt: time.Now().UTC(),
	}, nil
}

// Step returns the step at the given 1-based index. A missing index is the
// expected "routine finished" signal, not an error.
func (d *Definition) Step(index int) (Step, bool) {
	if d == nil || index < 1 || index > len(d.Steps) {
		return Step{}, false
	}
	return d.Steps[index-1], true
}

// Len reports the number of steps.
func (d *Definition) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Steps)
}

// Value implements driver.Valuer, storing the definition as JSONB.
func (d *Definition) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("marshal workout: %w", err)
	}
	return b, nil
}

// Scan implements sql.Scanner for JSONB columns.
func (d *Definition) Scan(src any) error {
	if src == nil {
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan workout: unsupported type %T", src)
	}
	return json.Unmarshal(raw, d)
}
