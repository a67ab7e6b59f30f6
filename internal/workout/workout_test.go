package workout

import (
	"errors"
	"testing"
)

func TestParseValidDocument(t *testing.T) {
	raw := []byte(`{
		"step_1": {"title": "Разминка", "description": "5 минут", "image": "https://example.com/1.png"},
		"step_2": {"title": "Приседания", "description": "20 раз"},
		"step_3": {"title": "Заминка", "description": ""}
	}`)

	def, err := Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if def.Len() != 3 {
		t.Fatalf("len = %d, expected 3", def.Len())
	}
	if def.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Fatal("expected a generated id")
	}

	step, ok := def.Step(1)
	if !ok {
		t.Fatal("step 1 must exist")
	}
	if step.Title != "Разминка" || step.Image != "https://example.com/1.png" {
		t.Fatalf("unexpected step 1: %+v", step)
	}

	// Absent optional fields propagate as empty strings.
	step, ok = def.Step(2)
	if !ok || step.Image != "" {
		t.Fatalf("unexpected step 2: %+v, ok=%v", step, ok)
	}
}

func TestParseMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":           `{"step_1": `,
		"array":              `[1, 2, 3]`,
		"unexpected key":     `{"workout": {"title": "x"}}`,
		"zero index":         `{"step_0": {"title": "x"}}`,
		"negative index":     `{"step_-1": {"title": "x"}}`,
		"non numeric suffix": `{"step_one": {"title": "x"}}`,
		"gap in indices":     `{"step_1": {"title": "a"}, "step_3": {"title": "b"}}`,
		"starts at two":      `{"step_2": {"title": "b"}}`,
	}
	for name, raw := range cases {
		if _, err := Parse([]byte(raw)); !errors.Is(err, ErrMalformed) {
			t.Errorf("%s: expected ErrMalformed, got %v", name, err)
		}
	}
}

func TestStepLookupOutOfRange(t *testing.T) {
	def, err := Parse([]byte(`{"step_1": {"title": "a", "description": "b"}}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	// Missing index is the "routine finished" signal, not an error.
	if _, ok := def.Step(2); ok {
		t.Fatal("step 2 must not exist")
	}
	if _, ok := def.Step(0); ok {
		t.Fatal("step 0 must not exist")
	}

	var nilDef *Definition
	if _, ok := nilDef.Step(1); ok {
		t.Fatal("nil definition has no steps")
	}
	if nilDef.Len() != 0 {
		t.Fatal("nil definition length must be 0")
	}
}

func TestDefinitionRoundTrip(t *testing.T) {
	def, err := Parse([]byte(`{"step_1": {"title": "a", "description": "b", "image": "c"}}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	val, err := def.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}

	var loaded Definition
	if err := loaded.Scan(val); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if loaded.ID != def.ID || loaded.Len() != 1 {
		t.Fatalf("round trip mismatch: %+v", loaded)
	}
	step, ok := loaded.Step(1)
	if !ok || step.Title != "a" || step.Image != "c" {
		t.Fatalf("unexpected step after scan: %+v", step)
	}
}
