package bot

import "testing"

func TestRetireTargets(t *testing.T) {
	cases := []struct {
		name string
		keep int
		ids  []int
		want []int
	}{
		{"normal flow", 7, []int{3, 0, 3}, []int{3}},
		{"tap on stale reminder", 7, []int{3, 5, 3}, []int{3, 5}},
		{"orphan from failed save", 7, []int{3, 0, 5}, []int{3, 5}},
		{"first render", 7, []int{0, 0, 0}, nil},
		{"never the new screen", 7, []int{7, 3, 7}, []int{3}},
	}
	for _, c := range cases {
		got := retireTargets(c.keep, c.ids...)
		if len(got) != len(c.want) {
			t.Errorf("%s: targets = %v, expected %v", c.name, got, c.want)
			continue
		}
		for i := range c.want {
			if got[i] != c.want[i] {
				t.Errorf("%s: targets = %v, expected %v", c.name, got, c.want)
				break
			}
		}
	}
}

// A failed session save leaves the stored handle behind the message actually
// on screen; the renderer's per-user memo must surface that orphan as a
// retirement target on the next render.
func TestRendererRemembersOrphanedScreen(t *testing.T) {
	r := NewRenderer()

	if got := r.lastSent(7); got != 0 {
		t.Fatalf("fresh renderer remembered %d", got)
	}

	// First render succeeded but the save did not: the store still holds
	// message 3 while message 5 is live.
	r.remember(7, 5)

	stored := 3
	targets := retireTargets(9, stored, 0, r.lastSent(7))
	want := []int{3, 5}
	if len(targets) != len(want) || targets[0] != want[0] || targets[1] != want[1] {
		t.Fatalf("targets = %v, expected %v", targets, want)
	}

	r.remember(7, 9)
	if got := r.lastSent(7); got != 9 {
		t.Fatalf("remembered = %d, expected 9", got)
	}

	// Other users are tracked independently.
	if got := r.lastSent(8); got != 0 {
		t.Fatalf("user 8 remembered %d", got)
	}
}
