package stub

import "testing"

func TestGuardDepthAccounting(t *testing.T) {
	g := newGuard(2)

	rel1, d1, ok1 := g.enter()
	if d1 != 1 || !ok1 {
		t.Errorf("first enter = (%d, %v), want (1, true)", d1, ok1)
	}
	rel2, d2, ok2 := g.enter()
	if d2 != 2 || !ok2 {
		t.Errorf("second enter = (%d, %v), want (2, true)", d2, ok2)
	}
	rel3, d3, ok3 := g.enter()
	if d3 != 3 || ok3 {
		t.Errorf("third enter = (%d, %v), want (3, false)", d3, ok3)
	}

	// Releases restore the counter regardless of the deny.
	rel3()
	rel2()
	rel1()
	if n := g.inFlight(); n != 0 {
		t.Errorf("inFlight after full unwind = %d, want 0", n)
	}

	// The guard is reusable after a denied attempt.
	rel, d, ok := g.enter()
	if d != 1 || !ok {
		t.Errorf("enter after unwind = (%d, %v), want (1, true)", d, ok)
	}
	rel()
}

func TestGuardLimitFallback(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"zero", 0, DefaultLoopLimit},
		{"negative", -1, DefaultLoopLimit},
		{"one", 1, 1},
		{"large", 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGuard(tt.limit)
			if g.limit != tt.want {
				t.Errorf("limit = %d, want %d", g.limit, tt.want)
			}
		})
	}
}
