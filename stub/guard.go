package stub

import "sync"

// DefaultLoopLimit is the default number of unstub attempts that may be in
// flight at once. Construction of one object may trigger resolution of a
// second slot; a third level of nesting is treated as a loop. How deep
// legitimate chains nest depends on the host application, so the limit is
// configurable per registry.
const DefaultLoopLimit = 2

// guard is the recursion counter shared by every cell in a registry. It is
// deliberately not per-slot: a loop that bounces between two different slots
// must still be caught.
type guard struct {
	mu    sync.Mutex
	depth int
	limit int
}

func newGuard(limit int) *guard {
	if limit < 1 {
		limit = DefaultLoopLimit
	}
	return &guard{limit: limit}
}

// enter records one in-flight attempt and reports the resulting depth.
// ok is false when the attempt exceeds the limit. The returned release must
// run on every exit path, failure included, so the counter always returns to
// its pre-call value once the attempt unwinds.
func (g *guard) enter() (release func(), depth int, ok bool) {
	g.mu.Lock()
	g.depth++
	depth = g.depth
	g.mu.Unlock()

	release = func() {
		g.mu.Lock()
		g.depth--
		g.mu.Unlock()
	}
	return release, depth, depth <= g.limit
}

// inFlight reports the current nesting depth.
func (g *guard) inFlight() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.depth
}
