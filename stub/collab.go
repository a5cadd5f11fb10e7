package stub

// The unstub protocol talks to the rest of the application through three
// narrow collaborator capabilities. All are optional: a registry built with
// the zero Options constructs nothing through descriptors, attributes callers
// as "unknown", and records no diagnostics.

// Constructor produces a new instance of a named type from an ordered
// argument list. Failures propagate unchanged through the unstub protocol;
// construction is attempted once per slot transition, never retried.
type Constructor interface {
	NewObject(targetType string, args []any) (any, error)
}

// ConstructorFunc adapts a function to the Constructor interface.
type ConstructorFunc func(targetType string, args []any) (any, error)

// NewObject calls f.
func (f ConstructorFunc) NewObject(targetType string, args []any) (any, error) {
	return f(targetType, args)
}

// CallerFunc returns a human-readable description of the calling code.
// skip counts stack frames above the immediate caller of the function: 0
// describes the immediate caller itself. The result is used only in
// diagnostics and loop errors; it never affects control flow.
type CallerFunc func(skip int) string

// Unstub describes one unstub attempt as seen by the diagnostics
// collaborator.
type Unstub struct {
	// Slot is the name of the slot being resolved.
	Slot string

	// Op is the operation whose interception triggered the attempt.
	Op string

	// Caller describes the calling code.
	Caller string

	// Depth is the attempt's position in the in-flight nesting chain,
	// starting at 1 for an outermost attempt.
	Depth int

	// External marks attempts triggered by ForceUnstub rather than by an
	// intercepted operation.
	External bool
}

// Recorder receives unstub diagnostics: a begin/end profiling scope around
// each attempt and debug-level trace lines. Implementations are purely
// observational and must never fail the calling operation.
type Recorder interface {
	// UnstubBegin opens the diagnostic scope for one attempt. The returned
	// func closes the scope with the attempt's outcome (nil on success).
	UnstubBegin(u Unstub) func(err error)

	// Trace emits a debug-level trace line with slog-style key/value attrs.
	Trace(msg string, attrs ...any)
}

// nopRecorder is the default Recorder; it discards everything.
type nopRecorder struct{}

func (nopRecorder) UnstubBegin(Unstub) func(error) { return func(error) {} }

func (nopRecorder) Trace(string, ...any) {}

func unknownCaller(int) string { return "unknown" }
