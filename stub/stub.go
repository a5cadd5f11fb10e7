package stub

// Stub marks stand-in values. A stand-in satisfies the interface of the
// real object it fronts while deferring construction; code that must not
// trigger or recurse into construction checks for the marker instead.
type Stub interface {
	// StubSlot returns the name of the slot the value stands in for.
	StubSlot() string

	// ForceResolve resolves the slot ahead of any operation and discards
	// the result. Implementations attribute the caller of ForceUnstub, so
	// prefer invoking this through ForceUnstub.
	ForceResolve() error
}

// IsReal reports whether v is a genuine value rather than a stand-in.
// Anything that does not mark itself as a stand-in counts as real,
// including values unrelated to this package. Collaborators use it to
// avoid triggering construction from inside construction.
func IsReal(v any) bool {
	_, isStub := v.(Stub)
	return !isStub
}

// ForceUnstub resolves v's slot if v is a stand-in and discards the result;
// for anything else it is a no-op. Use it before handing an object to code
// that does not tolerate stand-ins. Idempotent: once the slot is ready,
// further calls return immediately.
func ForceUnstub(v any) error {
	if s, ok := v.(Stub); ok {
		return s.ForceResolve()
	}
	return nil
}
