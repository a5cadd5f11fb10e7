package lang

import "github.com/c360studio/stubreg/stub"

// Deferred is the language stand-in: it satisfies Service while delaying
// construction until the first operation. Every method resolves the slot
// through the registry and forwards to the real service, attributing the
// method's caller in diagnostics. Resolution failures panic with the
// underlying error so loop errors keep their identity; the operation
// methods have no error return to thread one through.
type Deferred struct {
	cell *stub.Cell[Service]
}

var (
	_ Service   = (*Deferred)(nil)
	_ stub.Stub = (*Deferred)(nil)
)

// NewDeferred creates a stand-in for the given slot.
func NewDeferred(cell *stub.Cell[Service]) *Deferred {
	return &Deferred{cell: cell}
}

// StubSlot returns the slot this stand-in fronts.
func (d *Deferred) StubSlot() string {
	return d.cell.Name()
}

// ForceResolve resolves the slot ahead of any operation.
func (d *Deferred) ForceResolve() error {
	return d.cell.ResolveExternal(3)
}

// demand resolves the slot for an operation. Caller depth 3 walks past
// demand and the forwarding method to the user's frame.
func (d *Deferred) demand(op string) Service {
	v, err := d.cell.Unstub(op, 3)
	if err != nil {
		panic(err)
	}
	return v
}

// Code forwards to the real service, resolving it on first use.
func (d *Deferred) Code() string {
	return d.demand("Code").Code()
}

// Dir forwards to the real service, resolving it on first use.
func (d *Deferred) Dir() string {
	return d.demand("Dir").Dir()
}

// UCFirst forwards to the real service, resolving it on first use.
func (d *Deferred) UCFirst(s string) string {
	return d.demand("UCFirst").UCFirst(s)
}

// Message forwards to the real service, resolving it on first use.
func (d *Deferred) Message(key string, args ...string) string {
	return d.demand("Message").Message(key, args...)
}

// HasMessage forwards to the real service, resolving it on first use.
func (d *Deferred) HasMessage(key string) bool {
	return d.demand("HasMessage").HasMessage(key)
}

// FormatNum forwards to the real service, resolving it on first use.
func (d *Deferred) FormatNum(n int64) string {
	return d.demand("FormatNum").FormatNum(n)
}
