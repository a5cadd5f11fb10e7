package stub

import (
	"errors"
	"fmt"
)

// Common registry errors.
var (
	// ErrSlotNotFound is returned when a named slot is not registered.
	ErrSlotNotFound = errors.New("slot not found")

	// ErrSlotExists is returned when registering a name that is already taken.
	ErrSlotExists = errors.New("slot already registered")

	// ErrNoConstructor is returned when a descriptor-based build runs on a
	// registry with no construction collaborator configured.
	ErrNoConstructor = errors.New("no constructor configured")
)

// UnstubLoopError reports a re-entrant construction loop: resolving a slot
// nested deeper than the registry's loop limit, meaning construction of a
// real object transitively triggered a call on a still-pending slot in its
// own chain. It indicates a structural wiring bug and is not retryable.
type UnstubLoopError struct {
	// Slot is the name of the slot whose resolution tripped the limit.
	Slot string

	// Op is the operation that triggered the failing attempt.
	Op string

	// Caller describes the calling code, for diagnostics only.
	Caller string
}

func (e *UnstubLoopError) Error() string {
	return fmt.Sprintf("unstub loop detected on call of %s.%s from %s", e.Slot, e.Op, e.Caller)
}

// IsUnstubLoop returns true if err is, or wraps, an *UnstubLoopError.
func IsUnstubLoop(err error) bool {
	var loop *UnstubLoopError
	return errors.As(err, &loop)
}
