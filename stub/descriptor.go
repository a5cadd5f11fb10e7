package stub

// Descriptor records how to construct a slot's real object: the slot name,
// the target type identifier understood by the construction collaborator,
// and the ordered constructor arguments. Creating a Descriptor does no work
// and has no side effects on any slot; it is immutable once built.
type Descriptor struct {
	// Slot is the name of the slot this descriptor belongs to.
	Slot string

	// TargetType identifies the concrete type to instantiate.
	TargetType string

	// Args are passed to the constructor in order. Builders that embed their
	// own construction recipe may ignore them.
	Args []any
}

// NewDescriptor builds a Descriptor. The argument list is copied so later
// mutation of the caller's slice cannot leak into the recipe.
func NewDescriptor(slot, targetType string, args ...any) Descriptor {
	copied := make([]any, len(args))
	copy(copied, args)
	return Descriptor{
		Slot:       slot,
		TargetType: targetType,
		Args:       copied,
	}
}
