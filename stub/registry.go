package stub

import (
	"fmt"
	"sort"
	"sync"
)

// Options configures a Registry. The zero value is usable: default loop
// limit, no construction collaborator, unknown caller attribution, no
// diagnostics.
type Options struct {
	// LoopLimit caps simultaneously in-flight resolution attempts across
	// all slots of the registry. Values below 1 fall back to
	// DefaultLoopLimit.
	LoopLimit int

	// Constructor builds real objects for descriptor-based slots. Slots
	// with recipe-only builders never touch it.
	Constructor Constructor

	// Caller produces caller descriptions for diagnostics.
	Caller CallerFunc

	// Recorder receives resolution diagnostics.
	Recorder Recorder
}

// Slot is the type-erased view of a registered cell, used for listing and
// bulk resolution.
type Slot interface {
	// Name returns the slot name.
	Name() string

	// TargetType returns the construction descriptor's target type, or ""
	// for recipe-only slots.
	TargetType() string

	// Ready reports whether the real object has been installed.
	Ready() bool

	// ForceResolve resolves the slot ahead of any operation.
	ForceResolve() error
}

// Registry owns named slots and the loop guard they share. Each slot is
// registered once; resolution state lives in the cells.
type Registry struct {
	mu    sync.RWMutex
	cells map[string]Slot

	guard  *guard
	ctor   Constructor
	caller CallerFunc
	rec    Recorder
}

// NewRegistry creates a registry with the given options.
func NewRegistry(opts Options) *Registry {
	caller := opts.Caller
	if caller == nil {
		caller = unknownCaller
	}
	rec := opts.Recorder
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Registry{
		cells:  make(map[string]Slot),
		guard:  newGuard(opts.LoopLimit),
		ctor:   opts.Constructor,
		caller: caller,
		rec:    rec,
	}
}

// LoopLimit returns the registry's effective loop limit.
func (r *Registry) LoopLimit() int {
	return r.guard.limit
}

func (r *Registry) construct(targetType string, args []any) (any, error) {
	if r.ctor == nil {
		return nil, fmt.Errorf("type %q: %w", targetType, ErrNoConstructor)
	}
	return r.ctor.NewObject(targetType, args)
}

func (r *Registry) add(name string, c Slot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.cells[name]; taken {
		return fmt.Errorf("slot %q: %w", name, ErrSlotExists)
	}
	r.cells[name] = c
	return nil
}

// Slot returns the type-erased view of a registered slot.
func (r *Registry) Slot(name string) (Slot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.cells[name]
	return s, ok
}

// Slots returns every registered slot, sorted by name.
func (r *Registry) Slots() []Slot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Slot, 0, len(r.cells))
	for _, s := range r.cells {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Names returns the names of all registered slots, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.cells))
	for name := range r.cells {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reset removes every slot. Not safe around in-flight resolutions; for test
// harnesses and controlled teardown only.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cells = make(map[string]Slot)
}

// Register adds a recipe-only slot: the builder alone defines construction
// and the descriptor carries just the slot name.
func Register[T any](r *Registry, name string, b Builder[T]) (*Cell[T], error) {
	return RegisterDescriptor(r, Descriptor{Slot: name}, b)
}

// RegisterType adds a slot built through the registry's construction
// collaborator from a target type identifier and constructor arguments.
func RegisterType[T any](r *Registry, name, targetType string, args ...any) (*Cell[T], error) {
	d := NewDescriptor(name, targetType, args...)
	return RegisterDescriptor(r, d, DescriptorBuilder[T](d))
}

// RegisterDescriptor adds a slot with an explicit descriptor and builder:
// the descriptor records the slot's construction identity, the builder does
// the work.
func RegisterDescriptor[T any](r *Registry, d Descriptor, b Builder[T]) (*Cell[T], error) {
	if r == nil {
		return nil, fmt.Errorf("registry cannot be nil")
	}
	if d.Slot == "" {
		return nil, fmt.Errorf("slot name cannot be empty")
	}
	if b == nil {
		return nil, fmt.Errorf("slot %q: builder cannot be nil", d.Slot)
	}
	c := &Cell[T]{reg: r, name: d.Slot, desc: d, build: b}
	if err := r.add(d.Slot, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Lookup returns the typed cell registered under name.
func Lookup[T any](r *Registry, name string) (*Cell[T], error) {
	r.mu.RLock()
	s, ok := r.cells[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("slot %q: %w", name, ErrSlotNotFound)
	}
	c, ok := s.(*Cell[T])
	if !ok {
		return nil, fmt.Errorf("slot %q holds %T, not a %s cell", name, s, typeOf[T]())
	}
	return c, nil
}
