package stub

import (
	"fmt"
	"reflect"
	"sync"
)

// opForceUnstub labels resolutions triggered externally rather than by an
// intercepted operation.
const opForceUnstub = "unstub"

// Builder is the construction-recipe hook: it produces the real object for
// one slot. The base recipe is DescriptorBuilder; specialized slots supply
// their own.
type Builder[T any] interface {
	Build(rc *Resolution) (T, error)
}

// BuilderFunc adapts a function to the Builder interface.
type BuilderFunc[T any] func(rc *Resolution) (T, error)

// Build calls f.
func (f BuilderFunc[T]) Build(rc *Resolution) (T, error) { return f(rc) }

// Resolution carries the context of one in-flight unstub attempt into a
// builder.
type Resolution struct {
	// Registry is the registry resolving the slot.
	Registry *Registry

	// Slot is the name of the slot being resolved.
	Slot string

	// Op is the operation that triggered resolution.
	Op string

	// Caller describes the calling code.
	Caller string

	// Depth is the attempt's nesting depth, starting at 1.
	Depth int
}

// Construct builds an instance of targetType through the registry's
// construction collaborator.
func (rc *Resolution) Construct(targetType string, args []any) (any, error) {
	return rc.Registry.construct(targetType, args)
}

// DescriptorBuilder returns the base construction recipe: instantiate the
// descriptor's target type with its arguments through the construction
// collaborator, then assert the result to T.
func DescriptorBuilder[T any](d Descriptor) Builder[T] {
	return BuilderFunc[T](func(rc *Resolution) (T, error) {
		var zero T
		obj, err := rc.Construct(d.TargetType, d.Args)
		if err != nil {
			return zero, err
		}
		v, ok := obj.(T)
		if !ok {
			return zero, fmt.Errorf("slot %q: constructed %T, want %s", d.Slot, obj, typeOf[T]())
		}
		return v, nil
	})
}

func typeOf[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}

// Cell is one global slot: a tagged binding that is pending (holds a
// construction recipe) until its first resolution and ready (holds the real
// value) afterwards. All state changes happen to the cell itself, so every
// handle taken before resolution observes the transition. A Cell is created
// through Register, RegisterType, or RegisterDescriptor.
type Cell[T any] struct {
	reg  *Registry
	name string

	mu    sync.RWMutex
	ready bool
	value T
	desc  Descriptor
	build Builder[T]
}

var (
	_ Slot = (*Cell[any])(nil)
	_ Stub = (*Cell[any])(nil)
)

// Name returns the slot name.
func (c *Cell[T]) Name() string { return c.name }

// StubSlot marks the cell as a stand-in for its own slot.
func (c *Cell[T]) StubSlot() string { return c.name }

// TargetType returns the current descriptor's target type identifier, or ""
// for recipe-only slots.
func (c *Cell[T]) TargetType() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.desc.TargetType
}

// Descriptor returns the cell's current construction descriptor.
func (c *Cell[T]) Descriptor() Descriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.desc
}

// Ready reports whether the real object has been installed.
func (c *Cell[T]) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ready
}

// Peek returns the installed value without triggering construction.
func (c *Cell[T]) Peek() (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value, c.ready
}

// Resolve returns the slot's value, running the unstub protocol on first
// use. op labels the attempt in diagnostics; callers pass the name of the
// operation they are about to perform.
func (c *Cell[T]) Resolve(op string) (T, error) {
	return c.unstub(op, 2, false)
}

// MustResolve is Resolve for call sites that cannot carry an error return,
// such as forwarding methods. It panics with the underlying error — an
// *UnstubLoopError for loops — so the failure keeps its identity for
// recover-side inspection.
func (c *Cell[T]) MustResolve(op string) T {
	v, err := c.unstub(op, 2, false)
	if err != nil {
		panic(err)
	}
	return v
}

// Unstub runs the protocol with explicit caller attribution: callerDepth
// counts stack frames above the Unstub call site, 1 being its immediate
// caller. Stand-in types use this to attribute the code that invoked them
// rather than themselves.
func (c *Cell[T]) Unstub(op string, callerDepth int) (T, error) {
	return c.unstub(op, callerDepth+1, false)
}

// ForceResolve resolves the slot ahead of any operation and discards the
// value, labeling the attempt as externally triggered. Prefer invoking it
// through ForceUnstub, which is a no-op for non-stand-in values.
func (c *Cell[T]) ForceResolve() error {
	return c.ResolveExternal(2)
}

// ResolveExternal is the externally-triggered protocol entry for stand-in
// implementations; callerDepth follows the Unstub convention.
func (c *Cell[T]) ResolveExternal(callerDepth int) error {
	_, err := c.unstub(opForceUnstub, callerDepth+1, true)
	return err
}

// unstub is the core protocol. callerSkip counts frames above unstub itself
// for caller attribution.
func (c *Cell[T]) unstub(op string, callerSkip int, external bool) (T, error) {
	// Already real: constructed by an earlier call, possibly one nested
	// inside the current chain. No guard, no diagnostics.
	if v, ok := c.Peek(); ok {
		return v, nil
	}

	// The guard counts in-flight attempts across every slot of the
	// registry. It releases on all paths so the counter always returns to
	// its pre-call value once this attempt unwinds.
	release, depth, ok := c.reg.guard.enter()
	defer release()

	caller := c.reg.caller(callerSkip)

	end := c.reg.rec.UnstubBegin(Unstub{
		Slot:     c.name,
		Op:       op,
		Caller:   caller,
		Depth:    depth,
		External: external,
	})
	var err error
	defer func() { end(err) }()

	var zero T
	if !ok {
		err = &UnstubLoopError{Slot: c.name, Op: op, Caller: caller}
		return zero, err
	}

	c.reg.rec.Trace("unstubbing slot",
		"slot", c.name,
		"op", op,
		"caller", caller,
		"depth", depth,
	)

	// Re-read the recipe: a cell rebound since this handle was taken
	// constructs what it currently says, not what the handle remembers.
	build, rc := c.recipe(op, caller, depth)
	v, buildErr := build.Build(rc)
	if buildErr != nil {
		err = fmt.Errorf("construct slot %q: %w", c.name, buildErr)
		return zero, err
	}

	// The single slot transition. Under same-thread re-entrancy the
	// outermost attempt's store wins.
	c.store(v)
	return v, nil
}

func (c *Cell[T]) recipe(op, caller string, depth int) (Builder[T], *Resolution) {
	c.mu.RLock()
	build := c.build
	c.mu.RUnlock()
	return build, &Resolution{
		Registry: c.reg,
		Slot:     c.name,
		Op:       op,
		Caller:   caller,
		Depth:    depth,
	}
}

func (c *Cell[T]) store(v T) {
	c.mu.Lock()
	c.value = v
	c.ready = true
	c.mu.Unlock()
}

// Rebind replaces the cell's recipe in place and returns the slot to the
// pending state. Handles taken earlier keep pointing at the cell, so their
// next call resolves the new recipe. A nil builder keeps the current one.
// Not safe around in-flight resolutions; intended for test harnesses and
// controlled reconfiguration.
func (c *Cell[T]) Rebind(d Descriptor, b Builder[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	c.value = zero
	c.ready = false
	if d.Slot == "" {
		d.Slot = c.name
	}
	c.desc = d
	if b != nil {
		c.build = b
	}
}
