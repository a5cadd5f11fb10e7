// Package factory maps target type identifiers to constructor functions.
// Slot descriptors name the type of the real object they will eventually
// build; this registry turns that name plus the recorded arguments into an
// instance. Packages that provide constructible types register themselves
// in an init function against the package-level default registry.
package factory

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownType is returned when no constructor is registered for a
// requested target type.
var ErrUnknownType = errors.New("unknown target type")

// Func constructs one instance of a target type from descriptor arguments.
type Func func(args []any) (any, error)

// Registry holds registered constructors.
type Registry struct {
	mu    sync.RWMutex
	types map[string]Func
}

// NewRegistry creates an empty constructor registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]Func)}
}

// Register adds a constructor for targetType, replacing any previous one.
func (r *Registry) Register(targetType string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[targetType] = fn
}

// NewObject builds an instance of targetType from args.
func (r *Registry) NewObject(targetType string, args []any) (any, error) {
	r.mu.RLock()
	fn := r.types[targetType]
	r.mu.RUnlock()
	if fn == nil {
		return nil, fmt.Errorf("type %q: %w", targetType, ErrUnknownType)
	}
	obj, err := fn(args)
	if err != nil {
		return nil, fmt.Errorf("construct %q: %w", targetType, err)
	}
	return obj, nil
}

// Has reports whether a constructor is registered for targetType.
func (r *Registry) Has(targetType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.types[targetType] != nil
}

// Types returns all registered target type identifiers, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// defaultRegistry backs the package-level registration functions.
var defaultRegistry = NewRegistry()

// Default returns the package-level registry that init-time registrations
// target.
func Default() *Registry {
	return defaultRegistry
}

// Register adds a constructor to the default registry.
func Register(targetType string, fn Func) {
	defaultRegistry.Register(targetType, fn)
}

// NewObject builds an instance through the default registry.
func NewObject(targetType string, args []any) (any, error) {
	return defaultRegistry.NewObject(targetType, args)
}
