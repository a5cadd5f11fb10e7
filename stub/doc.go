// Package stub implements lazy initialization for process-wide services.
//
// # Overview
//
// Application startup registers named slots cheaply: each slot records how to
// construct its real object but constructs nothing. The first genuine use of
// a slot triggers the unstub protocol, which builds the real object exactly
// once, installs it into the slot, and hands it back. Every later access goes
// straight to the installed object.
//
// Callers never hold the object directly during the deferred phase. They hold
// either a *Cell (the slot itself) or a stand-in value whose methods resolve
// the cell and delegate. Because the cell is mutated in place, references
// taken before resolution keep working afterwards: each call re-reads the
// cell state.
//
// # Slots and cells
//
// A Registry owns named cells. Each Cell is a tagged binding that is either
// pending (it holds a construction recipe) or ready (it holds the real
// value). Registration does no construction work:
//
//	cell, err := stub.Register[lang.Service](reg, "lang.content", builder)
//
// The first Resolve, MustResolve, or stand-in method call on a pending cell
// runs the unstub protocol; afterwards Resolve is a cheap read.
//
// # Loop detection
//
// Constructing one object may legitimately require resolving another slot.
// The registry tracks the depth of in-flight unstub attempts with a single
// shared counter, and fails an attempt that would nest deeper than the
// configured limit (default 2). Exceeding the limit means construction of an
// object re-entered a call on a still-pending slot in its own dependency
// chain — an unstub loop that would otherwise recurse without bound. The
// failure is reported as *UnstubLoopError and is a wiring bug, not a
// transient condition.
//
// # Concurrency
//
// Re-entrancy within one logical thread of control is the designed-for case:
// slots are expected to first resolve during single-threaded bootstrap or
// early request handling. Cell state transitions are mutex-protected, so
// reading an already-resolved cell from any goroutine is safe. Parallel
// first-touch of pending slots is outside the contract: the loop counter
// counts all in-flight attempts and does not distinguish goroutines.
package stub
