package object

import (
	"github.com/tomz197/shardfall/internal/input"
	"github.com/tomz197/shardfall/internal/physics"
)

// Input is an alias for the input package's Input type.
type Input = input.Input

// Poolable is implemented by every entity kind that lives in a pool.
// An active entity belongs to exactly one manager's active set; an inactive
// one waits in that manager's pool in its reset state.
type Poolable interface {
	// IsActive reports whether the entity takes part in the simulation.
	IsActive() bool
	// Reset returns the entity to its pooled state.
	Reset()
}

// Parked is where pooled entities wait, far outside any playfield, so a stale
// reference can never collide with anything.
var Parked = physics.Vec{-10000, -10000}

// IDAllocator hands out ids starting at 1. Each manager owns one, so ids are
// unique within an entity kind and restart with the session.
type IDAllocator struct {
	next uint64
}

// Next returns a fresh id.
func (a *IDAllocator) Next() uint64 {
	a.next++
	return a.next
}

// Last returns the most recently issued id, 0 if none.
func (a *IDAllocator) Last() uint64 {
	return a.next
}

// Reset restarts numbering from 1.
func (a *IDAllocator) Reset() {
	a.next = 0
}
