package memarena

import "errors"

// ErrArenaExhausted is returned by Reserve when granting the request would
// exceed the allocator's budget. This is an expected control-flow outcome,
// not a panic: callers abort the current pass cleanly and keep whatever
// work already committed.
var ErrArenaExhausted = errors.New("memarena: budget exhausted")

// ErrNegativeSize is returned when Reserve or Release is called with a
// negative byte count.
var ErrNegativeSize = errors.New("memarena: negative byte count")

// Allocator is the byte-accounting contract the atpg engine consumes: a
// pass reserves a byte estimate for its NodeInfo arena through Reserve and
// gives it back through Release when the pass ends, so InUse() reflects
// what the arena still holds. FaultHandles, queues and stacks are
// allocated without going through the Allocator.
type Allocator interface {
	// Reserve accounts for an additional n bytes. Returns ErrArenaExhausted
	// if granting the request would exceed Budget().
	Reserve(n int) error
	// Release gives back n bytes previously reserved.
	Release(n int)
	// InUse returns the number of bytes currently reserved.
	InUse() int
	// Budget returns the total byte budget this allocator enforces.
	Budget() int
}

// CountingAllocator is a straightforward Allocator: a running counter
// checked against a fixed budget. It is not safe for concurrent use —
// the engine that uses it is single-threaded and cooperatively scheduled,
// so only one pass ever holds the active arena at a time.
type CountingAllocator struct {
	budget int
	inUse  int
}

// NewCountingAllocator returns an Allocator enforcing the given byte
// budget. A budget of 0 or less means unlimited.
func NewCountingAllocator(budget int) *CountingAllocator {
	return &CountingAllocator{budget: budget}
}

// Reserve implements Allocator.
func (a *CountingAllocator) Reserve(n int) error {
	if n < 0 {
		return ErrNegativeSize
	}
	if a.budget > 0 && a.inUse+n > a.budget {
		return ErrArenaExhausted
	}
	a.inUse += n

	return nil
}

// Release implements Allocator.
func (a *CountingAllocator) Release(n int) {
	if n < 0 {
		n = 0
	}
	a.inUse -= n
	if a.inUse < 0 {
		a.inUse = 0
	}
}

// InUse implements Allocator.
func (a *CountingAllocator) InUse() int { return a.inUse }

// Budget implements Allocator.
func (a *CountingAllocator) Budget() int { return a.budget }

// AllReleased reports whether every reservation made on this allocator
// has since been released: released byte counts must equal allocated ones
// by the end of every pass.
func (a *CountingAllocator) AllReleased() bool { return a.inUse == 0 }
