package atpg

import (
	"github.com/maximaximal/limboole/graph"
	"github.com/maximaximal/limboole/memarena"
)

// approxNodeInfoSize is the byte-accounting estimate charged per arena
// slot against the host Allocator. It does not need to match the actual
// Go struct size exactly; it only needs to give the allocator something
// proportionate to size the budget against.
const approxNodeInfoSize = 96

// arena is the per-pass pool of nodeInfo records. It is sized at 1.5x
// the region's node count to leave slack for nodes created by global-flow
// rewrites.
type arena struct {
	alloc         memarena.Allocator
	pool          []nodeInfo
	used          int
	reservedBytes int
}

// newArena reserves capacity for ceil(1.5*regionSize) NodeInfo slots
// against alloc. It returns ErrArenaExhausted if the host allocator cannot
// grant the reservation.
func newArena(alloc memarena.Allocator, regionSize int) (*arena, error) {
	capacity := regionSize + (regionSize+1)/2
	if capacity < 1 {
		capacity = 1
	}
	bytes := capacity * approxNodeInfoSize
	if err := alloc.Reserve(bytes); err != nil {
		return nil, wrapf("arena", ErrArenaExhausted)
	}
	return &arena{alloc: alloc, pool: make([]nodeInfo, capacity), reservedBytes: bytes}, nil
}

// assign borrows the next free slot for node, wires node.EngineInfo to it,
// and creates its backing FaultHandle. It returns ErrArenaExhausted if the
// arena has no free slots left.
func (a *arena) assign(node *graph.Node) (*nodeInfo, error) {
	if a.used >= len(a.pool) {
		return nil, ErrArenaExhausted
	}
	ni := &a.pool[a.used]
	a.used++
	ni.node = node
	ni.handle = newFaultHandle(node)
	node.EngineInfo = ni
	return ni, nil
}

// remaining reports how many unused slots are left.
func (a *arena) remaining() int {
	return len(a.pool) - a.used
}

// release clears EngineInfo on every node it assigned and gives the
// reserved bytes back to the host allocator. It must be called exactly
// once at the end of every pass.
func (a *arena) release() {
	for i := 0; i < a.used; i++ {
		if a.pool[i].node != nil {
			a.pool[i].node.EngineInfo = nil
		}
	}
	a.alloc.Release(a.reservedBytes)
	a.pool = nil
	a.used = 0
}
