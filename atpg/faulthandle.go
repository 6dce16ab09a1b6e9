package atpg

import "github.com/maximaximal/limboole/graph"

// FaultHandle is a small deletion-safe proxy between queues and a live
// graph node. The fault queues and restricted watcher lists store
// *FaultHandle rather than *graph.Node directly, so removing a subtree
// only has to flip Deleted on every handle it owns; consumers discard
// stale entries lazily on dequeue instead of needing to scrub every queue
// eagerly. The per-variable occurrence lists
// (graph.Variable.PosOccurrencesInPass/NegOccurrencesInPass) hold
// *graph.Node directly and are not scrubbed when a subtree is removed.
type FaultHandle struct {
	Node    *graph.Node
	Deleted bool // monotone: once set, never cleared
	Skip    bool // when set, testAllFaults discards the handle on dequeue; nothing in this package sets it
}

// newFaultHandle creates a handle bound to node. It does not register the
// handle anywhere; callers attach it to the node's NodeInfo themselves.
func newFaultHandle(node *graph.Node) *FaultHandle {
	return &FaultHandle{Node: node}
}

// markDeleted flips Deleted. It is idempotent.
func (h *FaultHandle) markDeleted() {
	h.Deleted = true
}

// live reports whether h is non-nil and still refers to a node that has
// not been removed from the graph. Skip is not consulted.
func (h *FaultHandle) live() bool {
	return h != nil && !h.Deleted
}
