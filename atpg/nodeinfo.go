package atpg

import "github.com/maximaximal/limboole/graph"

// nodeInfo is the per-node, per-pass transient record. Exactly one
// nodeInfo is borrowed from the active arena for every node participating
// in a pass; it is reachable from the graph node via node.EngineInfo and
// is invalid outside the pass that allocated it.
type nodeInfo struct {
	node *graph.Node

	assignment graph.Assignment
	justified  bool
	onPath     bool
	collected  bool

	// unassignedChCnt and watcher implement the generalized
	// two-watched-literal scheme: unassignedChCnt is the live count of
	// participating children still Undefined, and watcher always points at
	// one of them (nil once none remain). forwardPropagate/backwardPropagate
	// maintain both incrementally as children get assigned, so a node whose
	// value is forced by every-child-agrees (the AND-all-true/OR-all-false
	// case) is detected by unassignedChCnt reaching 0 rather than by
	// rescanning every child.
	unassignedChCnt int
	watcher         *graph.Node

	// counterSaved/savedUnassignedChCnt/savedWatcher snapshot
	// unassignedChCnt/watcher the first time they are perturbed during the
	// current trial (a redundancy test or a global-flow sensitization
	// attempt), so resetTouched can restore them if the trial is abandoned
	// without structural effect.
	counterSaved         bool
	savedUnassignedChCnt int
	savedWatcher         *graph.Node

	// restrictedWatchers, when non-nil, replaces the node's native child
	// list as the source of participating children — used when not all
	// of an operator's children participate in the current pass, or when
	// a global-flow rewrite ties an outside-the-region node (e.g. the
	// region LCA's own parent) to just the handful of nodes the rewrite
	// cares about. needsCleanup marks that the list holds handles that no
	// longer belong (deleted, or relinked elsewhere) and must be swept
	// before the list is next scanned.
	restrictedWatchers []*FaultHandle
	needsCleanup       bool

	handle *FaultHandle
}

// infoOf returns the nodeInfo attached to n for the active pass, or nil if
// n currently holds none.
func infoOf(n *graph.Node) *nodeInfo {
	if n == nil {
		return nil
	}
	ni, _ := n.EngineInfo.(*nodeInfo)
	return ni
}

// reset clears ni's assignment, marks, watcher and counter, keeping node,
// handle and restrictedWatchers. Nothing in the engine calls it:
// resetTouched rolls touched nodes back field by field and restores the
// watcher counters from their snapshots instead.
func (ni *nodeInfo) reset() {
	ni.assignment = graph.Undefined
	ni.justified = false
	ni.onPath = false
	ni.collected = false
	ni.unassignedChCnt = 0
	ni.watcher = nil
	ni.counterSaved = false
	ni.needsCleanup = false
}

// participatingChildren returns the children of ni.node considered part of
// the current pass: the restricted watcher list if one is set, otherwise
// every native child. A restricted list marked needsCleanup is compacted
// in place first, so the result never has to be filtered by the caller.
func (ni *nodeInfo) participatingChildren() []*graph.Node {
	if ni.restrictedWatchers == nil {
		return ni.node.Children
	}
	ni.compactRestrictedWatchers()
	out := make([]*graph.Node, 0, len(ni.restrictedWatchers))
	for _, h := range ni.restrictedWatchers {
		out = append(out, h.Node)
	}
	return out
}

// compactRestrictedWatchers sweeps handles that no longer belong out of the
// restricted watcher list in place: a handle is dropped once its node has
// been deleted, or once the node has been structurally relinked away from
// ni.node (detected by comparing its current Parent). Called lazily from
// participatingChildren, only when needsCleanup marks the list dirty.
func (ni *nodeInfo) compactRestrictedWatchers() {
	if !ni.needsCleanup || ni.restrictedWatchers == nil {
		return
	}
	kept := ni.restrictedWatchers[:0]
	for _, h := range ni.restrictedWatchers {
		if h.live() && h.Node.Parent == ni.node {
			kept = append(kept, h)
		}
	}
	ni.restrictedWatchers = kept
	ni.needsCleanup = false
}

// recomputeFromChildren rebuilds unassignedChCnt and watcher from scratch
// by scanning participatingChildren. Used only at structural-change points
// (a relink, a deletion, a flatten) — infrequent events where paying a
// linear scan is cheap, as opposed to the per-assignment-event path in
// propagate.go, which must not rescan.
func (ni *nodeInfo) recomputeFromChildren() {
	ni.unassignedChCnt = 0
	ni.watcher = nil
	for _, c := range ni.participatingChildren() {
		if infoOf(c).assignment == graph.Undefined {
			ni.unassignedChCnt++
			if ni.watcher == nil {
				ni.watcher = c
			}
		}
	}
}

// noteCounterChange snapshots ni's unassignedChCnt/watcher the first time
// they are about to be perturbed during the active trial, registering ni's
// node with p so resetTouched can restore the snapshot if the trial is
// abandoned. A no-op on the second and later calls within the same trial.
func (p *pass) noteCounterChange(ni *nodeInfo) {
	if ni.counterSaved {
		return
	}
	ni.counterSaved = true
	ni.savedUnassignedChCnt = ni.unassignedChCnt
	ni.savedWatcher = ni.watcher
	p.touchedCounters = append(p.touchedCounters, ni.node)
}

// allChildrenParticipate reports whether ni's restricted watcher list (if
// any) in fact covers every one of the node's native children.
func (ni *nodeInfo) allChildrenParticipate() bool {
	return ni.restrictedWatchers == nil || len(ni.restrictedWatchers) == len(ni.node.Children)
}

// setRestricted installs a restricted watcher list on ni, one handle per
// participating child, and initializes the watcher and unassigned counter
// to match.
func (ni *nodeInfo) setRestricted(handles []*FaultHandle) {
	ni.restrictedWatchers = handles
	ni.unassignedChCnt = len(handles)
	if len(handles) > 0 {
		ni.watcher = handles[0].Node
	}
}
