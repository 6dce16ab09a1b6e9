package atpg

import "github.com/maximaximal/limboole/graph"

// stuckAtValue returns the value of the stuck-at signature itself — the
// trial value global flow assigns to a candidate, as opposed to
// testIsRedundant's detectingValue which is its opposite.
func stuckAtValue(ft FaultType) graph.Assignment {
	return opposite(detectingValue(ft))
}

// upwardMerge reports whether (witnessKind, trial) belongs to the family
// of implications that require relinking above the witness — an AND
// forced true or an OR forced false.
// The other family (OR forced true / AND forced false) inserts directly
// under or at the witness without needing to climb past it.
func upwardMerge(witnessKind graph.Kind, trial graph.Assignment) bool {
	return (witnessKind == graph.And && trial == graph.True) || (witnessKind == graph.Or && trial == graph.False)
}

// allChildrenAtpgRelevant is the soundness guard: an
// upward-merge implication is only sound when every child of the witness
// participates in the pass, since the witness's value would otherwise
// depend on children the pass cannot see.
func allChildrenAtpgRelevant(witness *graph.Node, trial graph.Assignment) bool {
	if !upwardMerge(witness.Kind, trial) {
		return true
	}
	return infoOf(witness).allChildrenParticipate()
}

// findHighestImplicationOnPath walks from candidate's grandparent toward
// the subformula LCA (inclusive) looking for the highest ancestor whose
// assignment equals trial. It returns the topmost match, or
// ok=false if none exists or candidate has no grandparent.
func findHighestImplicationOnPath(sub *graph.ChangedSubformula, candidate *graph.Node, trial graph.Assignment) (witness *graph.Node, ok bool) {
	if candidate.Parent == nil || candidate.Parent.Parent == nil {
		return nil, false
	}
	for anc := candidate.Parent.Parent; ; {
		if ai := infoOf(anc); ai != nil && ai.assignment == trial {
			witness, ok = anc, true
		}
		if anc == sub.LCA || anc.Parent == nil {
			break
		}
		anc = anc.Parent
	}
	return witness, ok
}

// registerNewNode wires a freshly created operator node into the active
// pass: a NodeInfo from the arena, its watcher/unassignedChCnt seeded from
// its (freshly linked, still-Undefined) children, and a fresh FaultHandle
// pushed onto the fault queue. It reports false, setting p.arenaExhausted,
// when the arena has no room left; the caller must then abort the whole
// global-flow phase rather than continue relinking into unregistered
// nodes the pass can no longer track.
func registerNewNode(p *pass, n *graph.Node) bool {
	if p.ar.remaining() <= 0 {
		p.arenaExhausted = true
		return false
	}
	ni, err := p.ar.assign(n)
	if err != nil {
		p.arenaExhausted = true
		return false
	}
	ni.recomputeFromChildren()
	p.faultQueue.Push(ni.handle)
	return true
}

// registerAuxiliaryParent gives parent — typically witness.Parent, a node
// lying outside the pass region — a NodeInfo of its own restricted to
// exactly participants, so the two-watched-literal scheme and
// participatingChildren can reason about the handful of children an
// upward-merge relink actually cares about without pulling in parent's
// other, unrelated siblings. If parent already carries a NodeInfo (a
// second relink landing on the same auxiliary parent), its restricted list
// is replaced with the new participant set instead of allocating again.
// Reports false, setting p.arenaExhausted, on arena exhaustion.
func registerAuxiliaryParent(p *pass, parent *graph.Node, participants ...*graph.Node) bool {
	pi := infoOf(parent)
	if pi == nil {
		if p.ar.remaining() <= 0 {
			p.arenaExhausted = true
			return false
		}
		var err error
		pi, err = p.ar.assign(parent)
		if err != nil {
			p.arenaExhausted = true
			return false
		}
		p.faultQueue.Push(pi.handle)
	}
	handles := make([]*FaultHandle, 0, len(participants))
	for _, n := range participants {
		handles = append(handles, infoOf(n).handle)
	}
	pi.setRestricted(handles)
	return true
}

// extendParticipation appends child's handle to insertionPoint's
// restricted watcher list, if it has one, and resyncs the watcher
// bookkeeping from the result. Without this, a plain graph.AddChildToList
// relink onto a restricted node (sub.LCA, or an auxiliary parent) would
// structurally link child while leaving it invisible to
// participatingChildren, which only ever sees the restricted list's own
// contents.
func extendParticipation(insertionPoint, child *graph.Node) {
	pi := infoOf(insertionPoint)
	if pi == nil || pi.restrictedWatchers == nil {
		return
	}
	ci := infoOf(child)
	if ci == nil {
		return
	}
	pi.restrictedWatchers = append(pi.restrictedWatchers, ci.handle)
	pi.recomputeFromChildren()
}

// resyncAfterDetach brings parent's two-watched-literal bookkeeping back in
// sync after child has been unlinked from it: if parent holds a restricted
// watcher list, child's now-stale handle is swept out lazily (needsCleanup
// marks the list dirty rather than filtering it immediately here), then
// unassignedChCnt and watcher are rebuilt from whichever children remain.
// A relink is a structural change, not a trial perturbation, so this
// bypasses the noteCounterChange snapshot path entirely: there is nothing
// to roll back to.
func resyncAfterDetach(parent *graph.Node) {
	if parent == nil {
		return
	}
	pi := infoOf(parent)
	if pi == nil {
		return
	}
	if pi.restrictedWatchers != nil {
		pi.needsCleanup = true
	}
	pi.recomputeFromChildren()
}

// resyncStructuralChange brings n's own bookkeeping in line with its
// current children, for any node touched by a relink, a
// graph.SimplifyOneLevel flatten, or a single-child collapse.
func resyncStructuralChange(n *graph.Node) {
	if ni := infoOf(n); ni != nil {
		ni.recomputeFromChildren()
	}
}

// transformSubformulaByImplication relinks candidate under the insertion
// point implied by witness, per the rewrite-location table below, then
// resynchronizes every NodeInfo the relink touched. Rewrite-location
// table:
//
//   - witness is the LCA and also the graph root, upward merge: wrap
//     witness and candidate in a freshly created opposite-kind node that
//     becomes the new graph root.
//   - witness is the LCA and also the graph root, no merge: insert
//     directly under witness.
//   - witness is the LCA, upward merge: insert under witness.Parent,
//     behind a fresh auxiliary restricted watcher list holding exactly
//     {witness, candidate} — witness.Parent lies outside the region and
//     must not be treated as though every one of its native children
//     participates.
//   - witness is the LCA, no merge: insert directly under witness.
//   - witness is a child of the LCA, upward merge: insert under the LCA
//     itself.
//   - witness is a child of the LCA, no merge: insert directly under
//     witness.
//   - upward merge (witness elsewhere in the region): insert under
//     witness.Parent.
//   - no merge: insert directly under witness.
func transformSubformulaByImplication(p *pass, formula *graph.Formula, candidate, witness *graph.Node, trial graph.Assignment) {
	oldParent := candidate.Parent
	graph.UnlinkNode(candidate)
	resyncAfterDetach(oldParent)

	isGraphRoot := witness.Parent == nil
	isLCA := witness == p.sub.LCA
	isChildOfLCA := witness.Parent == p.sub.LCA
	merge := upwardMerge(witness.Kind, trial)

	var insertionPoint *graph.Node
	var auxParticipants []*graph.Node

	switch {
	case isLCA && isGraphRoot && merge:
		oppKind := graph.And
		if witness.Kind == graph.And {
			oppKind = graph.Or
		}
		var newTop *graph.Node
		if oppKind == graph.And {
			newTop = formula.NewAndNode()
		} else {
			newTop = formula.NewOrNode()
		}
		graph.AddChildToList(newTop, witness)
		graph.AddChildToList(newTop, candidate)
		formula.Root = newTop
		registerNewNode(p, newTop)
		return

	case isLCA && isGraphRoot:
		insertionPoint = witness

	case isLCA && merge:
		insertionPoint = witness.Parent
		auxParticipants = []*graph.Node{witness, candidate}

	case isLCA:
		insertionPoint = witness

	case isChildOfLCA && merge:
		insertionPoint = p.sub.LCA

	case isChildOfLCA:
		insertionPoint = witness

	case merge:
		insertionPoint = witness.Parent

	default:
		insertionPoint = witness
	}

	wasRestricted := false
	if ipi := infoOf(insertionPoint); ipi != nil {
		wasRestricted = ipi.restrictedWatchers != nil
	}

	graph.AddChildToList(insertionPoint, candidate)

	switch {
	case auxParticipants != nil:
		registerAuxiliaryParent(p, insertionPoint, auxParticipants...)
	case wasRestricted:
		extendParticipation(insertionPoint, candidate)
	}

	touched, removed := graph.SimplifyOneLevel(insertionPoint)
	if removed != nil {
		if ri := infoOf(removed); ri != nil && ri.handle != nil {
			ri.handle.markDeleted()
		}
	}
	for _, t := range touched {
		resyncStructuralChange(t)
	}
	resyncStructuralChange(insertionPoint)
}

// tryGlobalFlowCandidate attempts one global-flow rewrite for candidate
// and reports whether a relink happened.
func tryGlobalFlowCandidate(p *pass, formula *graph.Formula, candidate *graph.Node) bool {
	trial := stuckAtValue(faultType(candidate))

	p.forceNode(candidate, trial)
	sound := !p.conflict && !p.cutoff
	var witness *graph.Node
	var found bool
	if sound {
		witness, found = findHighestImplicationOnPath(p.sub, candidate, trial)
	}
	p.resetTouched()

	if !sound || !found {
		return false
	}
	if !allChildrenAtpgRelevant(witness, trial) {
		return false
	}
	// Relinking candidate out of its current parent must never leave that
	// parent with zero children: this graph has no constant-true/false node
	// kind to stand in for a vacuous AND/OR, so an operator left childless
	// would be structurally unrepresentable. Leave it in place instead.
	if candidate.Parent != nil && len(candidate.Parent.Children) == 1 {
		return false
	}

	transformSubformulaByImplication(p, formula, candidate, witness, trial)
	p.implicationNodes = append(p.implicationNodes, candidate, witness)
	return true
}

// optimizeByGlobalFlow repeatedly scans the region for implications until
// a round produces no new relink, the subformula disappears, the budget is
// exhausted, or the arena runs low enough that further relinks could no
// longer be tracked.
func optimizeByGlobalFlow(p *pass, formula *graph.Formula) bool {
	changed := false
	for {
		if p.cutoff || p.arenaExhausted {
			return changed
		}
		roundChanged := false
		for _, n := range orderedCandidates(p.cfg, p.sub) {
			if p.cutoff || p.arenaExhausted {
				return changed
			}
			if n == p.sub.LCA || !n.IsOperator() && n.Parent == nil {
				continue
			}
			ni := infoOf(n)
			if ni == nil || ni.handle == nil || ni.handle.Deleted {
				continue
			}
			if tryGlobalFlowCandidate(p, formula, n) {
				roundChanged = true
				changed = true
				p.stats.DerivedImplicationsCnt++
			}
		}
		if !roundChanged {
			return changed
		}
		if lcaInfo := infoOf(p.sub.LCA); lcaInfo == nil || (lcaInfo.handle != nil && lcaInfo.handle.Deleted) {
			return changed
		}
	}
}
