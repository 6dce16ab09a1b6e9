package atpg

import (
	"github.com/maximaximal/limboole/container"
	"github.com/maximaximal/limboole/graph"
)

// RootOutcome reports whether a redundancy proof at the graph root itself
// settled the formula's overall value: deleting a redundant subtree that
// is itself the whole graph root forces the formula to a constant.
type RootOutcome int

const (
	// RootUnresolved means no redundancy was proved at the graph root.
	RootUnresolved RootOutcome = iota
	// RootForcedTrue means the graph root was proved redundantly stuck at
	// true: the whole formula is a tautology under the current scope.
	RootForcedTrue
	// RootForcedFalse means the graph root was proved redundantly stuck at
	// false: the whole formula is unsatisfiable under the current scope.
	RootForcedFalse
)

// redundancyVerdict is the outcome of one redundancy test.
type redundancyVerdict int

const (
	verdictNonRedundant redundancyVerdict = iota
	verdictRedundant
)

// testIsRedundant sensitises candidate's stuck-at fault and drives
// propagation to decide whether its subtree is redundant.
func testIsRedundant(p *pass, candidate *graph.Node) redundancyVerdict {
	ft := faultType(candidate)

	if sensitize(p, candidate, ft) {
		p.resetTouched()
		return verdictRedundant
	}

	marked := markPath(p.sub, candidate)

	if collectOffPathLiterals(p, marked) {
		unmarkPath(marked)
		p.resetTouched()
		return verdictRedundant
	}

	if p.varQueue.Empty() {
		// Nothing queued to propagate: non-redundant, only path marks to
		// undo.
		unmarkPath(marked)
		return verdictNonRedundant
	}

	p.drainVarQueue()

	if p.conflict && !p.cutoff {
		p.pathNodes = append(p.pathNodes, marked...)
		unmarkPath(marked)
		p.resetTouched()
		return verdictRedundant
	}

	unmarkPath(marked)
	p.resetTouched()
	return verdictNonRedundant
}

// deleteRedundantSubformula removes candidate's subtree via the graph-
// mutation API, marking every deleted node's FaultHandle, resyncing the
// surviving parent's two-watched-literal bookkeeping, and reports whether
// the deletion settled the formula at the graph root.
func deleteRedundantSubformula(p *pass, candidate *graph.Node) RootOutcome {
	outcome := RootUnresolved
	parent := candidate.Parent
	if parent == nil {
		if candidate.Kind == graph.And {
			outcome = RootForcedFalse
		} else {
			outcome = RootForcedTrue
		}
	}

	graph.RemoveAndFreeSubformula(candidate, func(n *graph.Node) {
		if ni := infoOf(n); ni != nil && ni.handle != nil {
			ni.handle.markDeleted()
		}
	})
	resyncAfterDetach(parent)

	return outcome
}

// testAllFaults runs the redundancy-removal saturation loop over the
// pass's fault queue: each round drains the primary queue, parking
// non-redundant candidates on the secondary queue; a redundant candidate
// is deleted immediately. Rounds continue while at least one redundancy
// was found, stopping on an empty round, an empty subformula, or a
// cutoff, rotating candidates that survived a round onto a secondary
// queue instead of re-testing them immediately. It returns whether any change
// was made and the settled root outcome, if any.
func testAllFaults(p *pass) (changed bool, root RootOutcome) {
	primary := p.faultQueue
	secondary := p.secondary

	for {
		if p.cutoff {
			return changed, root
		}
		if primary.Empty() {
			return changed, root
		}

		roundChanged := false
		secondary.Drain()

		for {
			h, ok := primary.Pop()
			if !ok {
				break
			}
			if h.Deleted || h.Skip {
				continue
			}
			if infoOf(h.Node) == nil {
				continue
			}

			p.stats.FaultCnt++
			verdict := testIsRedundant(p, h.Node)
			if p.cutoff {
				secondary.Push(h)
				continue
			}

			if verdict == verdictRedundant {
				p.stats.RedFaultCnt++
				roundChanged = true
				changed = true
				if outcome := deleteRedundantSubformula(p, h.Node); outcome != RootUnresolved {
					root = outcome
				}
				continue
			}

			secondary.Push(h)
		}

		primary, secondary = swapQueues(primary, secondary)
		p.faultQueue, p.secondary = primary, secondary

		if !roundChanged {
			return changed, root
		}
		if lcaInfo := infoOf(p.sub.LCA); lcaInfo == nil || (lcaInfo.handle != nil && lcaInfo.handle.Deleted) {
			return changed, root // the subformula itself was deleted this round
		}
	}
}

func swapQueues(a, b *container.Queue[*FaultHandle]) (*container.Queue[*FaultHandle], *container.Queue[*FaultHandle]) {
	return b, a
}
