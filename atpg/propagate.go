package atpg

import (
	"github.com/maximaximal/limboole/container"
	"github.com/maximaximal/limboole/graph"
)

// opposite returns the complementary three-valued assignment; Undefined
// maps to itself.
func opposite(a graph.Assignment) graph.Assignment {
	switch a {
	case graph.True:
		return graph.False
	case graph.False:
		return graph.True
	default:
		return graph.Undefined
	}
}

// assign sets v's Assignment if it is currently Undefined and enqueues it
// for forward propagation, in FIFO order.
// It reports a conflict if v already holds the opposite value.
func (p *pass) assign(v *graph.Variable, val graph.Assignment) bool {
	if v.Assignment != graph.Undefined {
		return v.Assignment != val
	}
	v.Assignment = val
	p.touchedVars = append(p.touchedVars, v)
	p.varQueue.Push(v)
	return false
}

// drainVarQueue dequeues one variable at a time and launches forward
// propagation from every literal-node occurrence of that variable inside
// the region.
func (p *pass) drainVarQueue() {
	for {
		if p.conflict || p.cutoff {
			return
		}
		v, ok := p.varQueue.Pop()
		if !ok {
			return
		}
		p.propagateOccurrences(v.PosOccurrencesInPass, v.Assignment)
		if p.conflict || p.cutoff {
			return
		}
		p.propagateOccurrences(v.NegOccurrencesInPass, opposite(v.Assignment))
	}
}

func (p *pass) propagateOccurrences(occ []*graph.Node, val graph.Assignment) {
	for _, n := range occ {
		ni := infoOf(n)
		if ni == nil || ni.assignment != graph.Undefined {
			continue
		}
		ni.assignment = val
		p.touchedNodes = append(p.touchedNodes, n)
		p.fwdSteps++
		forwardPropagate(p, n)
		if p.conflict || p.cutoff {
			return
		}
	}
}

// dominantValue returns the value of n's kind that decides it as soon as
// any one child holds it: False for AND, True for OR.
func dominantValue(kind graph.Kind) graph.Assignment {
	if kind == graph.Or {
		return graph.True
	}
	return graph.False
}

// advanceWatcher scans pi's participating children for one still
// Undefined, used to replace a watcher that has just become assigned.
// It is called only when the watched child itself becomes assigned, not on
// every propagation event. Each call scans from the first participating
// child, not from the old watcher's position, so children assigned earlier
// are passed over again on every advance.
func advanceWatcher(pi *nodeInfo) *graph.Node {
	for _, c := range pi.participatingChildren() {
		if infoOf(c).assignment == graph.Undefined {
			return c
		}
	}
	return nil
}

// singleRemainingChildNeedingImplication finds n's one remaining
// unassigned child when n's own forced value requires every child to
// share it (AND forced true, OR forced false) — the "unjustified forced
// value" case that drives backward propagation. O(1): unassignedChCnt and
// watcher are kept current by forwardPropagate/backwardPropagate, so no
// child scan is needed here.
func singleRemainingChildNeedingImplication(n *graph.Node, ni *nodeInfo, val graph.Assignment) (*graph.Node, bool) {
	needsAll := (n.Kind == graph.And && val == graph.True) || (n.Kind == graph.Or && val == graph.False)
	if !needsAll {
		return nil, false
	}
	if ni.unassignedChCnt == 1 && ni.watcher != nil {
		return ni.watcher, true
	}
	return nil, false
}

func maybeImplyRemainingChild(p *pass, n *graph.Node, ni *nodeInfo) {
	if p.conflict || p.cutoff {
		return
	}
	if child, ok := singleRemainingChildNeedingImplication(n, ni, ni.assignment); ok {
		p.backwardPropagate(child, ni.assignment)
	}
}

// forwardPropagate is the tail-iterative forward evaluator: node just
// became assigned; walk upward, re-evaluating each parent, and continue
// past it only when the parent's own value newly becomes determined.
//
// Each step keeps the generalized two-watched-literal bookkeeping current
// instead of rescanning every child: the parent's unassignedChCnt is
// decremented once for node's transition, and its watcher is advanced past
// node if node was the one being watched. Determination then follows
// directly from the value node just took (the dominant value decides the
// parent immediately; an AND whose children all became True, or an OR
// whose children all became False, shows up as soon as unassignedChCnt
// reaches 0) without looking at any other child.
func forwardPropagate(p *pass, node *graph.Node) {
	for {
		if p.conflict || p.cutoff {
			return
		}
		parent := node.Parent
		if parent == nil {
			return
		}
		pi := infoOf(parent)
		if pi == nil {
			return // parent lies outside the region; stop at the LCA boundary
		}

		childVal := infoOf(node).assignment
		p.noteCounterChange(pi)
		pi.unassignedChCnt--
		if pi.watcher == node {
			pi.watcher = advanceWatcher(pi)
		}

		if pi.assignment != graph.Undefined {
			maybeImplyRemainingChild(p, parent, pi)
			return
		}

		dominant := dominantValue(parent.Kind)
		var determined bool
		var val graph.Assignment
		switch {
		case childVal == dominant:
			determined, val = true, dominant
		case pi.unassignedChCnt == 0:
			determined, val = true, opposite(dominant)
		}
		if !determined {
			return
		}

		p.fwdSteps++
		pi.assignment = val
		pi.justified = true
		p.touchedNodes = append(p.touchedNodes, parent)
		if p.overBudget() {
			p.cutoff = true
			return
		}

		maybeImplyRemainingChild(p, parent, pi)
		if p.conflict || p.cutoff {
			return
		}

		node = parent
	}
}

// backwardJob is one pending forced assignment in the backward worklist.
type backwardJob struct {
	node *graph.Node
	val  graph.Assignment
}

// backwardPropagate forces node to val and, iteratively over an explicit
// stack, pushes every newly-implied child. Forcing
// an operator node may in turn determine its parent, so each forced node
// also re-enters forwardPropagate (the permitted indirect recursion
// between forward and backward propagation).
func (p *pass) backwardPropagate(node *graph.Node, val graph.Assignment) {
	stack := container.NewStack[backwardJob](4)
	stack.Push(backwardJob{node, val})

	for !stack.Empty() {
		if p.conflict || p.cutoff {
			return
		}
		job, _ := stack.Pop()
		n, v := job.node, job.val

		if n.IsLiteral() {
			want := v
			if n.Lit.Negated {
				want = opposite(v)
			}
			if p.assign(n.Lit.Var, want) {
				p.conflict = true
			}
			continue
		}

		ni := infoOf(n)
		if ni == nil {
			continue
		}
		if ni.assignment != graph.Undefined {
			if ni.assignment != v {
				p.conflict = true
			}
			continue
		}

		p.bwdSteps++
		ni.assignment = v
		p.touchedNodes = append(p.touchedNodes, n)
		if p.overBudget() {
			p.cutoff = true
		}

		if child, ok := singleRemainingChildNeedingImplication(n, ni, v); ok {
			stack.Push(backwardJob{child, v})
		}

		forwardPropagate(p, n)
	}
}

// forceNode is the entry point used by the global-flow trial assignment
// to force an operator or literal node to a value without going through
// one of its own children. When n is itself a literal, forcing only
// assigns its variable; forceNode additionally
// drains the variable queue so every other occurrence of that variable in
// the region is propagated before the caller inspects the result.
func (p *pass) forceNode(n *graph.Node, val graph.Assignment) {
	p.backwardPropagate(n, val)
	p.drainVarQueue()
}

// resetTouched unassigns every variable and node touched since the last
// reset and clears the propagation queues: unassigns every variable
// touched this step, resets NodeInfo.assignment, and restores every
// perturbed unassignedChCnt/watcher pair to its pre-trial snapshot. It does
// not clear the sticky cutoff flag, which persists for the remainder of
// the pass.
func (p *pass) resetTouched() {
	for _, v := range p.touchedVars {
		v.Assignment = graph.Undefined
	}
	for _, n := range p.touchedNodes {
		if ni := infoOf(n); ni != nil {
			ni.assignment = graph.Undefined
			ni.justified = false
		}
	}
	for _, n := range p.touchedCounters {
		if ni := infoOf(n); ni != nil {
			ni.unassignedChCnt = ni.savedUnassignedChCnt
			ni.watcher = ni.savedWatcher
			ni.counterSaved = false
		}
	}
	p.touchedVars = p.touchedVars[:0]
	p.touchedNodes = p.touchedNodes[:0]
	p.touchedCounters = p.touchedCounters[:0]
	p.varQueue.Drain()
	p.conflict = false
}
