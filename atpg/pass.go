package atpg

import (
	"github.com/maximaximal/limboole/container"
	"github.com/maximaximal/limboole/graph"
	"github.com/maximaximal/limboole/memarena"
)

// pass holds everything local to one Driver.Run invocation: the arena, the
// region under optimization, the per-pass variable list, the propagation
// queues, and the sticky flags the propagation engine sets.
type pass struct {
	cfg *config
	sub *graph.ChangedSubformula
	ar  *arena

	vars []*graph.Variable

	varQueue   *container.Queue[*graph.Variable]
	faultQueue *container.Queue[*FaultHandle]
	secondary  *container.Queue[*FaultHandle]

	conflict       bool
	cutoff         bool
	arenaExhausted bool

	fwdSteps int
	bwdSteps int
	budget   int

	// touchedVars and touchedNodes accumulate everything assigned during
	// the current redundancy-test attempt, so a non-redundant outcome can
	// be rolled back in O(touched) instead of O(region).
	touchedVars  []*graph.Variable
	touchedNodes []*graph.Node

	// touchedCounters accumulates every node whose unassignedChCnt/watcher
	// was perturbed during the current trial, mirroring touchedNodes so
	// resetTouched can restore the two-watched-literal bookkeeping exactly
	// as it stood before the trial began.
	touchedCounters []*graph.Node

	// pathNodes and implicationNodes accumulate nodes whose scope
	// variables must be marked for cost-update at pass end.
	pathNodes        []*graph.Node
	implicationNodes []*graph.Node

	stats Stats
}

// stepsUsed returns the total propagation steps consumed so far this pass.
func (p *pass) stepsUsed() int { return p.fwdSteps + p.bwdSteps }

// overBudget reports whether the active budget has been exceeded; setting
// the sticky cutoff flag is the caller's job once it finishes its current
// step.
func (p *pass) overBudget() bool {
	return p.budget > 0 && p.stepsUsed() > p.budget
}

// initPass allocates the arena and populates NodeInfo for every node in
// the union of subtrees rooted at sub's participating children plus the
// LCA itself. On ErrArenaExhausted it releases whatever was
// already reserved and returns the error; the caller must treat this as a
// no-op pass.
func initPass(alloc memarena.Allocator, cfg *config, sub *graph.ChangedSubformula) (*pass, error) {
	if sub == nil || sub.LCA == nil {
		return nil, ErrNoSubformula
	}

	regionSize := sub.NodeCount()
	ar, err := newArena(alloc, regionSize)
	if err != nil {
		return nil, err
	}

	p := &pass{
		cfg:        cfg,
		sub:        sub,
		ar:         ar,
		varQueue:   container.NewQueue[*graph.Variable](0),
		faultQueue: container.NewQueue[*FaultHandle](regionSize),
		secondary:  container.NewQueue[*FaultHandle](regionSize),
		budget:     propagationBudget(cfg, regionSize),
	}

	nodes := regionNodes(sub)
	for _, n := range nodes {
		ni, err := ar.assign(n)
		if err != nil {
			p.release()
			return nil, err
		}
		if n.IsOperator() {
			ni.unassignedChCnt = len(n.Children)
			if len(n.Children) > 0 {
				ni.watcher = n.Children[0]
			}
		}
		if n.IsLiteral() {
			p.recordVariable(n)
		}
	}

	if sub.LCA.IsOperator() {
		lcaInfo := infoOf(sub.LCA)
		if !sub.AllChildrenParticipate() {
			handles := make([]*FaultHandle, 0, len(sub.Children))
			for _, ch := range sub.Children {
				handles = append(handles, infoOf(ch).handle)
			}
			lcaInfo.setRestricted(handles)
		}
	}

	for _, n := range orderedCandidates(cfg, sub) {
		p.faultQueue.Push(infoOf(n).handle)
	}

	return p, nil
}

// recordVariable adds lit's variable to the per-pass variable list on
// first sight and records its occurrence, restricted to this region
// restricted to this region.
func (p *pass) recordVariable(litNode *graph.Node) {
	v := litNode.Lit.Var
	if !v.SeenInPass {
		v.SeenInPass = true
		p.vars = append(p.vars, v)
	}
	if litNode.Lit.Negated {
		v.NegOccurrencesInPass = append(v.NegOccurrencesInPass, litNode)
	} else {
		v.PosOccurrencesInPass = append(v.PosOccurrencesInPass, litNode)
	}
}

// release clears the arena and resets every touched variable's pass
// scratch: after a pass, every variable is unassigned and every
// NodeInfo pointer on graph nodes is cleared.
func (p *pass) release() {
	for _, v := range p.vars {
		v.Assignment = graph.Undefined
		v.ResetPassScratch()
	}
	p.ar.release()
}
