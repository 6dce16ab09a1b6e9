package atpg

import (
	"errors"

	"github.com/maximaximal/limboole/graph"
	"github.com/maximaximal/limboole/memarena"
)

// Driver orchestrates one optimization pass over a changed subformula:
// alternating global-flow optimization with redundancy removal under a
// saturation policy, managing the NodeInfo arena, and reporting which
// variables an outer scorer should revisit.
type Driver struct {
	alloc memarena.Allocator
	cfg   *config

	onVariableForUpdate func(*graph.Variable)
}

// NewDriver returns a Driver backed by alloc (a nil alloc gets an
// unlimited CountingAllocator) configured by opts.
func NewDriver(alloc memarena.Allocator, opts ...Option) *Driver {
	if alloc == nil {
		alloc = memarena.NewCountingAllocator(0)
	}
	return &Driver{alloc: alloc, cfg: newConfig(opts...)}
}

// OnVariableForUpdate registers fn as a callback: it is invoked once per
// variable this run decides an
// outer expansion driver should rescore.
func (d *Driver) OnVariableForUpdate(fn func(*graph.Variable)) {
	d.onVariableForUpdate = fn
}

// Run executes one pass over sub, mutating formula in place. It returns
// accumulated Stats, a RootOutcome (non-Unresolved only if a redundancy
// proof settled the graph root itself), and an error only for inputs the
// caller got wrong (a nil subformula); arena exhaustion and subgraph-limit
// skips are reported as a clean no-op, not an error. A phase whose
// propagation budget runs out is skipped for the rest of the call. A
// non-nil sub is Reset before Run returns, so the next call needs a fresh
// selection.
func (d *Driver) Run(formula *graph.Formula, sub *graph.ChangedSubformula) (Stats, RootOutcome, error) {
	if sub == nil || sub.LCA == nil {
		return Stats{}, RootUnresolved, ErrNoSubformula
	}
	defer sub.Reset()

	regionSize := sub.NodeCount()
	if d.cfg.optSubgraphLimit > 0 && regionSize > d.cfg.optSubgraphLimit {
		return Stats{}, RootUnresolved, nil
	}

	p, err := initPass(d.alloc, d.cfg, sub)
	if err != nil {
		if errors.Is(err, ErrArenaExhausted) {
			return Stats{}, RootUnresolved, nil
		}
		return Stats{}, RootUnresolved, err
	}

	var root RootOutcome
	gfCutoff, atpgCutoff := false, false

	for {
		anyChange := false

		if !d.cfg.noGlobalFlow && !gfCutoff {
			p.fwdSteps, p.bwdSteps, p.cutoff = 0, 0, false
			p.budget = propagationBudget(d.cfg, sub.NodeCount())
			if optimizeByGlobalFlow(p, formula) {
				anyChange = true
			}
			if p.cutoff {
				p.stats.Cutoffs++
				gfCutoff = true
			}
			p.stats.FwdPropCnt += p.fwdSteps
			p.stats.BwdPropCnt += p.bwdSteps
		}

		if lcaGone(sub) {
			break
		}

		if !d.cfg.noATPG && !atpgCutoff {
			p.fwdSteps, p.bwdSteps, p.cutoff = 0, 0, false
			p.budget = propagationBudget(d.cfg, sub.NodeCount())
			redChanged, outcome := testAllFaults(p)
			if redChanged {
				anyChange = true
			}
			if p.cutoff {
				p.stats.Cutoffs++
				atpgCutoff = true
			}
			p.stats.FwdPropCnt += p.fwdSteps
			p.stats.BwdPropCnt += p.bwdSteps
			if outcome != RootUnresolved {
				root = outcome
			}
		}

		if !anyChange || lcaGone(sub) {
			break
		}
	}

	d.markAffectedVariablesForUpdate(p)
	stats := p.stats
	p.release()

	return stats, root, nil
}

// lcaGone reports whether the subformula's own LCA has itself been
// deleted, which ends the alternation immediately.
func lcaGone(sub *graph.ChangedSubformula) bool {
	ni := infoOf(sub.LCA)
	return ni == nil || (ni.handle != nil && ni.handle.Deleted)
}

// markAffectedVariablesForUpdate walks the fault-path and implication-path
// nodes collected during the pass and marks each literal's variable for
// rescoring. pathNodes come from a proved-redundant fault's justification
// path: the subtree they justified is gone, so their variable's scope
// shrank and its score should only go down (DecScoreUpdateMark).
// implicationNodes come from a global-flow relink: the candidate gained a
// new position the region didn't have before, so its variable's scope grew
// and its score should only go up (IncScoreUpdateMark). LCAUpdateMark marks
// the variable as touched at all, regardless of direction. Full QBF
// scope/cost-update semantics belong to an outer expansion driver this
// engine does not implement; here we only surface which variables changed
// and in which direction.
func (d *Driver) markAffectedVariablesForUpdate(p *pass) {
	seen := make(map[*graph.Variable]bool)
	mark := func(n *graph.Node, dec, inc bool) {
		if !n.IsLiteral() {
			return
		}
		v := n.Lit.Var
		v.LCAUpdateMark = true
		if dec {
			v.DecScoreUpdateMark = true
		}
		if inc {
			v.IncScoreUpdateMark = true
		}
		if seen[v] {
			return
		}
		seen[v] = true
		if d.onVariableForUpdate != nil {
			d.onVariableForUpdate(v)
		}
	}
	for _, n := range p.pathNodes {
		mark(n, true, false)
	}
	for _, n := range p.implicationNodes {
		mark(n, false, true)
	}
}
