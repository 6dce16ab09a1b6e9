package atpg

import "github.com/maximaximal/limboole/graph"

// markPath walks from candidate up to and including the subformula LCA,
// setting an on-path mark on every node visited. The returned
// slice, ordered candidate-first, is what unmarkPath needs to undo the
// marks later.
func markPath(sub *graph.ChangedSubformula, candidate *graph.Node) []*graph.Node {
	var marked []*graph.Node
	n := candidate
	for {
		if ni := infoOf(n); ni != nil && !ni.onPath {
			ni.onPath = true
			marked = append(marked, n)
		}
		if n == sub.LCA || n.Parent == nil {
			break
		}
		n = n.Parent
	}
	return marked
}

// unmarkPath clears the on-path mark from every node markPath returned.
func unmarkPath(marked []*graph.Node) {
	for _, n := range marked {
		if ni := infoOf(n); ni != nil {
			ni.onPath = false
		}
	}
}

// collectOffPathLiterals forces every literal child of every marked
// ancestor (excluding the candidate itself, marked[0]) that does not lie
// on the path to the value that does not dominate its parent — false for
// an OR parent, true for an AND parent — so the fault effect is forced to
// propagate unchanged along the path. It reports a conflict
// if any such assignment contradicts one already made.
func collectOffPathLiterals(p *pass, marked []*graph.Node) bool {
	if len(marked) < 2 {
		return false
	}
	for _, anc := range marked[1:] {
		if !anc.IsOperator() {
			continue
		}
		var nonDominant graph.Assignment
		switch anc.Kind {
		case graph.Or:
			nonDominant = graph.False
		case graph.And:
			nonDominant = graph.True
		default:
			continue
		}

		ni := infoOf(anc)
		for _, c := range ni.participatingChildren() {
			if !c.IsLiteral() {
				continue
			}
			if ci := infoOf(c); ci.onPath {
				continue
			}
			want := nonDominant
			if c.Lit.Negated {
				want = opposite(nonDominant)
			}
			if p.assign(c.Lit.Var, want) {
				return true
			}
		}
	}
	return false
}
