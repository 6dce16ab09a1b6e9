package atpg

import "github.com/maximaximal/limboole/graph"

// FaultType is the stuck-at fault hypothesis under test for a candidate
// node: does it behave as if permanently forced to false, or to true.
type FaultType int

const (
	// StuckAt0 hypothesizes the node is forced to logical false.
	StuckAt0 FaultType = iota
	// StuckAt1 hypothesizes the node is forced to logical true.
	StuckAt1
)

// detectingValue returns the value that exposes ft — the opposite of the
// stuck-at value.
func detectingValue(ft FaultType) graph.Assignment {
	if ft == StuckAt0 {
		return graph.True
	}
	return graph.False
}

// faultType determines which stuck-at hypothesis applies to n:
// s-a-0 for an AND or a literal under an OR parent, s-a-1 for an OR or a
// literal under an AND parent. A root literal (no parent) falls back to
// s-a-0.
func faultType(n *graph.Node) FaultType {
	if n.IsLiteral() {
		if n.Parent != nil && n.Parent.Kind == graph.And {
			return StuckAt1
		}
		return StuckAt0
	}
	if n.Kind == graph.And {
		return StuckAt0
	}
	return StuckAt1
}

// sensitize assigns inputs so candidate would evaluate to the opposite of
// its stuck-at value. It reports a conflict if any assignment
// contradicts an already-assigned variable.
func sensitize(p *pass, candidate *graph.Node, ft FaultType) bool {
	detect := detectingValue(ft)

	assignLiteral := func(lit *graph.Node, want graph.Assignment) bool {
		if lit.Lit.Negated {
			want = opposite(want)
		}
		return p.assign(lit.Lit.Var, want)
	}

	if candidate.IsLiteral() {
		return assignLiteral(candidate, detect)
	}

	ni := infoOf(candidate)
	for _, c := range ni.participatingChildren() {
		if c.IsLiteral() {
			if assignLiteral(c, detect) {
				return true
			}
		}
	}
	return false
}
