package atpg

import "github.com/maximaximal/limboole/graph"

// regionNodes returns every node in the union of subtrees rooted at sub's
// participating children, plus the LCA itself. Node order is
// unspecified; callers that need a particular traversal order use
// orderedCandidates instead. Every node in this graph has exactly one
// parent, so no visited-set is needed to avoid double-counting.
func regionNodes(sub *graph.ChangedSubformula) []*graph.Node {
	return postOrder(sub)
}

// postOrder visits participating subtrees in post-order (children before
// parent), finishing with the LCA.
func postOrder(sub *graph.ChangedSubformula) []*graph.Node {
	var out []*graph.Node
	var visit func(n *graph.Node)
	visit = func(n *graph.Node) {
		if n.IsOperator() {
			for _, c := range n.Children {
				visit(c)
			}
		}
		out = append(out, n)
	}
	for _, ch := range sub.ParticipatingChildren() {
		visit(ch)
	}
	out = append(out, sub.LCA)
	return out
}

// breadthFirst visits the region level by level, starting at the LCA.
func breadthFirst(sub *graph.ChangedSubformula) []*graph.Node {
	out := make([]*graph.Node, 0, sub.NodeCount())
	queue := []*graph.Node{sub.LCA}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		out = append(out, n)
		if !n.IsOperator() {
			continue
		}
		if n == sub.LCA {
			queue = append(queue, sub.ParticipatingChildren()...)
		} else {
			queue = append(queue, n.Children...)
		}
	}
	return out
}

// bottomUp returns literals first, then internal (operator) nodes in
// reverse breadth-first order. This is the default ordering because
// it lets leaves collapse before more expensive ancestor faults are tried.
func bottomUp(sub *graph.ChangedSubformula) []*graph.Node {
	bfs := breadthFirst(sub)
	literals := make([]*graph.Node, 0, len(bfs))
	internals := make([]*graph.Node, 0, len(bfs))
	for _, n := range bfs {
		if n.IsLiteral() {
			literals = append(literals, n)
		} else {
			internals = append(internals, n)
		}
	}
	for i, j := 0, len(internals)-1; i < j; i, j = i+1, j-1 {
		internals[i], internals[j] = internals[j], internals[i]
	}
	return append(literals, internals...)
}

// orderedCandidates returns the region's nodes in the traversal order
// selected by cfg.
func orderedCandidates(cfg *config, sub *graph.ChangedSubformula) []*graph.Node {
	switch cfg.ordering {
	case DepthFirst:
		return postOrder(sub)
	case BreadthFirst:
		return breadthFirst(sub)
	default:
		return bottomUp(sub)
	}
}
