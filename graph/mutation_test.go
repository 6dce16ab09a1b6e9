// Package graph_test verifies structural mutation invariants: Level,
// SizeSubformula, and literal-children-first ordering.
package graph_test

import (
	"errors"
	"testing"

	"github.com/maximaximal/limboole/graph"
)

// buildOr2 builds OR(lit(a), lit(b)) with two fresh positive literals.
func buildOr2(f *graph.Formula) (*graph.Node, *graph.Variable, *graph.Variable) {
	a := f.NewVariable()
	b := f.NewVariable()
	or := f.NewOrNode()
	la := f.NewLiteralNode(a, false)
	lb := f.NewLiteralNode(b, false)
	_ = graph.AddChildToList(or, la)
	_ = graph.AddChildToList(or, lb)

	return or, a, b
}

// TestAddChildToList_LiteralsFirst verifies that literal children are
// always spliced before operator children regardless of insertion order.
func TestAddChildToList_LiteralsFirst(t *testing.T) {
	f := graph.NewFormula()
	and := f.NewAndNode()
	v := f.NewVariable()

	inner := f.NewOrNode()
	if err := graph.AddChildToList(and, inner); err != nil {
		t.Fatalf("AddChildToList(operator) = %v", err)
	}
	lit := f.NewLiteralNode(v, false)
	if err := graph.AddChildToList(and, lit); err != nil {
		t.Fatalf("AddChildToList(literal) = %v", err)
	}

	if len(and.Children) != 2 {
		t.Fatalf("NumChildren = %d, want 2", len(and.Children))
	}
	if and.Children[0] != lit {
		t.Fatalf("literal child must precede operator child; got %v first", and.Children[0].Kind)
	}
	if and.Children[1] != inner {
		t.Fatalf("operator child must be second")
	}
}

// TestAddChildToList_SizeAndLevel verifies SizeSubformula and Level are
// maintained through a chain of insertions.
func TestAddChildToList_SizeAndLevel(t *testing.T) {
	f := graph.NewFormula()
	or, _, _ := buildOr2(f)

	if or.SizeSubformula != 3 {
		t.Fatalf("SizeSubformula = %d, want 3", or.SizeSubformula)
	}
	for _, ch := range or.Children {
		if ch.Level != 1 {
			t.Fatalf("child Level = %d, want 1", ch.Level)
		}
		if ch.SizeSubformula != 1 {
			t.Fatalf("literal SizeSubformula = %d, want 1", ch.SizeSubformula)
		}
	}
}

// TestUnlinkNode_UpdatesSizeUpward verifies that unlinking a child
// decreases every ancestor's SizeSubformula by exactly the unlinked
// subtree's size.
func TestUnlinkNode_UpdatesSizeUpward(t *testing.T) {
	f := graph.NewFormula()
	root := f.NewAndNode()
	or, _, _ := buildOr2(f)
	if err := graph.AddChildToList(root, or); err != nil {
		t.Fatalf("AddChildToList = %v", err)
	}
	if root.SizeSubformula != 4 {
		t.Fatalf("root.SizeSubformula = %d, want 4", root.SizeSubformula)
	}

	if err := graph.UnlinkNode(or); err != nil {
		t.Fatalf("UnlinkNode = %v", err)
	}
	if root.SizeSubformula != 1 {
		t.Fatalf("root.SizeSubformula after unlink = %d, want 1", root.SizeSubformula)
	}
	if or.Parent != nil {
		t.Fatalf("unlinked node still has a parent")
	}
	if len(root.Children) != 0 {
		t.Fatalf("root still lists unlinked child")
	}
}

// TestUnlinkNode_NotAChild verifies the ErrNotAChild sentinel when a node
// claims a parent it does not actually belong to.
func TestUnlinkNode_NotAChild(t *testing.T) {
	f := graph.NewFormula()
	a := f.NewAndNode()
	o := f.NewOrNode()
	o.Parent = a // simulate an inconsistent graph without going through AddChildToList

	err := graph.UnlinkNode(o)
	if !errors.Is(err, graph.ErrNotAChild) {
		t.Fatalf("UnlinkNode = %v, want ErrNotAChild", err)
	}
}

// TestMergeParent_CollapsesSingleChildOperator verifies that merging a
// single-child operator whose child is a literal into its parent relinks
// the literal under the parent and decreases SizeSubformula by exactly 1
// (only the discarded operator). MergeParent never removes more than that
// one node.
func TestMergeParent_CollapsesSingleChildOperator(t *testing.T) {
	f := graph.NewFormula()
	root := f.NewAndNode()
	mid := f.NewOrNode() // single-child OR, to be collapsed
	v := f.NewVariable()
	lit := f.NewLiteralNode(v, false)

	_ = graph.AddChildToList(mid, lit)
	_ = graph.AddChildToList(root, mid)

	if root.SizeSubformula != 3 {
		t.Fatalf("root.SizeSubformula = %d, want 3", root.SizeSubformula)
	}

	survivor, err := graph.MergeParent(mid)
	if err != nil {
		t.Fatalf("MergeParent = %v", err)
	}
	if survivor != lit {
		t.Fatalf("MergeParent returned %v, want the literal child", survivor.Kind)
	}
	if root.Children[0] != lit {
		t.Fatalf("root's surviving child is not the literal")
	}
	if root.SizeSubformula != 2 {
		t.Fatalf("root.SizeSubformula after merge = %d, want 2", root.SizeSubformula)
	}
	if lit.Level != 1 {
		t.Fatalf("lit.Level after merge = %d, want 1", lit.Level)
	}
}

// TestMergeParent_WrongChildCount verifies the guard against merging a
// node that does not have exactly one child.
func TestMergeParent_WrongChildCount(t *testing.T) {
	f := graph.NewFormula()
	or, _, _ := buildOr2(f)

	if _, err := graph.MergeParent(or); !errors.Is(err, graph.ErrWrongChildCount) {
		t.Fatalf("MergeParent = %v, want ErrWrongChildCount", err)
	}
}

// TestSimplifyOneLevel_FlattensSameKind verifies AND-of-AND flattening
// reduces SizeSubformula by exactly one per collapsed intermediate node.
func TestSimplifyOneLevel_FlattensSameKind(t *testing.T) {
	f := graph.NewFormula()
	outer := f.NewAndNode()
	inner := f.NewAndNode()
	v1 := f.NewVariable()
	v2 := f.NewVariable()
	l1 := f.NewLiteralNode(v1, false)
	l2 := f.NewLiteralNode(v2, false)

	_ = graph.AddChildToList(inner, l1)
	_ = graph.AddChildToList(outer, inner)
	_ = graph.AddChildToList(outer, l2)

	before := outer.SizeSubformula // 1(outer) + 1(inner) + 1(l1) + 1(l2) = 4
	if before != 4 {
		t.Fatalf("before SizeSubformula = %d, want 4", before)
	}

	graph.SimplifyOneLevel(outer)

	if len(outer.Children) != 2 {
		t.Fatalf("after flatten, NumChildren = %d, want 2", len(outer.Children))
	}
	if outer.SizeSubformula != 3 {
		t.Fatalf("after flatten, SizeSubformula = %d, want 3", outer.SizeSubformula)
	}
	for _, ch := range outer.Children {
		if ch.Kind != graph.Literal {
			t.Fatalf("flattened children should all be literals, got %v", ch.Kind)
		}
		if ch.Parent != outer {
			t.Fatalf("flattened child's parent not repointed to outer")
		}
	}
}

// TestRemoveAndFreeSubformula_DetachesOccurrencesAndInvokesCallback
// verifies that every removed node (literal and operator) is reported via
// onRemove exactly once, and that literal occurrence lists shrink.
func TestRemoveAndFreeSubformula_DetachesOccurrencesAndInvokesCallback(t *testing.T) {
	f := graph.NewFormula()
	root := f.NewAndNode()
	or, a, _ := buildOr2(f)
	_ = graph.AddChildToList(root, or)

	if len(a.Lits[0].Occurrences) != 1 {
		t.Fatalf("a occurrence count = %d, want 1", len(a.Lits[0].Occurrences))
	}

	var removed []*graph.Node
	if err := graph.RemoveAndFreeSubformula(or, func(n *graph.Node) {
		removed = append(removed, n)
	}); err != nil {
		t.Fatalf("RemoveAndFreeSubformula = %v", err)
	}

	if len(removed) != 3 { // or, lit(a), lit(b)
		t.Fatalf("removed %d nodes, want 3", len(removed))
	}
	if len(a.Lits[0].Occurrences) != 0 {
		t.Fatalf("a occurrence count after removal = %d, want 0", len(a.Lits[0].Occurrences))
	}
	if len(root.Children) != 0 {
		t.Fatalf("root still lists removed child")
	}
	if root.SizeSubformula != 1 {
		t.Fatalf("root.SizeSubformula after removal = %d, want 1", root.SizeSubformula)
	}
}
