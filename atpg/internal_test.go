// Internal white-box tests for the unexported building blocks of the
// engine: FaultHandle lifecycle, nodeInfo bookkeeping, the arena, and
// candidate ordering. These live in package atpg (not atpg_test) because
// they exercise identifiers the public API deliberately does not export.
package atpg

import (
	"errors"
	"testing"

	"github.com/maximaximal/limboole/graph"
	"github.com/maximaximal/limboole/memarena"
)

func TestFaultHandle_LiveAndDeleted(t *testing.T) {
	n := &graph.Node{Kind: graph.Literal}
	h := newFaultHandle(n)
	if !h.live() {
		t.Fatalf("fresh handle should be live")
	}
	h.markDeleted()
	if h.live() {
		t.Fatalf("handle should not be live after markDeleted")
	}
	h.markDeleted() // idempotent
	if !h.Deleted {
		t.Fatalf("Deleted should stay true")
	}
	var nilHandle *FaultHandle
	if nilHandle.live() {
		t.Fatalf("nil handle must never report live")
	}
}

func TestArena_AssignAndExhaustion(t *testing.T) {
	alloc := memarena.NewCountingAllocator(0)
	ar, err := newArena(alloc, 2) // capacity = 2 + 1 = 3
	if err != nil {
		t.Fatalf("newArena = %v", err)
	}
	if ar.remaining() != 3 {
		t.Fatalf("remaining = %d, want 3", ar.remaining())
	}

	f := graph.NewFormula()
	v := f.NewVariable()
	var assigned []*graph.Node
	for i := 0; i < 3; i++ {
		n := f.NewLiteralNode(v, false)
		ni, err := ar.assign(n)
		if err != nil {
			t.Fatalf("assign(%d) = %v", i, err)
		}
		if ni.node != n {
			t.Fatalf("nodeInfo.node not wired to n")
		}
		if n.EngineInfo == nil {
			t.Fatalf("node.EngineInfo not set")
		}
		assigned = append(assigned, n)
	}

	if _, err := ar.assign(f.NewLiteralNode(v, false)); !errors.Is(err, ErrArenaExhausted) {
		t.Fatalf("assign past capacity = %v, want ErrArenaExhausted", err)
	}

	ar.release()
	for _, n := range assigned {
		if n.EngineInfo != nil {
			t.Fatalf("release should clear EngineInfo")
		}
	}
	if alloc.InUse() != 0 {
		t.Fatalf("alloc.InUse() after release = %d, want 0", alloc.InUse())
	}
}

func TestArena_ReserveFailureWraps(t *testing.T) {
	alloc := memarena.NewCountingAllocator(1) // far too small for any region
	if _, err := newArena(alloc, 100); !errors.Is(err, ErrArenaExhausted) {
		t.Fatalf("newArena with tiny budget = %v, want ErrArenaExhausted", err)
	}
}

func TestNodeInfo_ParticipatingChildrenRestricted(t *testing.T) {
	f := graph.NewFormula()
	and := f.NewAndNode()
	v1 := f.NewVariable()
	v2 := f.NewVariable()
	l1 := f.NewLiteralNode(v1, false)
	l2 := f.NewLiteralNode(v2, false)
	_ = graph.AddChildToList(and, l1)
	_ = graph.AddChildToList(and, l2)

	alloc := memarena.NewCountingAllocator(0)
	ar, _ := newArena(alloc, 4)
	niAnd, _ := ar.assign(and)
	niL1, _ := ar.assign(l1)
	_, _ = ar.assign(l2)

	if got := niAnd.participatingChildren(); len(got) != 2 {
		t.Fatalf("unrestricted participatingChildren = %d, want 2", len(got))
	}

	niAnd.setRestricted([]*FaultHandle{niL1.handle})
	if got := niAnd.participatingChildren(); len(got) != 1 || got[0] != l1 {
		t.Fatalf("restricted participatingChildren = %v, want [l1]", got)
	}
	if niAnd.allChildrenParticipate() {
		t.Fatalf("allChildrenParticipate should be false under a partial restriction")
	}
	if niAnd.unassignedChCnt != 1 {
		t.Fatalf("setRestricted should set unassignedChCnt = 1, got %d", niAnd.unassignedChCnt)
	}
}

func TestNodeInfo_CompactRestrictedWatchers(t *testing.T) {
	f := graph.NewFormula()
	and := f.NewAndNode()
	v1 := f.NewVariable()
	v2 := f.NewVariable()
	l1 := f.NewLiteralNode(v1, false)
	l2 := f.NewLiteralNode(v2, false)
	_ = graph.AddChildToList(and, l1)
	_ = graph.AddChildToList(and, l2)

	alloc := memarena.NewCountingAllocator(0)
	ar, _ := newArena(alloc, 4)
	niAnd, _ := ar.assign(and)
	niL1, _ := ar.assign(l1)
	niL2, _ := ar.assign(l2)

	niAnd.setRestricted([]*FaultHandle{niL1.handle, niL2.handle})
	niL2.handle.markDeleted()
	niAnd.needsCleanup = true
	niAnd.compactRestrictedWatchers()

	if len(niAnd.restrictedWatchers) != 1 || niAnd.restrictedWatchers[0] != niL1.handle {
		t.Fatalf("compactRestrictedWatchers left %v, want only l1's handle", niAnd.restrictedWatchers)
	}
	if niAnd.needsCleanup {
		t.Fatalf("compactRestrictedWatchers should clear needsCleanup")
	}
}

// buildBottomUpFixture builds AND(lit(a), OR(lit(b), lit(c))) and returns
// the changed subformula rooted at the AND.
func buildBottomUpFixture(f *graph.Formula) *graph.ChangedSubformula {
	root := f.NewAndNode()
	a := f.NewVariable()
	la := f.NewLiteralNode(a, false)
	_ = graph.AddChildToList(root, la)

	or := f.NewOrNode()
	b := f.NewVariable()
	c := f.NewVariable()
	_ = graph.AddChildToList(or, f.NewLiteralNode(b, false))
	_ = graph.AddChildToList(or, f.NewLiteralNode(c, false))
	_ = graph.AddChildToList(root, or)

	return graph.NewChangedSubformula(root)
}

func TestBottomUp_LiteralsBeforeInternalsReversed(t *testing.T) {
	f := graph.NewFormula()
	sub := buildBottomUpFixture(f)

	order := bottomUp(sub)
	if len(order) != sub.NodeCount() {
		t.Fatalf("bottomUp returned %d nodes, want %d", len(order), sub.NodeCount())
	}

	sawInternal := false
	for _, n := range order {
		if n.IsOperator() {
			sawInternal = true
			continue
		}
		if sawInternal {
			t.Fatalf("literal %v visited after an internal node in bottom-up order", n.ID)
		}
	}

	// The LCA (deepest internal in BFS terms is actually shallowest, but
	// reversed-BFS puts the LCA last among internals) must come last overall.
	if order[len(order)-1] != sub.LCA {
		t.Fatalf("bottomUp should finish with the LCA, got node kind %v", order[len(order)-1].Kind)
	}
}

func TestOrderedCandidates_DispatchesOnConfig(t *testing.T) {
	f := graph.NewFormula()
	sub := buildBottomUpFixture(f)

	bfsCfg := newConfig(WithOrdering(BreadthFirst))
	bfs := orderedCandidates(bfsCfg, sub)
	if bfs[0] != sub.LCA {
		t.Fatalf("breadth-first order should start at the LCA")
	}

	dfsCfg := newConfig(WithOrdering(DepthFirst))
	dfs := orderedCandidates(dfsCfg, sub)
	if dfs[len(dfs)-1] != sub.LCA {
		t.Fatalf("depth-first (post-order) should finish at the LCA")
	}
}

func TestPropagationBudget_SizeIndexedTable(t *testing.T) {
	cfg := newConfig()
	cases := []struct {
		size int
		want int
	}{
		{800, 1500000},
		{1000, 1200000},
		{1500, 800000},
		{2000, 700000},
		{3000, 600000},
		{4000, 500000},
		{6000, 300000},
		{8000, 200000},
		{10000, 100000},
		{12000, 50000},
		{50000, 10000},
	}
	for _, c := range cases {
		if got := propagationBudget(cfg, c.size); got != c.want {
			t.Fatalf("propagationBudget(%d) = %d, want %d", c.size, got, c.want)
		}
	}
}

func TestPropagationBudget_FixedOverride(t *testing.T) {
	cfg := newConfig(WithPropagationLimit(42))
	if got := propagationBudget(cfg, 9999999); got != 42 {
		t.Fatalf("propagationBudget with override = %d, want 42", got)
	}
}
