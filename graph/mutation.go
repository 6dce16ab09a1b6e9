// Package graph: the structural mutation API consumed by the atpg engine.
// Every exported function here keeps the
// Level/SizeSubformula/literal-children-first invariants intact; callers
// never touch Node.Children or Node.Parent directly.
package graph

// NewAndNode allocates a fresh, parentless AND node.
func (f *Formula) NewAndNode() *Node { return f.allocNode(And) }

// NewOrNode allocates a fresh, parentless OR node.
func (f *Formula) NewOrNode() *Node { return f.allocNode(Or) }

// NewLiteralNode allocates a fresh, parentless LITERAL node referencing
// the given polarity of v, and registers it in that Literal's occurrence
// list.
func (f *Formula) NewLiteralNode(v *Variable, negated bool) *Node {
	n := f.allocNode(Literal)
	lit := v.Lit(negated)
	n.Lit = lit
	lit.addOccurrence(n)

	return n
}

// childInsertIndex returns the index at which a new child of the given
// Kind should be spliced into parent.Children to keep literal children
// before operator children.
func childInsertIndex(parent *Node, childKind Kind) int {
	if childKind != Literal {
		return len(parent.Children)
	}
	for i, ch := range parent.Children {
		if ch.Kind != Literal {
			return i
		}
	}

	return len(parent.Children)
}

// AddChildToList appends child to parent's child list, preserving the
// literal-children-first invariant, and updates the Level of child's
// subtree and the SizeSubformula of parent and its ancestors.
//
// Complexity: O(parent.NumChildren()) for the splice, O(1) amortized append.
func AddChildToList(parent, child *Node) error {
	if parent == nil || child == nil {
		return ErrNilNode
	}
	if !parent.IsOperator() {
		return ErrNotOperator
	}

	idx := childInsertIndex(parent, child.Kind)
	parent.Children = append(parent.Children, nil)
	copy(parent.Children[idx+1:], parent.Children[idx:])
	parent.Children[idx] = child
	child.Parent = parent

	UpdateLevel(child)
	UpdateSizeSubformula(parent, child.SizeSubformula)

	return nil
}

// UnlinkNode detaches node from its parent's child list and propagates
// the resulting size decrease up through
// node's former ancestors. node.Parent is set to nil; node.Level is left
// untouched (callers that keep the detached subtree around should call
// UpdateLevel themselves once it is reattached or discarded).
//
// Complexity: O(parent.NumChildren()) for the splice.
func UnlinkNode(node *Node) error {
	if node == nil {
		return ErrNilNode
	}
	parent := node.Parent
	if parent == nil {
		return nil // already a root; nothing to do
	}

	found := -1
	for i, ch := range parent.Children {
		if ch == node {
			found = i
			break
		}
	}
	if found < 0 {
		return ErrNotAChild
	}
	parent.Children = append(parent.Children[:found], parent.Children[found+1:]...)
	node.Parent = nil

	UpdateSizeSubformula(parent, -node.SizeSubformula)

	return nil
}

// UpdateLevel recomputes subtreeRoot.Level from its parent (0 if it has
// none) and propagates the new level down to every descendant.
//
// Complexity: O(size of the subtree rooted at subtreeRoot).
func UpdateLevel(subtreeRoot *Node) {
	if subtreeRoot == nil {
		return
	}
	if subtreeRoot.Parent != nil {
		subtreeRoot.Level = subtreeRoot.Parent.Level + 1
	} else {
		subtreeRoot.Level = 0
	}
	for _, ch := range subtreeRoot.Children {
		UpdateLevel(ch)
	}
}

// UpdateSizeSubformula adds delta to node.SizeSubformula and to every
// ancestor's SizeSubformula up to the root.
//
// Complexity: O(depth of node).
func UpdateSizeSubformula(node *Node, delta int) {
	for n := node; n != nil; n = n.Parent {
		n.SizeSubformula += delta
	}
}

// SimplifyOneLevel performs a local single-level simplification:
// flatten an AND-of-AND (resp. OR-of-OR) child into node, and collapse
// node into its own parent if node ends up with
// exactly one child. It is safe to call on any operator node; literal
// nodes and nodes with fewer than the relevant shape are left untouched.
//
// It returns touched, the surviving nodes whose Children list was
// structurally rewritten (so a caller keeping side bookkeeping indexed by
// node, such as the atpg engine's per-node propagation counters, knows
// which entries to resynchronize), and removed, the node discarded by a
// single-child collapse, if any.
//
// Complexity: O(node.NumChildren() + count of flattened grandchildren).
func SimplifyOneLevel(node *Node) (touched []*Node, removed *Node) {
	if node == nil || !node.IsOperator() {
		return nil, nil
	}

	// Flatten same-kind operator children into node.
	rewritten := make([]*Node, 0, len(node.Children))
	changed := false
	for _, ch := range node.Children {
		if ch.Kind == node.Kind {
			changed = true
			for _, grandchild := range ch.Children {
				grandchild.Parent = node
				rewritten = append(rewritten, grandchild)
			}
			UpdateSizeSubformula(node, -1) // the grandchildren's sizes are already counted; only ch itself is gone
			// ch is discarded: detach it so it no longer claims node as parent.
			ch.Parent = nil
			ch.Children = nil
		} else {
			rewritten = append(rewritten, ch)
		}
	}
	if changed {
		// Re-sort so literal children precede operator children.
		lits := rewritten[:0:0]
		ops := make([]*Node, 0, len(rewritten))
		for _, ch := range rewritten {
			if ch.Kind == Literal {
				lits = append(lits, ch)
			} else {
				ops = append(ops, ch)
			}
		}
		node.Children = append(lits, ops...)
		for _, ch := range node.Children {
			UpdateLevel(ch)
		}
	}

	if len(node.Children) == 1 {
		parent := node.Parent
		MergeParent(node)
		if parent != nil {
			return []*Node{parent}, node
		}
		return nil, node
	}

	if changed {
		return []*Node{node}, nil
	}
	return nil, nil
}

// MergeParent collapses node, which must have exactly one child, into
// node's own parent: the single child is relinked directly under
// node.Parent, and node is discarded. An operator child takes node's former
// position; a literal child goes after the parent's other literal
// children, keeping literal children first. SizeSubformula of the parent
// and its ancestors drops by exactly 1; a same-kind operator child is not
// flattened into the parent. If node
// has no parent, it becomes the formula's own
// replacement and the caller is responsible for updating Formula.Root.
//
// Returns the surviving child so callers (e.g. the caller holding
// Formula.Root) can update their own references.
func MergeParent(node *Node) (*Node, error) {
	if node == nil {
		return nil, ErrNilNode
	}
	if len(node.Children) != 1 {
		return nil, ErrWrongChildCount
	}
	only := node.Children[0]
	parent := node.Parent

	if parent == nil {
		only.Parent = nil
		UpdateLevel(only)

		return only, nil
	}

	idx := -1
	for i, ch := range parent.Children {
		if ch == node {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrNotAChild
	}
	if only.IsLiteral() {
		parent.Children = append(parent.Children[:idx], parent.Children[idx+1:]...)
		idx = childInsertIndex(parent, Literal)
		parent.Children = append(parent.Children, nil)
		copy(parent.Children[idx+1:], parent.Children[idx:])
	}
	parent.Children[idx] = only
	only.Parent = parent
	UpdateLevel(only)
	UpdateSizeSubformula(parent, only.SizeSubformula-node.SizeSubformula)

	return only, nil
}

// RemoveAndFreeSubformula unlinks root from its parent (if any) and walks
// the subtree, invoking onRemove for every node (literal and operator,
// post-order) and detaching literal nodes from their Literal's occurrence
// list as it goes. onRemove may be nil.
//
// Complexity: O(size of the subtree rooted at root).
func RemoveAndFreeSubformula(root *Node, onRemove func(*Node)) error {
	if root == nil {
		return ErrNilNode
	}
	if root.Parent != nil {
		if err := UnlinkNode(root); err != nil {
			return err
		}
	}
	freeSubtree(root, onRemove)

	return nil
}

func freeSubtree(node *Node, onRemove func(*Node)) {
	for _, ch := range node.Children {
		freeSubtree(ch, onRemove)
	}
	if node.Kind == Literal && node.Lit != nil {
		node.Lit.removeOccurrence(node)
	}
	node.Parent = nil
	node.Children = nil
	if onRemove != nil {
		onRemove(node)
	}
}
