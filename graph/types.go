// Package graph: core Node/Formula types and sentinel errors.
//
// This file declares Kind, Node, Formula and the errors every mutation in
// this package can return. It mirrors the split in lvlath's core/types.go:
// types and sentinels live together, methods live in sibling files.
package graph

import "errors"

// Sentinel errors for graph construction and mutation.
var (
	// ErrNilNode indicates a nil *Node was passed where one was required.
	ErrNilNode = errors.New("graph: nil node")

	// ErrNotAChild indicates a node is not a child of the given parent.
	ErrNotAChild = errors.New("graph: node is not a child of parent")

	// ErrNotOperator indicates an operation requires an AND/OR node but got a literal.
	ErrNotOperator = errors.New("graph: node is not an operator")

	// ErrWrongChildCount indicates MergeParent was called on a node without exactly one child.
	ErrWrongChildCount = errors.New("graph: node does not have exactly one child")

	// ErrNotInSubformula indicates a node is not among the LCA's children in a ChangedSubformula.
	ErrNotInSubformula = errors.New("graph: node is not a child of the subformula LCA")
)

// Kind discriminates the three node shapes of an NNF DAG.
type Kind int

const (
	// Literal is a leaf node carrying a Lit reference; it has no children.
	Literal Kind = iota
	// And is an operator node; true iff every child is true.
	And
	// Or is an operator node; true iff at least one child is true.
	Or
)

// String renders Kind for diagnostics and test failure messages.
func (k Kind) String() string {
	switch k {
	case Literal:
		return "LITERAL"
	case And:
		return "AND"
	case Or:
		return "OR"
	default:
		return "UNKNOWN"
	}
}

// Node is a single vertex of the NNF DAG.
//
// For operator kinds (And, Or), Children holds the ordered child list with
// literal children preceding operator children; NumChildren mirrors
// len(Children) for parity with the original C ChildList/num_children split
// and is kept in sync by every mutator in this package.
//
// For Literal kind, Lit names the variable polarity this node is an
// occurrence of, and occIndex records this node's position in
// Lit.Occurrences for O(1) removal.
type Node struct {
	ID    int
	Kind  Kind
	Level int

	Parent   *Node
	Children []*Node

	// SizeSubformula is 1 + sum(child.SizeSubformula) for operators, 1 for literals.
	SizeSubformula int

	Lit      *Lit
	occIndex int

	// EngineInfo is an opaque per-pass scratch slot owned exclusively by
	// package atpg (see doc.go). graph never reads or writes it, not even
	// when RemoveAndFreeSubformula discards a node.
	EngineInfo interface{}
}

// IsLiteral reports whether n is a LITERAL node.
func (n *Node) IsLiteral() bool { return n.Kind == Literal }

// IsOperator reports whether n is an AND or OR node.
func (n *Node) IsOperator() bool { return n.Kind != Literal }

// NumChildren returns len(n.Children); zero for literal nodes.
func (n *Node) NumChildren() int { return len(n.Children) }

// Formula is the root container for an NNF DAG plus its variable pool.
type Formula struct {
	Root *Node
	Vars []*Variable

	nextNodeID int
	nextVarID  int
}

// NewFormula returns an empty Formula with no root and no variables.
func NewFormula() *Formula {
	return &Formula{}
}

// NewVariable allocates and registers a fresh Variable in f, wiring its two
// Literal views (positive, negative) back to it.
//
// Complexity: O(1).
func (f *Formula) NewVariable() *Variable {
	f.nextVarID++
	v := &Variable{ID: f.nextVarID}
	v.Lits[0] = Lit{Var: v, Negated: false}
	v.Lits[1] = Lit{Var: v, Negated: true}
	f.Vars = append(f.Vars, v)

	return v
}

func (f *Formula) allocNode(k Kind) *Node {
	f.nextNodeID++

	return &Node{ID: f.nextNodeID, Kind: k, SizeSubformula: 1}
}
