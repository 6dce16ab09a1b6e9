// Package graph implements the mutable Negation-Normal-Form DAG that the
// ATPG redundancy-removal and global-flow engine (package atpg) rewrites.
//
// A Formula is a rooted DAG of Node values: AND and OR operator nodes plus
// LITERAL leaves. Every non-root Node has exactly one parent; an operator
// Node owns an ordered list of children with literal children always
// placed before operator children. Two invariants are maintained by every
// structural mutation in this package:
//
//   - Level:          parent.Level < child.Level for every non-root node.
//   - SizeSubformula: 1 + sum(child.SizeSubformula) for operators, 1 for
//     literals.
//
// Variables and Lits model the Boolean variables of the formula: each
// Variable owns two Lit views (positive, negative), and each Lit
// tracks the set of Node leaves ("occurrences") that reference it. Nodes
// never own variables; variables own their occurrence sets.
//
// This package is the substrate only — it knows nothing about three-valued
// propagation, fault candidates, or redundancy. Node carries one untyped
// scratch field, EngineInfo, that package atpg uses to attach its own
// per-pass bookkeeping without a circular import; graph never reads it.
package graph
