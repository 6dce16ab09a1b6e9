// Package atpg implements the ATPG-style redundancy-removal and
// global-flow simplification engine: the core of this repository. It
// rewrites an NNF AND/OR/literal graph (package graph) by
// detecting untestable stuck-at faults — redundant subformulas that can
// be deleted — and by discovering implications that let subgraphs be
// relinked under stronger ancestors.
//
// The entry point is Driver.Run, which takes a graph.ChangedSubformula and
// alternates global-flow optimization with redundancy-removal testing
// under bounded propagation budgets until neither phase changes the region
// any more. A phase that exhausts its propagation budget is not run again
// in that call, and global flow stops relinking once the arena runs out of
// room.
//
// Scheduling is strictly single-threaded and cooperative: there
// is no goroutine spawned anywhere in this package, and the only
// suspension points are the explicit Push/Pop calls on the package
// container queues and stacks this engine uses internally.
package atpg
