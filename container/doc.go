// Package container provides the generic FIFO Queue and LIFO Stack the
// atpg engine uses for its fault queue, propagation queue, and backward-
// propagation stack. The only suspension points in that engine are these
// types' explicit Push/Pop calls.
//
// Both types are a growable array doubling its capacity on overflow,
// expressed with Go generics. Neither type is safe for concurrent use;
// the engine that uses them is single-threaded by design.
package container
