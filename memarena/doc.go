// Package memarena provides the byte-accounted allocator interface the
// atpg engine uses to size and release its per-pass NodeInfo arena.
//
// It is a thin layer over the runtime allocator that tracks the running
// byte total so the engine can treat "ran out of arena budget" as an
// ordinary control-flow outcome instead of an out-of-memory crash (see
// DESIGN.md for why this stays standard-library-only).
package memarena
