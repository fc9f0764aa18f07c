// Package engine implements the navkit navigation reducer.
//
// The engine is a pure function: Apply takes a command and a stack and
// returns the next stack together with a Result. It has no state, performs
// no I/O, and never calls middleware. The store package drives it.
//
// DETERMINISM:
//
// Apply is total and deterministic for every command variant. The only
// caller-supplied code it runs is a conditional's predicate, evaluated once
// when the conditional is applied.
//
// Sequence steps are applied left to right against the evolving stack.
// A failing step does not stop the sequence and nothing is rolled back;
// the caller reads the per-step outcome from the Multiple result.
//
// popTo scans from the bottom and truncates to the first occurrence of
// its target, so with duplicate routes the deepest copy wins.
package engine
