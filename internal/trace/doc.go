// Package trace records what a navigation store does.
//
// A Recorder is installed as store middleware and as the store's change
// handler. It stamps every hook invocation with a logical sequence number
// and renders commands, results and paths as strings so traces can be
// compared byte for byte, written to golden files, or persisted by the
// journal.
//
// Ordering comes from a logical Clock, never from wall time, so the same
// command stream always yields the same trace.
package trace
