// Package harness runs scripted navigation scenarios.
//
// A scenario is a YAML file with an initial stack, scripted middleware and
// a list of steps, plus an optional CUE route table for deep links. The
// harness executes the steps against a real store and deep-link pipeline,
// records the trace, and checks each step's expect clause and the
// scenario's assertions.
//
// The harness plays the policy layer for deep links. Plans execute
// immediately. Pending navigations are retained and resumed in arrival
// order when the scenario signs in.
//
// Runs are deterministic, so traces can be compared byte for byte against
// golden files:
//
//	result, err := harness.RunWithGolden(t, scenario)
//
// Golden files are canonical JSON lines under testdata/golden.
package harness
