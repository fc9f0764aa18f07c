package harness

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/navkit/internal/trace"
)

// Snapshot renders a run as canonical JSON lines: a header naming the
// scenario and its final path, one line per step, then one line per trace
// event.
func Snapshot(name string, result *Result) ([]byte, error) {
	var buf bytes.Buffer

	finalPath := make([]any, len(result.FinalPath))
	for i, p := range result.FinalPath {
		finalPath[i] = p
	}
	header, err := trace.MarshalCanonical(map[string]any{
		"scenario":   name,
		"final_path": finalPath,
	})
	if err != nil {
		return nil, err
	}
	buf.Write(header)
	buf.WriteByte('\n')

	for _, step := range result.Steps {
		line, err := trace.MarshalCanonical(step.canonical())
		if err != nil {
			return nil, err
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}

	events, err := trace.MarshalLines(result.Trace)
	if err != nil {
		return nil, err
	}
	buf.Write(events)

	return buf.Bytes(), nil
}

// RunWithGolden runs scenario and compares its snapshot with
// testdata/golden/<name>.golden. Regenerate with:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario, opts ...Option) (*Result, error) {
	t.Helper()

	result, err := Run(scenario, opts...)
	if err != nil {
		return nil, err
	}

	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result with its golden file.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	snapshot, err := Snapshot(name, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, snapshot)
	return nil
}
