package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/inet/internal/engine"
	"github.com/roach88/inet/internal/ir"
)

// Snapshot captures the per-revision summary of a scenario run.
// All fields use canonical JSON serialization for deterministic comparison.
type Snapshot struct {
	ScenarioName string            `json:"scenario_name"`
	Revisions    []RevisionSummary `json:"revisions"`
}

// toCanonicalMap converts a Snapshot to a map[string]any for canonical JSON
// serialization.
func (s *Snapshot) toCanonicalMap() map[string]any {
	revisions := make([]any, len(s.Revisions))
	for i, r := range s.Revisions {
		m := map[string]any{
			"revision":  r.Revision,
			"edit":      r.Edit,
			"live":      r.Live,
			"added":     r.Added,
			"removed":   r.Removed,
			"passes":    r.Passes,
			"anomalies": r.Anomalies,
		}
		if r.ValueError != "" {
			m["value_error"] = r.ValueError
		} else {
			m["value"] = r.Value
		}
		revisions[i] = m
	}

	return map[string]any{
		"scenario_name": s.ScenarioName,
		"revisions":     revisions,
	}
}

// MarshalSnapshot renders the canonical JSON snapshot of a run.
func MarshalSnapshot(name string, result *Result) ([]byte, error) {
	snapshot := Snapshot{ScenarioName: name, Revisions: result.Revisions}
	return ir.MarshalCanonical(snapshot.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares the snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario, opts ...engine.Option) (*Result, error) {
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

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := MarshalSnapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
