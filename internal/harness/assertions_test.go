package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *Result {
	r := NewResult()
	r.Revisions = []RevisionSummary{
		{Revision: 0, Edit: EditConstruct, Value: 3, Live: 4, Reductions: map[string]int{"successor_adder": 2}},
		{Revision: 1, Edit: EditIncrementLeft, Value: 4, Live: 5, Anomalies: 1, Reductions: map[string]int{"successor_adder": 3}},
	}
	return r
}

func TestEvaluateAssertions_Pass(t *testing.T) {
	errs := EvaluateAssertions(sampleResult(), []Assertion{
		{Type: AssertRuleCount, Rule: "successor_adder", Count: 5},
		{Type: AssertRuleCount, Rule: "zero_adder", Count: 0},
		{Type: AssertAnomalyCount, Count: 1},
		{Type: AssertLiveCount, Count: 5},
		{Type: AssertRevisionCount, Count: 2},
	})
	assert.Empty(t, errs)
}

func TestEvaluateAssertions_Fail(t *testing.T) {
	errs := EvaluateAssertions(sampleResult(), []Assertion{
		{Type: AssertRuleCount, Rule: "successor_adder", Count: 4},
		{Type: AssertLiveCount, Count: 9},
	})
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], "Assertion failed: rule_count")
	assert.Contains(t, errs[0], "Actual: fired 5 times")
	assert.Contains(t, errs[1], "Expected: 9")
	assert.Contains(t, errs[1], "[1] increment_left value=4 live=5")
}

func TestEvaluateAssertions_Unknown(t *testing.T) {
	errs := EvaluateAssertions(sampleResult(), []Assertion{{Type: "final_state"}})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "unknown assertion type")
}
