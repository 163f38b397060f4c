package harness

import (
	"fmt"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type      string            // Assertion type for categorization
	Expected  string            // Human-readable expected outcome
	Actual    string            // Human-readable actual outcome
	Revisions []RevisionSummary // Full run for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nRevisions:\n")
	for _, r := range e.Revisions {
		fmt.Fprintf(&buf, "  [%d] %s value=%d live=%d +%d -%d\n",
			r.Revision, r.Edit, r.Value, r.Live, r.Added, r.Removed)
	}

	return buf.String()
}

// EvaluateAssertions checks every assertion against a finished run and
// returns the failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for _, a := range assertions {
		if err := evaluateAssertion(result, a); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func evaluateAssertion(result *Result, a Assertion) error {
	switch a.Type {
	case AssertRuleCount:
		return assertRuleCount(result, a)
	case AssertAnomalyCount:
		last, _ := result.Last()
		return assertCount(result, a, last.Anomalies)
	case AssertLiveCount:
		last, _ := result.Last()
		return assertCount(result, a, int(last.Live))
	case AssertRevisionCount:
		return assertCount(result, a, len(result.Revisions))
	default:
		return fmt.Errorf("unknown assertion type: %s", a.Type)
	}
}

// assertRuleCount checks that a rule fired exactly Count times over all
// revisions.
func assertRuleCount(result *Result, a Assertion) error {
	count := 0
	for _, r := range result.Revisions {
		count += r.Reductions[a.Rule]
	}
	if count != a.Count {
		return &AssertionError{
			Type:      AssertRuleCount,
			Expected:  fmt.Sprintf("rule %s fired %d times", a.Rule, a.Count),
			Actual:    fmt.Sprintf("fired %d times", count),
			Revisions: result.Revisions,
		}
	}
	return nil
}

func assertCount(result *Result, a Assertion, got int) error {
	if got != a.Count {
		return &AssertionError{
			Type:      a.Type,
			Expected:  fmt.Sprintf("%d", a.Count),
			Actual:    fmt.Sprintf("%d", got),
			Revisions: result.Revisions,
		}
	}
	return nil
}
