package harness

import (
	"github.com/roach88/inet/internal/engine"
	"github.com/roach88/inet/internal/network"
)

// RevisionSummary is what the harness records for one committed revision.
type RevisionSummary struct {
	Revision int64  `json:"revision"`
	Edit     string `json:"edit"`

	// Value is the decoded normal form; ValueError is set instead when the
	// normal form does not decode.
	Value      uint64 `json:"value"`
	ValueError string `json:"value_error,omitempty"`

	Live      int64 `json:"live"`
	Added     int64 `json:"added"`
	Removed   int64 `json:"removed"`
	Passes    int   `json:"passes"`
	Anomalies int   `json:"anomalies"`

	// Delta and Reductions are kept for rendering and assertions; they are
	// not part of golden snapshots.
	Delta      []network.Delta `json:"-"`
	Reductions map[string]int  `json:"-"`
}

func summarize(edit string, rev engine.Revision) RevisionSummary {
	return RevisionSummary{
		Revision:   rev.Number,
		Edit:       edit,
		Live:       rev.Live,
		Added:      rev.Added(),
		Removed:    rev.Removed(),
		Passes:     rev.Passes,
		Anomalies:  len(rev.Anomalies),
		Delta:      rev.Delta,
		Reductions: rev.Reductions,
	}
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass indicates overall success.
	// True if every expect clause and assertion matched.
	Pass bool `json:"pass"`

	// Revisions holds one summary per committed revision, in order.
	Revisions []RevisionSummary `json:"revisions"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:      true,
		Revisions: []RevisionSummary{},
		Errors:    []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Last returns the summary of the last revision. ok is false before the
// initial revision is recorded.
func (r *Result) Last() (RevisionSummary, bool) {
	if len(r.Revisions) == 0 {
		return RevisionSummary{}, false
	}
	return r.Revisions[len(r.Revisions)-1], true
}
