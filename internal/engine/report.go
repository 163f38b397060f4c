package engine

import (
	"context"

	"github.com/roach88/inet/internal/network"
)

// Revision is a committed edit batch together with the settled change of
// the normal form it caused.
type Revision struct {
	// Number is 0 for the initial network and increases by one per accepted
	// batch.
	Number int64 `json:"revision"`

	// Batch is the edit that produced the revision. For revision 0 it inserts
	// every initial record.
	Batch Batch `json:"batch"`

	// Delta is the change from the previous normal form to this one.
	Delta []network.Delta `json:"delta"`

	// Passes and Reductions describe the re-derivation.
	Passes     int            `json:"passes"`
	Reductions map[string]int `json:"reductions"`

	// Anomalies lists malformed addresses left in the normal form.
	Anomalies []Anomaly `json:"anomalies,omitempty"`

	// Hash is the content hash of the normal form.
	Hash string `json:"hash"`

	// Live is the number of live units in the normal form.
	Live int64 `json:"live"`
}

// Added and Removed count the positive and negative delta units.
func (r Revision) Added() int64 {
	var n int64
	for _, d := range r.Delta {
		if d.Change > 0 {
			n += d.Change
		}
	}
	return n
}

// Removed counts the retracted delta units.
func (r Revision) Removed() int64 {
	var n int64
	for _, d := range r.Delta {
		if d.Change < 0 {
			n -= d.Change
		}
	}
	return n
}

// Reporter receives every committed revision, in revision order.
//
// Reporters run after the revision is committed. A reporter error is logged
// and does not undo the revision.
type Reporter interface {
	Report(ctx context.Context, rev Revision) error
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(ctx context.Context, rev Revision) error

// Report calls f.
func (f ReporterFunc) Report(ctx context.Context, rev Revision) error {
	return f(ctx, rev)
}
