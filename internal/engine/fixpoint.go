package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/inet/internal/network"
)

// Result is the outcome of reducing a network to normal form.
type Result struct {
	// Normal is the normal form.
	Normal *network.Network

	// Passes counts every pass, including the final one that changed nothing.
	Passes int

	// Reductions totals fired rules by rule name over all passes.
	Reductions map[string]int

	// Anomalies lists the malformed addresses still present in the normal
	// form.
	Anomalies []Anomaly
}

// Reduce runs Rule Engine passes until one outputs exactly its input.
//
// The input network is not modified. Every reduction consumes two live units
// and emits at most two, and for an addition problem built from n1 and n2 the
// number of possible reductions is bounded by n1 + n2 + O(1), so the loop ends.
// The pass budget (WithMaxPasses) guards against input that is not an addition
// problem. Cancellation is checked between and during passes.
func Reduce(ctx context.Context, net *network.Network, opts ...Option) (*Result, error) {
	o := buildOptions(opts)
	quota := newPassQuota(o.maxPasses)

	current := net.Clone()
	result := &Result{Reductions: make(map[string]int)}

	for {
		if err := quota.Check(); err != nil {
			slog.Error("pass budget exceeded",
				"passes", quota.current-1,
				"limit", o.maxPasses,
			)
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pass, err := Pass(ctx, current, opts...)
		if err != nil {
			return nil, fmt.Errorf("pass %d: %w", quota.current, err)
		}
		result.Passes++
		for name, n := range pass.Reductions {
			result.Reductions[name] += n
			reductionsTotal.WithLabelValues(name).Add(float64(n))
		}

		slog.Debug("pass complete",
			"pass", result.Passes,
			"reductions", pass.Fired(),
			"records", pass.Output.Len(),
		)

		if pass.Output.Equal(current) {
			result.Normal = current
			result.Anomalies = pass.Anomalies
			break
		}
		current = pass.Output
	}

	passesPerReduce.Observe(float64(result.Passes))
	for _, a := range result.Anomalies {
		anomaliesTotal.WithLabelValues(a.Reason).Inc()
		slog.Warn("malformed address in normal form",
			"addr", a.Addr.String(),
			"records", len(a.Records),
			"reason", a.Reason,
		)
	}
	return result, nil
}
