package engine

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/inet/internal/ir"
	"github.com/roach88/inet/internal/network"
)

func TestMetrics_Reductions(t *testing.T) {
	before := testutil.ToFloat64(reductionsTotal.WithLabelValues(RuleSuccessorAdder))

	reduceAdd(t, 4, 1)

	after := testutil.ToFloat64(reductionsTotal.WithLabelValues(RuleSuccessorAdder))
	assert.Equal(t, before+4, after)
}

func TestMetrics_Anomalies(t *testing.T) {
	before := testutil.ToFloat64(anomaliesTotal.WithLabelValues(ReasonOverConnected))

	net := network.FromNodes([]ir.Node{
		ir.At(a, ir.ZeroKind()),
		ir.At(a, ir.ZeroKind()),
		ir.At(a, ir.ZeroKind()),
	})
	_, err := Reduce(context.Background(), net)
	require.NoError(t, err)

	// Counted once per Reduce, not once per pass.
	after := testutil.ToFloat64(anomaliesTotal.WithLabelValues(ReasonOverConnected))
	assert.Equal(t, before+1, after)
}

func TestMetrics_PassesHistogram(t *testing.T) {
	reduceAdd(t, 1, 1)
	assert.Equal(t, 1, testutil.CollectAndCount(passesPerReduce, "inet_passes_per_reduce"))
}
