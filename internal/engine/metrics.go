package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// reductionsTotal counts fired rewrite rules by rule name.
	reductionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inet_reductions_total",
		Help: "Total rewrite rule applications by rule",
	}, []string{"rule"})

	// passesPerReduce tracks how many passes a Reduce call needed.
	passesPerReduce = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "inet_passes_per_reduce",
		Help:    "Number of rule engine passes until normal form",
		Buckets: prometheus.ExponentialBuckets(1, 2, 16),
	})

	// anomaliesTotal counts malformed addresses left in a normal form.
	anomaliesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inet_anomalies_total",
		Help: "Malformed addresses found in normal forms by reason",
	}, []string{"reason"})

	// batchesTotal counts edit batches by outcome.
	batchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inet_edit_batches_total",
		Help: "Edit batches by result",
	}, []string{"result"})
)
