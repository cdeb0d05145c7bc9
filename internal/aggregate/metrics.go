package aggregate

import "github.com/prometheus/client_golang/prometheus"

var (
	snapshotAppliedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitness_tracker",
		Subsystem: "aggregate",
		Name:      "snapshots_applied_total",
		Help:      "Number of snapshots applied per category.",
	}, []string{"category"})

	snapshotDiscardedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitness_tracker",
		Subsystem: "aggregate",
		Name:      "snapshots_discarded_total",
		Help:      "Number of stale snapshots discarded per category.",
	}, []string{"category"})

	snapshotSizeGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "fitness_tracker",
		Subsystem: "aggregate",
		Name:      "snapshot_documents",
		Help:      "Document count of the most recently applied snapshot per category.",
	}, []string{"category"})

	decodeSkipCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitness_tracker",
		Subsystem: "aggregate",
		Name:      "documents_skipped_total",
		Help:      "Number of snapshot documents skipped because they could not be decoded.",
	}, []string{"category"})
)

func init() {
	prometheus.MustRegister(snapshotAppliedCounter, snapshotDiscardedCounter, snapshotSizeGauge, decodeSkipCounter)
}

func recordSnapshotApplied(category Category, docs int) {
	snapshotAppliedCounter.WithLabelValues(string(category)).Inc()
	snapshotSizeGauge.WithLabelValues(string(category)).Set(float64(docs))
}

func recordSnapshotDiscarded(category Category) {
	snapshotDiscardedCounter.WithLabelValues(string(category)).Inc()
}

func recordDecodeSkip(category Category) {
	decodeSkipCounter.WithLabelValues(string(category)).Inc()
}
