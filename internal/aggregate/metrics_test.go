package aggregate

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"

	"github.com/z3ro647/HealthAndFitnessTrackerApp/internal/docstore"
)

func counterValue(t *testing.T, name, category string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			if hasCategoryLabel(metric, category) {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func hasCategoryLabel(metric *dto.Metric, category string) bool {
	for _, pair := range metric.GetLabel() {
		if pair.GetName() == "category" && pair.GetValue() == category {
			return true
		}
	}
	return false
}

func TestSnapshotCountersTrackAppliesAndDiscards(t *testing.T) {
	const (
		appliedName   = "fitness_tracker_aggregate_snapshots_applied_total"
		discardedName = "fitness_tracker_aggregate_snapshots_discarded_total"
	)

	appliedBefore := counterValue(t, appliedName, string(CategoryWorkouts))
	discardedBefore := counterValue(t, discardedName, string(CategoryWorkouts))

	stub := newStubStore()
	store := NewStore(NewLiveSubscriber(stub))
	require.NoError(t, store.BindSubject(context.Background(), "user-1"))

	day := time.Date(2024, time.January, 8, 12, 0, 0, 0, time.Local)
	stub.deliver(CategoryWorkouts, "user-1", []docstore.Document{workoutDoc("w1", "user-1", 30, day)})
	stale := stub.staleFn(CategoryWorkouts, "user-1")

	store.Dispose()
	stale([]docstore.Document{workoutDoc("w2", "user-1", 60, day)})

	require.Equal(t, appliedBefore+1, counterValue(t, appliedName, string(CategoryWorkouts)))
	require.Equal(t, discardedBefore+1, counterValue(t, discardedName, string(CategoryWorkouts)))
}
