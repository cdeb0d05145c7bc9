package aggregate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/z3ro647/HealthAndFitnessTrackerApp/internal/docstore"
)

func TestDuplicateSubscriptionFault(t *testing.T) {
	subscriber := NewLiveSubscriber(newStubStore())
	noop := func([]docstore.Document) {}

	first, err := subscriber.Subscribe(context.Background(), CategoryWorkouts, "user-1", noop)
	require.NoError(t, err)

	_, err = subscriber.Subscribe(context.Background(), CategoryWorkouts, "user-1", noop)
	require.ErrorIs(t, err, ErrDuplicateSubscription)

	// A different category or subject is a distinct pair.
	_, err = subscriber.Subscribe(context.Background(), CategoryWater, "user-1", noop)
	require.NoError(t, err)
	_, err = subscriber.Subscribe(context.Background(), CategoryWorkouts, "user-2", noop)
	require.NoError(t, err)

	// Cancelling frees the slot.
	first.Cancel()
	_, err = subscriber.Subscribe(context.Background(), CategoryWorkouts, "user-1", noop)
	require.NoError(t, err)
}

func TestFailedSubscribeReleasesSlot(t *testing.T) {
	stub := newStubStore()
	stub.failWith(CategoryWorkouts, context.DeadlineExceeded)
	subscriber := NewLiveSubscriber(stub)
	noop := func([]docstore.Document) {}

	_, err := subscriber.Subscribe(context.Background(), CategoryWorkouts, "user-1", noop)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrDuplicateSubscription)

	stub.failWith(CategoryWorkouts, nil)
	_, err = subscriber.Subscribe(context.Background(), CategoryWorkouts, "user-1", noop)
	require.NoError(t, err)
}

func TestTrackedSubscriptionCancelIsIdempotent(t *testing.T) {
	subscriber := NewLiveSubscriber(newStubStore())
	sub, err := subscriber.Subscribe(context.Background(), CategoryWorkouts, "user-1", func([]docstore.Document) {})
	require.NoError(t, err)

	sub.Cancel()
	sub.Cancel()
}
