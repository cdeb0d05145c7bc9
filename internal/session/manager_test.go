package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/z3ro647/HealthAndFitnessTrackerApp/internal/aggregate"
	"github.com/z3ro647/HealthAndFitnessTrackerApp/internal/docstore"
	"github.com/z3ro647/HealthAndFitnessTrackerApp/internal/docstore/memory"
)

// stubTransport fails subscriptions for selected collections while delegating
// everything else to a real in-memory store.
type stubTransport struct {
	docstore.Store
	failing map[string]error
}

func (s *stubTransport) Subscribe(ctx context.Context, q docstore.Query, fn docstore.SnapshotFunc) (docstore.Subscription, error) {
	if err := s.failing[q.Collection]; err != nil {
		return nil, err
	}
	return s.Store.Subscribe(ctx, q, fn)
}

func TestForReturnsSameStorePerSubject(t *testing.T) {
	m := NewManager(memory.NewStore())
	t.Cleanup(m.Close)
	ctx := context.Background()

	first, err := m.For(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "u1", first.Subject())
	require.Equal(t, aggregate.StateSubscribed, first.State())

	second, err := m.For(ctx, "u1")
	require.NoError(t, err)
	require.Same(t, first, second)

	other, err := m.For(ctx, "u2")
	require.NoError(t, err)
	require.NotSame(t, first, other)
	require.Equal(t, "u2", other.Subject())
}

func TestEvictDisposesStore(t *testing.T) {
	m := NewManager(memory.NewStore())
	t.Cleanup(m.Close)
	ctx := context.Background()

	store, err := m.For(ctx, "u1")
	require.NoError(t, err)

	m.Evict("u1")
	require.Equal(t, aggregate.StateDisposed, store.State())

	// A fresh store takes the subject's subscription slot afterwards.
	replacement, err := m.For(ctx, "u1")
	require.NoError(t, err)
	require.NotSame(t, store, replacement)
	require.Equal(t, aggregate.StateSubscribed, replacement.State())
}

func TestForKeepsPartiallyBoundStore(t *testing.T) {
	transport := &stubTransport{
		Store:   memory.NewStore(),
		failing: map[string]error{docstore.CollectionWorkouts: errors.New("transport down")},
	}
	m := NewManager(transport)
	t.Cleanup(m.Close)
	ctx := context.Background()

	// The workout subscription fails, but the store stays bound so the water
	// category's data is still served.
	store, err := m.For(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "u1", store.Subject())
	require.Equal(t, 1, store.ActiveSubscriptions())

	require.NoError(t, transport.Upsert(ctx, docstore.CollectionWater, "u1_2024-01-08", map[string]any{
		"uid": "u1", "date": "2024-01-08", "amount": 250,
	}))
	require.Eventually(t, func() bool {
		return store.WeeklyWaterMl().Total() == 250
	}, time.Second, 5*time.Millisecond)

	again, err := m.For(ctx, "u1")
	require.NoError(t, err)
	require.Same(t, store, again)
}

func TestForFailsWhenNoCategorySubscribes(t *testing.T) {
	down := errors.New("transport down")
	transport := &stubTransport{
		Store: memory.NewStore(),
		failing: map[string]error{
			docstore.CollectionWorkouts: down,
			docstore.CollectionWater:    down,
		},
	}
	m := NewManager(transport)
	t.Cleanup(m.Close)

	_, err := m.For(context.Background(), "u1")
	require.ErrorIs(t, err, down)
}

func TestCloseIsTerminal(t *testing.T) {
	m := NewManager(memory.NewStore())
	ctx := context.Background()

	store, err := m.For(ctx, "u1")
	require.NoError(t, err)

	m.Close()
	m.Close()
	require.Equal(t, aggregate.StateDisposed, store.State())

	_, err = m.For(ctx, "u1")
	require.ErrorIs(t, err, aggregate.ErrStoreDisposed)
}
