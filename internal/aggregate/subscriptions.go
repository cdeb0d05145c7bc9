// Package aggregate maintains live per-subject aggregates over the document
// store's change stream: the full event set per category, the Sunday-first
// weekly summaries derived from it, and the today view.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/z3ro647/HealthAndFitnessTrackerApp/internal/docstore"
)

// Category identifies one subscribed event collection.
type Category string

const (
	CategoryWorkouts Category = docstore.CollectionWorkouts
	CategoryWater    Category = docstore.CollectionWater
)

// ErrDuplicateSubscription reports an attempt to establish a second standing
// subscription for the same (category, subject) pair without cancelling the
// first. This is a programming error, not a recoverable runtime condition.
var ErrDuplicateSubscription = errors.New("duplicate subscription for category/subject")

// LiveSubscriber enforces at most one standing subscription per
// (category, subject) pair on top of a document store.
type LiveSubscriber struct {
	store docstore.Store

	mu     sync.Mutex
	active map[string]struct{}
}

// NewLiveSubscriber constructs a LiveSubscriber over store.
func NewLiveSubscriber(store docstore.Store) *LiveSubscriber {
	return &LiveSubscriber{
		store:  store,
		active: make(map[string]struct{}),
	}
}

// Subscribe establishes the standing subscription for (category, uid),
// filtering the collection to the subject's documents. Deliveries arrive in
// transport order; every snapshot is authoritative full state.
func (s *LiveSubscriber) Subscribe(ctx context.Context, category Category, uid string, fn docstore.SnapshotFunc) (docstore.Subscription, error) {
	key := subscriptionKey(category, uid)

	s.mu.Lock()
	if _, dup := s.active[key]; dup {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrDuplicateSubscription, key)
	}
	s.active[key] = struct{}{}
	s.mu.Unlock()

	inner, err := s.store.Subscribe(ctx, docstore.Query{
		Collection: string(category),
		Filter:     docstore.Filter{Field: "uid", Value: uid},
	}, fn)
	if err != nil {
		s.release(key)
		return nil, err
	}

	return &trackedSubscription{inner: inner, release: func() { s.release(key) }}, nil
}

func (s *LiveSubscriber) release(key string) {
	s.mu.Lock()
	delete(s.active, key)
	s.mu.Unlock()
}

func subscriptionKey(category Category, uid string) string {
	return string(category) + "/" + uid
}

// trackedSubscription frees the (category, subject) slot once cancelled.
// Cancellation remains synchronous: the inner Cancel does not return while a
// delivery is in flight.
type trackedSubscription struct {
	inner   docstore.Subscription
	once    sync.Once
	release func()
}

func (t *trackedSubscription) Cancel() {
	t.once.Do(func() {
		t.inner.Cancel()
		t.release()
	})
}
