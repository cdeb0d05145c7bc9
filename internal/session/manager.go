// Package session hands each authenticated subject its own live aggregation
// store. A store holds exactly one subject context, so the manager keeps one
// per uid, bound lazily on first use.
package session

import (
	"context"
	"log"
	"sync"

	"github.com/z3ro647/HealthAndFitnessTrackerApp/internal/aggregate"
	"github.com/z3ro647/HealthAndFitnessTrackerApp/internal/docstore"
)

// Manager owns the per-subject aggregation stores.
type Manager struct {
	subscriber *aggregate.LiveSubscriber
	logger     *log.Logger

	mu     sync.Mutex
	stores map[string]*aggregate.Store
	closed bool
}

// NewManager constructs a Manager over the document store.
func NewManager(store docstore.Store) *Manager {
	return &Manager{
		subscriber: aggregate.NewLiveSubscriber(store),
		logger:     log.New(log.Writer(), "[session] ", log.LstdFlags),
		stores:     make(map[string]*aggregate.Store),
	}
}

// For returns the subject's aggregation store, binding it on first request.
func (m *Manager) For(ctx context.Context, uid string) (*aggregate.Store, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, aggregate.ErrStoreDisposed
	}
	store, ok := m.stores[uid]
	if ok {
		m.mu.Unlock()
		return store, nil
	}
	store = aggregate.NewStore(m.subscriber)
	m.stores[uid] = store
	m.mu.Unlock()

	if err := store.BindSubject(ctx, uid); err != nil {
		if store.ActiveSubscriptions() == 0 {
			m.mu.Lock()
			delete(m.stores, uid)
			m.mu.Unlock()
			store.Dispose()
			return nil, err
		}
		// One category failed to subscribe but the other delivers; keep the
		// store bound so the healthy category's data is still served.
		m.logger.Printf("partial bind for subject %s: %v", uid, err)
	}
	return store, nil
}

// Evict disposes the subject's store, e.g. on sign-out.
func (m *Manager) Evict(uid string) {
	m.mu.Lock()
	store, ok := m.stores[uid]
	delete(m.stores, uid)
	m.mu.Unlock()
	if ok {
		store.Dispose()
	}
}

// Close disposes every store. Idempotent.
func (m *Manager) Close() {
	m.mu.Lock()
	stores := m.stores
	m.stores = make(map[string]*aggregate.Store)
	m.closed = true
	m.mu.Unlock()

	for _, store := range stores {
		store.Dispose()
	}
}
