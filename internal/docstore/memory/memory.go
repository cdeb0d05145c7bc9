// Package memory provides an in-memory document store for local development
// and tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/z3ro647/HealthAndFitnessTrackerApp/internal/docstore"
)

type record struct {
	doc docstore.Document
	seq uint64
}

// Store keeps documents in process memory and fans full-state snapshots out
// to subscribers after every matching write.
type Store struct {
	mu      sync.Mutex
	data    map[string]map[string]record
	seq     uint64
	subs    map[uint64]*subscription
	nextSub uint64
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]map[string]record),
		subs: make(map[uint64]*subscription),
	}
}

// Subscribe registers fn for q and delivers the current result set
// immediately.
func (s *Store) Subscribe(ctx context.Context, q docstore.Query, fn docstore.SnapshotFunc) (docstore.Subscription, error) {
	s.mu.Lock()
	sub := &subscription{
		store:   s,
		id:      s.nextSub,
		query:   q,
		fn:      fn,
		pending: make(chan []docstore.Document, 1),
		stop:    make(chan struct{}),
	}
	s.nextSub++
	s.subs[sub.id] = sub
	sub.push(s.resultLocked(q))
	s.mu.Unlock()

	go sub.run()
	return sub, nil
}

// List runs the query once.
func (s *Store) List(ctx context.Context, q docstore.Query) ([]docstore.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resultLocked(q), nil
}

// GetOne reads a document by key.
func (s *Store) GetOne(ctx context.Context, collection, key string) (docstore.Document, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.data[collection][key]
	if !ok {
		return docstore.Document{}, false, nil
	}
	return rec.doc, true, nil
}

// Upsert creates or replaces the document at key and notifies subscribers.
func (s *Store) Upsert(ctx context.Context, collection, key string, fields map[string]any) error {
	s.write(collection, key, fields)
	return nil
}

// Insert stores fields under a fresh key and returns it.
func (s *Store) Insert(ctx context.Context, collection string, fields map[string]any) (string, error) {
	key := uuid.NewString()
	s.write(collection, key, fields)
	return key, nil
}

func (s *Store) write(collection, key string, fields map[string]any) {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}

	s.mu.Lock()
	coll, ok := s.data[collection]
	if !ok {
		coll = make(map[string]record)
		s.data[collection] = coll
	}
	seq := coll[key].seq
	if seq == 0 {
		s.seq++
		seq = s.seq
	}
	coll[key] = record{doc: docstore.Document{ID: key, Fields: copied}, seq: seq}

	// Snapshots are pushed before the store lock is released so they enter
	// each subscriber's queue in commit order. Pushing after unlock would let
	// two concurrent writers enqueue in inverted order, and coalescing would
	// then keep the stale snapshot over the newer one.
	for _, sub := range s.subs {
		if sub.query.Collection != collection {
			continue
		}
		sub.push(s.resultLocked(sub.query))
	}
	s.mu.Unlock()
}

func (s *Store) resultLocked(q docstore.Query) []docstore.Document {
	type entry struct {
		doc docstore.Document
		seq uint64
	}
	var entries []entry
	for _, rec := range s.data[q.Collection] {
		if q.Filter.Field != "" && docstore.StringField(rec.doc, q.Filter.Field) != q.Filter.Value {
			continue
		}
		entries = append(entries, entry{doc: rec.doc, seq: rec.seq})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	docs := make([]docstore.Document, len(entries))
	for i, e := range entries {
		docs[i] = e.doc
	}
	return docs
}

func (s *Store) removeSub(id uint64) {
	s.mu.Lock()
	delete(s.subs, id)
	s.mu.Unlock()
}

// subscription delivers coalesced snapshots on its own goroutine. deliverMu
// is held around every fn invocation so Cancel can guarantee that no call is
// in flight once it returns.
type subscription struct {
	store     *Store
	id        uint64
	query     docstore.Query
	fn        docstore.SnapshotFunc
	pending   chan []docstore.Document
	stop      chan struct{}
	stopOnce  sync.Once
	deliverMu sync.Mutex
	cancelled bool
}

func (s *subscription) run() {
	for {
		select {
		case <-s.stop:
			return
		case docs := <-s.pending:
			s.deliverMu.Lock()
			if !s.cancelled {
				s.fn(docs)
			}
			s.deliverMu.Unlock()
		}
	}
}

// push enqueues a snapshot, coalescing with any not-yet-delivered one. Every
// snapshot is full state, so dropping a superseded pending snapshot loses
// nothing. Callers must hold the store lock so snapshots are enqueued in
// commit order; push itself never blocks.
func (s *subscription) push(docs []docstore.Document) {
	for {
		select {
		case s.pending <- docs:
			return
		default:
			select {
			case <-s.pending:
			default:
			}
		}
	}
}

// Cancel stops delivery. Pending notifications are dropped, not delivered.
func (s *subscription) Cancel() {
	s.store.removeSub(s.id)
	s.deliverMu.Lock()
	s.cancelled = true
	s.deliverMu.Unlock()
	s.stopOnce.Do(func() { close(s.stop) })
}
