// Package postgres backs the document store contract with a JSONB table.
// Snapshot subscriptions are driven by a poll loop per subscription; the
// changefeed can force an immediate re-query through Refresh when a remote
// write is announced.
package postgres

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/z3ro647/HealthAndFitnessTrackerApp/internal/docstore"
)

// Store implements docstore.Store on top of a documents table.
type Store struct {
	pool         *pgxpool.Pool
	pollInterval time.Duration
	logger       *log.Logger

	mu      sync.Mutex
	subs    map[uint64]*subscription
	nextSub uint64
}

// Option configures optional behaviour for the Store.
type Option func(*Store)

// WithLogger overrides the logger used to report poll failures.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore constructs a Store polling each subscription at pollInterval.
func NewStore(pool *pgxpool.Pool, pollInterval time.Duration, opts ...Option) *Store {
	s := &Store{
		pool:         pool,
		pollInterval: pollInterval,
		logger:       log.New(log.Writer(), "[docstore] ", log.LstdFlags),
		subs:         make(map[uint64]*subscription),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe starts a poll loop for q. The current result set is delivered
// first; afterwards a snapshot is delivered whenever the result set changes.
func (s *Store) Subscribe(ctx context.Context, q docstore.Query, fn docstore.SnapshotFunc) (docstore.Subscription, error) {
	// Fail subscription establishment eagerly so the caller sees transport
	// errors instead of a silent empty stream.
	if _, err := s.List(ctx, q); err != nil {
		return nil, err
	}

	s.mu.Lock()
	sub := &subscription{
		store:   s,
		id:      s.nextSub,
		query:   q,
		fn:      fn,
		refresh: make(chan struct{}, 1),
		stop:    make(chan struct{}),
	}
	s.nextSub++
	s.subs[sub.id] = sub
	s.mu.Unlock()

	go sub.run(ctx)
	return sub, nil
}

// List runs the query once, in insertion order.
func (s *Store) List(ctx context.Context, q docstore.Query) ([]docstore.Document, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if q.Filter.Field == "" {
		const stmt = `SELECT doc_key, fields FROM documents WHERE collection=$1 ORDER BY seq`
		rows, err = s.pool.Query(ctx, stmt, q.Collection)
	} else {
		const stmt = `SELECT doc_key, fields FROM documents WHERE collection=$1 AND fields->>$2 = $3 ORDER BY seq`
		rows, err = s.pool.Query(ctx, stmt, q.Collection, q.Filter.Field, q.Filter.Value)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []docstore.Document
	for rows.Next() {
		var (
			key  string
			body []byte
		)
		if err := rows.Scan(&key, &body); err != nil {
			return nil, err
		}
		fields := make(map[string]any)
		if err := json.Unmarshal(body, &fields); err != nil {
			return nil, err
		}
		docs = append(docs, docstore.Document{ID: key, Fields: fields})
	}
	return docs, rows.Err()
}

// GetOne reads a document by key.
func (s *Store) GetOne(ctx context.Context, collection, key string) (docstore.Document, bool, error) {
	const stmt = `SELECT fields FROM documents WHERE collection=$1 AND doc_key=$2`

	var body []byte
	if err := s.pool.QueryRow(ctx, stmt, collection, key).Scan(&body); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return docstore.Document{}, false, nil
		}
		return docstore.Document{}, false, err
	}

	fields := make(map[string]any)
	if err := json.Unmarshal(body, &fields); err != nil {
		return docstore.Document{}, false, err
	}
	return docstore.Document{ID: key, Fields: fields}, true, nil
}

// Upsert creates or fully replaces the document at key.
func (s *Store) Upsert(ctx context.Context, collection, key string, fields map[string]any) error {
	body, err := json.Marshal(fields)
	if err != nil {
		return err
	}

	const stmt = `INSERT INTO documents (collection, doc_key, fields) VALUES ($1,$2,$3)
        ON CONFLICT (collection, doc_key) DO UPDATE SET fields = EXCLUDED.fields`

	if _, err := s.pool.Exec(ctx, stmt, collection, key, body); err != nil {
		return err
	}
	s.Refresh(collection)
	return nil
}

// Insert stores fields under a fresh key and returns it.
func (s *Store) Insert(ctx context.Context, collection string, fields map[string]any) (string, error) {
	key := uuid.NewString()
	if err := s.Upsert(ctx, collection, key, fields); err != nil {
		return "", err
	}
	return key, nil
}

// Refresh wakes every subscription on the collection for an immediate
// re-query instead of waiting out the poll interval.
func (s *Store) Refresh(collection string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subs {
		if sub.query.Collection != collection {
			continue
		}
		select {
		case sub.refresh <- struct{}{}:
		default:
		}
	}
}

func (s *Store) removeSub(id uint64) {
	s.mu.Lock()
	delete(s.subs, id)
	s.mu.Unlock()
}

type subscription struct {
	store   *Store
	id      uint64
	query   docstore.Query
	fn      docstore.SnapshotFunc
	refresh chan struct{}
	stop    chan struct{}

	stopOnce  sync.Once
	deliverMu sync.Mutex
	cancelled bool
}

func (s *subscription) run(ctx context.Context) {
	ticker := time.NewTicker(s.store.pollInterval)
	defer ticker.Stop()

	var last []byte
	delivered := false

	poll := func() {
		docs, err := s.store.List(ctx, s.query)
		if err != nil {
			// Transient failure: keep the subscriber's prior state intact
			// and try again on the next cycle.
			if !errors.Is(err, context.Canceled) {
				s.store.logger.Printf("poll error (collection=%s): %v", s.query.Collection, err)
			}
			return
		}

		fingerprint, err := json.Marshal(docs)
		if err != nil {
			s.store.logger.Printf("fingerprint error (collection=%s): %v", s.query.Collection, err)
			return
		}
		if delivered && bytes.Equal(fingerprint, last) {
			return
		}
		last = fingerprint

		s.deliverMu.Lock()
		if !s.cancelled {
			s.fn(docs)
			delivered = true
		}
		s.deliverMu.Unlock()
	}

	poll()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-s.refresh:
			poll()
		case <-ticker.C:
			poll()
		}
	}
}

// Cancel stops delivery synchronously; a poll already querying will finish
// but its snapshot is dropped, not delivered.
func (s *subscription) Cancel() {
	s.store.removeSub(s.id)
	s.deliverMu.Lock()
	s.cancelled = true
	s.deliverMu.Unlock()
	s.stopOnce.Do(func() { close(s.stop) })
}
