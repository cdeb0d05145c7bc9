// Package docstore abstracts the remote document store the tracker reads and
// writes through. The store delivers full current-state snapshots on every
// change to a subscribed query, never deltas; consumers treat each snapshot
// as authoritative and replace their prior view wholesale.
package docstore

import "context"

// Collection names consumed by the service.
const (
	CollectionWorkouts   = "workouts"
	CollectionWater      = "waterIntake"
	CollectionBMIHistory = "bmiHistory"
)

// Document is one record in a logical collection.
type Document struct {
	ID     string
	Fields map[string]any
}

// Filter restricts a query to documents whose field equals value.
type Filter struct {
	Field string
	Value string
}

// Query identifies a subscribable document set within one collection.
type Query struct {
	Collection string
	Filter     Filter
}

// SnapshotFunc receives the complete current document set matching a query,
// in stable insertion order. Notifications may coalesce several underlying
// writes into one snapshot.
type SnapshotFunc func(docs []Document)

// Subscription is the handle to a standing snapshot subscription.
type Subscription interface {
	// Cancel stops delivery. It is synchronous from the caller's point of
	// view: once Cancel returns, the snapshot function will not be invoked
	// again, even for notifications already in flight on the transport.
	Cancel()
}

// Store is the change-stream transport contract.
type Store interface {
	// Subscribe establishes a standing subscription delivering the current
	// result set immediately and again after every matching change, in
	// transport order.
	Subscribe(ctx context.Context, q Query, fn SnapshotFunc) (Subscription, error)

	// List runs the query once.
	List(ctx context.Context, q Query) ([]Document, error)

	// GetOne reads a single document by key. A missing document is reported
	// via ok=false, not an error.
	GetOne(ctx context.Context, collection, key string) (doc Document, ok bool, err error)

	// Upsert creates or fully replaces the document at key.
	Upsert(ctx context.Context, collection, key string, fields map[string]any) error

	// Insert creates a document under a store-assigned key and returns it.
	Insert(ctx context.Context, collection string, fields map[string]any) (string, error)
}

// StringField extracts a string field, tolerating absence.
func StringField(doc Document, name string) string {
	v, _ := doc.Fields[name].(string)
	return v
}

// NumberField extracts a numeric field. JSON decoding may surface numbers as
// float64 or int depending on the backend.
func NumberField(doc Document, name string) (float64, bool) {
	switch v := doc.Fields[name].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
