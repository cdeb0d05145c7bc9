// Package changefeed bridges document writes between service instances over
// Kafka. Every local write publishes a change notification; every consumed
// notification forces an immediate snapshot refresh for the touched
// collection, so subscribers on other instances do not have to wait out the
// poll interval.
package changefeed

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/z3ro647/HealthAndFitnessTrackerApp/internal/docstore"
)

// Change is the notification payload published per document write.
type Change struct {
	Collection string    `json:"collection"`
	DocKey     string    `json:"doc_key"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Notifier publishes change notifications to a single topic.
type Notifier struct {
	writer *kafka.Writer
}

// NewNotifier creates a Notifier for the given brokers and topic.
func NewNotifier(brokers []string, topic string) *Notifier {
	return &Notifier{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			RequiredAcks: kafka.RequireAll,
			Compression:  kafka.Snappy,
			Async:        false,
		},
	}
}

// Notify announces a write. Partitioning by collection keeps per-collection
// notifications in order.
func (n *Notifier) Notify(ctx context.Context, collection, key string) error {
	body, err := json.Marshal(Change{Collection: collection, DocKey: key, OccurredAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	return n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(collection),
		Value: body,
	})
}

// Close releases the underlying writer.
func (n *Notifier) Close() error {
	return n.writer.Close()
}

// Store decorates a document store so every successful write is announced on
// the changefeed. Publishing is best effort: a notification failure is logged
// and counted but never fails the write, since local subscribers already see
// it through the store itself.
type Store struct {
	docstore.Store
	notifier *Notifier
	logger   *log.Logger
}

// NewStore wraps inner with changefeed publication.
func NewStore(inner docstore.Store, notifier *Notifier) *Store {
	return &Store{
		Store:    inner,
		notifier: notifier,
		logger:   log.New(log.Writer(), "[changefeed] ", log.LstdFlags),
	}
}

// Upsert writes through and announces the change.
func (s *Store) Upsert(ctx context.Context, collection, key string, fields map[string]any) error {
	if err := s.Store.Upsert(ctx, collection, key, fields); err != nil {
		return err
	}
	s.announce(ctx, collection, key)
	return nil
}

// Insert writes through and announces the change.
func (s *Store) Insert(ctx context.Context, collection string, fields map[string]any) (string, error) {
	key, err := s.Store.Insert(ctx, collection, fields)
	if err != nil {
		return "", err
	}
	s.announce(ctx, collection, key)
	return key, nil
}

func (s *Store) announce(ctx context.Context, collection, key string) {
	if err := s.notifier.Notify(ctx, collection, key); err != nil {
		s.logger.Printf("publish error (collection=%s): %v", collection, err)
		recordPublishError(collection)
	}
}
