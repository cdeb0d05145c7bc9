package changefeed

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/segmentio/kafka-go"
)

// Reader exposes the minimal kafka.Reader interface needed by the listener.
type Reader interface {
	FetchMessage(context.Context) (kafka.Message, error)
	CommitMessages(context.Context, ...kafka.Message) error
	Close() error
}

// Refresher forces an immediate snapshot re-query for a collection.
type Refresher interface {
	Refresh(collection string)
}

// ListenerOption configures optional behaviour for the Listener.
type ListenerOption func(*Listener)

// WithListenerLogger overrides the logger used to report errors.
func WithListenerLogger(logger *log.Logger) ListenerOption {
	return func(l *Listener) {
		l.logger = logger
	}
}

// Listener consumes change notifications and wakes the matching
// subscriptions on the local store.
type Listener struct {
	reader    Reader
	refresher Refresher
	logger    *log.Logger
}

// NewListener constructs a Listener.
func NewListener(reader Reader, refresher Refresher, opts ...ListenerOption) *Listener {
	l := &Listener{
		reader:    reader,
		refresher: refresher,
		logger:    log.New(log.Writer(), "[changefeed] ", log.LstdFlags|log.Lshortfile),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run starts a blocking loop that processes notifications until the context
// is cancelled.
func (l *Listener) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		msg, err := l.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			l.logger.Printf("fetch error: %v", err)
			continue
		}

		var change Change
		if err := json.Unmarshal(msg.Value, &change); err != nil || change.Collection == "" {
			l.logger.Printf("decode error (partition=%d, offset=%d): %v", msg.Partition, msg.Offset, err)
			recordDecodeError()
			// Commit malformed messages to avoid poison-pill loops.
			if commitErr := l.reader.CommitMessages(ctx, msg); commitErr != nil {
				l.logger.Printf("commit error after decode failure: %v", commitErr)
			}
			continue
		}

		l.refresher.Refresh(change.Collection)

		if commitErr := l.reader.CommitMessages(ctx, msg); commitErr != nil {
			l.logger.Printf("commit error: %v", commitErr)
		} else {
			recordProcessed(change)
		}
	}
}
