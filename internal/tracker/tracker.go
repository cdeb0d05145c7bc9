// Package tracker records workouts and water intake through the document
// store.
package tracker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/z3ro647/HealthAndFitnessTrackerApp/internal/docstore"
	"github.com/z3ro647/HealthAndFitnessTrackerApp/internal/domain"
	"github.com/z3ro647/HealthAndFitnessTrackerApp/internal/observability"
)

// DefaultWaterIncrementMl is the amount added per water tap.
const DefaultWaterIncrementMl = 250

// ErrInvalidWorkout is returned when a workout submission is incomplete or
// carries non-positive measures.
var ErrInvalidWorkout = errors.New("workout type, duration, and calories are required")

// Tracker validates and persists events. Water increments are read-then-write
// against a single per-day document, so the tracker serializes them per
// (subject, date): one increment in flight at a time, the rest queued on the
// day's lock. Two concurrent increments therefore never read the same base
// total.
type Tracker struct {
	store       docstore.Store
	incrementMl int
	now         func() time.Time

	mu       sync.Mutex
	dayLocks map[string]*sync.Mutex
}

// Option configures optional behaviour for the Tracker.
type Option func(*Tracker)

// WithWaterIncrement overrides the per-tap increment.
func WithWaterIncrement(ml int) Option {
	return func(t *Tracker) {
		if ml > 0 {
			t.incrementMl = ml
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// New constructs a Tracker over store.
func New(store docstore.Store, opts ...Option) *Tracker {
	t := &Tracker{
		store:       store,
		incrementMl: DefaultWaterIncrementMl,
		now:         time.Now,
		dayLocks:    make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// RecordWorkout validates and stores a workout stamped with the current time.
// The document key is store-assigned.
func (t *Tracker) RecordWorkout(ctx context.Context, uid, workoutType string, durationMin, calories float64) (domain.WorkoutEvent, error) {
	if workoutType == "" || durationMin <= 0 || calories <= 0 {
		return domain.WorkoutEvent{}, ErrInvalidWorkout
	}

	// Keep the stored offset local so the ISO date prefix agrees with the
	// LocalDate primitive used by the today filter.
	occurredAt := t.now().Format(time.RFC3339)
	id, err := t.store.Insert(ctx, docstore.CollectionWorkouts, map[string]any{
		"uid":         uid,
		"workoutType": workoutType,
		"duration":    durationMin,
		"calories":    calories,
		"date":        occurredAt,
	})
	if err != nil {
		return domain.WorkoutEvent{}, err
	}

	observability.RecordWorkoutStored(t.now())
	return domain.WorkoutEvent{
		ID:          id,
		UID:         uid,
		WorkoutType: workoutType,
		DurationMin: durationMin,
		Calories:    calories,
		OccurredAt:  occurredAt,
	}, nil
}

// WaterTotal reads the cumulative intake for (uid, date). A missing document
// means no intake logged yet and reports zero, not an error.
func (t *Tracker) WaterTotal(ctx context.Context, uid, date string) (int, error) {
	doc, ok, err := t.store.GetOne(ctx, docstore.CollectionWater, waterKey(uid, date))
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	amount, _ := docstore.NumberField(doc, "amount")
	return int(amount), nil
}

// AddWater adds one increment to the day's total and returns the new total.
func (t *Tracker) AddWater(ctx context.Context, uid, date string) (int, error) {
	key := waterKey(uid, date)

	lock := t.dayLock(key)
	lock.Lock()
	defer lock.Unlock()

	current, err := t.WaterTotal(ctx, uid, date)
	if err != nil {
		return 0, err
	}

	total := current + t.incrementMl
	err = t.store.Upsert(ctx, docstore.CollectionWater, key, map[string]any{
		"uid":    uid,
		"date":   date,
		"amount": total,
	})
	if err != nil {
		return 0, err
	}

	observability.RecordWaterStored(t.now())
	return total, nil
}

func (t *Tracker) dayLock(key string) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()
	lock, ok := t.dayLocks[key]
	if !ok {
		lock = &sync.Mutex{}
		t.dayLocks[key] = lock
	}
	return lock
}

func waterKey(uid, date string) string {
	return uid + "_" + date
}
