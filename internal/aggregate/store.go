package aggregate

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/z3ro647/HealthAndFitnessTrackerApp/internal/docstore"
	"github.com/z3ro647/HealthAndFitnessTrackerApp/internal/domain"
)

// State is the lifecycle phase of a Store.
type State int

const (
	StateUninitialized State = iota
	StateSubscribed
	StateDisposed
)

// ErrStoreDisposed is returned when binding a subject on a disposed store.
var ErrStoreDisposed = errors.New("aggregation store is disposed")

// ErrBindSuperseded is returned when a concurrent BindSubject or Dispose took
// ownership of the store while a bind was still establishing subscriptions.
// The losing bind had no effect.
var ErrBindSuperseded = errors.New("subject bind superseded")

// Store holds the full event set per category for at most one bound subject
// and the weekly summaries materialized from it.
//
// Each snapshot replaces the whole per-category set and recomputes the
// summary synchronously under one lock, so readers observe either the
// pre-update or the fully post-update aggregate for a category, never a mix.
// Every bind or dispose bumps a generation counter; snapshot callbacks tagged
// with a superseded generation are discarded without touching state, which
// keeps stale in-flight deliveries from leaking across subjects.
type Store struct {
	subscriber *LiveSubscriber

	mu               sync.RWMutex
	state            State
	uid              string
	generation       uint64
	workouts         []domain.WorkoutEvent
	water            []domain.WaterRecord
	weeklyWorkoutMin domain.WeeklySummary
	weeklyWaterMl    domain.WeeklySummary
	subs             []docstore.Subscription
}

// NewStore constructs an unbound Store over the subscriber.
func NewStore(subscriber *LiveSubscriber) *Store {
	return &Store{subscriber: subscriber}
}

// BindSubject switches the store to uid. Any prior subject's subscriptions
// and events are fully discarded before the new subscriptions are
// established. If one category fails to subscribe the other still delivers;
// the joined error reports what failed.
func (s *Store) BindSubject(ctx context.Context, uid string) error {
	s.mu.Lock()
	if s.state == StateDisposed {
		s.mu.Unlock()
		return ErrStoreDisposed
	}
	old := s.detachLocked()
	s.uid = uid
	s.state = StateSubscribed
	gen := s.generation
	s.mu.Unlock()

	cancelAll(old)

	workoutSub, workoutErr := s.subscriber.Subscribe(ctx, CategoryWorkouts, uid, func(docs []docstore.Document) {
		s.apply(gen, CategoryWorkouts, docs)
	})
	waterSub, waterErr := s.subscriber.Subscribe(ctx, CategoryWater, uid, func(docs []docstore.Document) {
		s.apply(gen, CategoryWater, docs)
	})

	s.mu.Lock()
	if s.generation != gen {
		// Superseded while subscribing; the newer bind owns the store now.
		s.mu.Unlock()
		cancelAll([]docstore.Subscription{workoutSub, waterSub})
		return errors.Join(ErrBindSuperseded, workoutErr, waterErr)
	}
	if workoutSub != nil {
		s.subs = append(s.subs, workoutSub)
	}
	if waterSub != nil {
		s.subs = append(s.subs, waterSub)
	}
	s.mu.Unlock()

	return errors.Join(workoutErr, waterErr)
}

// Unbind discards the current subject's subscriptions and events, returning
// the store to the uninitialized state.
func (s *Store) Unbind() {
	s.mu.Lock()
	if s.state != StateSubscribed {
		s.mu.Unlock()
		return
	}
	old := s.detachLocked()
	s.state = StateUninitialized
	s.mu.Unlock()

	cancelAll(old)
}

// Dispose cancels all subscriptions and clears state. It is terminal and
// idempotent.
func (s *Store) Dispose() {
	s.mu.Lock()
	old := s.detachLocked()
	s.state = StateDisposed
	s.mu.Unlock()

	cancelAll(old)
}

// detachLocked bumps the generation, clears subject state, and hands back the
// subscriptions to cancel once the lock is released. Cancelling under the
// lock would deadlock against an in-flight apply.
func (s *Store) detachLocked() []docstore.Subscription {
	s.generation++
	old := s.subs
	s.subs = nil
	s.uid = ""
	s.workouts = nil
	s.water = nil
	s.weeklyWorkoutMin = domain.WeeklySummary{}
	s.weeklyWaterMl = domain.WeeklySummary{}
	return old
}

func cancelAll(subs []docstore.Subscription) {
	for _, sub := range subs {
		if sub != nil {
			sub.Cancel()
		}
	}
}

func (s *Store) apply(gen uint64, category Category, docs []docstore.Document) {
	s.mu.Lock()
	if s.state != StateSubscribed || gen != s.generation {
		s.mu.Unlock()
		recordSnapshotDiscarded(category)
		return
	}

	switch category {
	case CategoryWorkouts:
		s.workouts = decodeWorkouts(docs)
		s.weeklyWorkoutMin = domain.WeeklyWorkoutMinutes(s.workouts)
	case CategoryWater:
		s.water = decodeWater(docs)
		s.weeklyWaterMl = domain.WeeklyWaterMl(s.water)
	}
	s.mu.Unlock()

	recordSnapshotApplied(category, len(docs))
}

// ActiveSubscriptions reports how many category subscriptions are currently
// established. After a partial bind failure it is the healthy category count.
func (s *Store) ActiveSubscriptions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

// Subject returns the currently bound uid, if any.
func (s *Store) Subject() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.uid
}

// State returns the lifecycle phase.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// WeeklyWorkoutMinutes returns the Sunday-first workout duration buckets.
func (s *Store) WeeklyWorkoutMinutes() domain.WeeklySummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.weeklyWorkoutMin
}

// WeeklyWaterMl returns the Sunday-first water intake buckets.
func (s *Store) WeeklyWaterMl() domain.WeeklySummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.weeklyWaterMl
}

// Workouts returns a copy of the retained workout set in delivery order.
func (s *Store) Workouts() []domain.WorkoutEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.WorkoutEvent, len(s.workouts))
	copy(out, s.workouts)
	return out
}

// TodaysWorkouts filters the retained set to events dated on now's local
// calendar day, preserving delivery order.
func (s *Store) TodaysWorkouts(now time.Time) []domain.WorkoutEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.TodaysWorkouts(s.workouts, domain.LocalDate(now))
}

func decodeWorkouts(docs []docstore.Document) []domain.WorkoutEvent {
	events := make([]domain.WorkoutEvent, 0, len(docs))
	for _, doc := range docs {
		date := docstore.StringField(doc, "date")
		if date == "" {
			recordDecodeSkip(CategoryWorkouts)
			continue
		}
		duration, _ := docstore.NumberField(doc, "duration")
		calories, _ := docstore.NumberField(doc, "calories")
		events = append(events, domain.WorkoutEvent{
			ID:          doc.ID,
			UID:         docstore.StringField(doc, "uid"),
			WorkoutType: docstore.StringField(doc, "workoutType"),
			DurationMin: duration,
			Calories:    calories,
			OccurredAt:  date,
		})
	}
	return events
}

func decodeWater(docs []docstore.Document) []domain.WaterRecord {
	records := make([]domain.WaterRecord, 0, len(docs))
	for _, doc := range docs {
		date := docstore.StringField(doc, "date")
		if date == "" {
			recordDecodeSkip(CategoryWater)
			continue
		}
		amount, _ := docstore.NumberField(doc, "amount")
		records = append(records, domain.WaterRecord{
			UID:      docstore.StringField(doc, "uid"),
			Date:     date,
			AmountMl: int(amount),
		})
	}
	return records
}
