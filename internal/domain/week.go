package domain

import "time"

// WeeklySummary holds one accumulated total per weekday, Sunday-first
// (index 0 = Sunday .. 6 = Saturday).
type WeeklySummary [7]float64

// Total returns the sum over all seven buckets.
func (s WeeklySummary) Total() float64 {
	var sum float64
	for _, v := range s {
		sum += v
	}
	return sum
}

// Bucket distributes measureOf(event) into the weekday accumulator of each
// event's local calendar day. Every retained event participates regardless of
// which calendar week it falls in: there is no week-of-year window, so all
// historical Mondays sum into bucket 1. That matches the product's weekly
// chart semantics and is intended behavior, not a missing filter.
//
// Events whose day cannot be derived are skipped. The function is pure and
// safe to call on every snapshot update.
func Bucket[E any](events []E, dayOf func(E) (time.Weekday, bool), measureOf func(E) float64) WeeklySummary {
	var summary WeeklySummary
	for _, event := range events {
		day, ok := dayOf(event)
		if !ok {
			continue
		}
		summary[day] += measureOf(event)
	}
	return summary
}

// WeeklyWorkoutMinutes buckets workout durations by weekday.
func WeeklyWorkoutMinutes(events []WorkoutEvent) WeeklySummary {
	return Bucket(events, WorkoutEvent.Day, func(e WorkoutEvent) float64 { return e.DurationMin })
}

// WeeklyWaterMl buckets water intake totals by weekday.
func WeeklyWaterMl(records []WaterRecord) WeeklySummary {
	return Bucket(records, WaterRecord.Day, func(r WaterRecord) float64 { return float64(r.AmountMl) })
}
