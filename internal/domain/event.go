// Package domain defines the event record model and the pure derivations
// (weekday bucketing, today filtering) shared by the aggregation core.
package domain

import "time"

// WorkoutEvent is one immutable workout record as delivered by the document
// store. OccurredAt carries the stored ISO-8601 timestamp verbatim; records
// are never mutated in place, only superseded by snapshot membership.
type WorkoutEvent struct {
	ID          string
	UID         string
	WorkoutType string
	DurationMin float64
	Calories    float64
	OccurredAt  string
}

// Day returns the local-calendar weekday of the event timestamp. The second
// return value is false when the timestamp cannot be parsed.
func (e WorkoutEvent) Day() (time.Weekday, bool) {
	t, err := time.Parse(time.RFC3339, e.OccurredAt)
	if err != nil {
		return 0, false
	}
	return t.Local().Weekday(), true
}

// WaterRecord is the cumulative intake for one subject on one calendar date.
// At most one record exists per (UID, Date) pair; increments overwrite the
// running total rather than appending rows.
type WaterRecord struct {
	UID      string
	Date     string
	AmountMl int
}

// Day returns the local-calendar weekday of the record's date.
func (r WaterRecord) Day() (time.Weekday, bool) {
	t, err := time.ParseInLocation(DateLayout, r.Date, time.Local)
	if err != nil {
		return 0, false
	}
	return t.Weekday(), true
}
