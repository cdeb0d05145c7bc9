package domain

import (
	"strings"
	"time"
)

// DateLayout is the calendar-date form used for water records, BMI history
// entries, and the today filter.
const DateLayout = "2006-01-02"

// LocalDate formats t as a calendar date in local time. All "today" decisions
// derive from this one primitive so the dashboard and the weekday buckets
// agree on where a day boundary falls.
func LocalDate(t time.Time) string {
	return t.Local().Format(DateLayout)
}

// TodaysWorkouts returns the events whose occurrence date equals today,
// preserving input order. Comparison is on the ISO date prefix of the stored
// timestamp, the same convention the recording side uses.
func TodaysWorkouts(events []WorkoutEvent, today string) []WorkoutEvent {
	var out []WorkoutEvent
	for _, e := range events {
		date, _, _ := strings.Cut(e.OccurredAt, "T")
		if date == today {
			out = append(out, e)
		}
	}
	return out
}
