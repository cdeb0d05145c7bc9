package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// localStamp formats a local-time instant the way the tracker stores it, so
// weekday derivation is timezone-stable in tests.
func localStamp(year int, month time.Month, day int) string {
	return time.Date(year, month, day, 12, 0, 0, 0, time.Local).Format(time.RFC3339)
}

func TestWeeklyWorkoutMinutesBucketsByWeekday(t *testing.T) {
	events := []WorkoutEvent{
		{WorkoutType: "Running", DurationMin: 30, OccurredAt: localStamp(2024, time.January, 7)},  // Sunday
		{WorkoutType: "Cycling", DurationMin: 45, OccurredAt: localStamp(2024, time.January, 8)},  // Monday
		{WorkoutType: "Running", DurationMin: 20, OccurredAt: localStamp(2024, time.January, 15)}, // Monday, next week
		{WorkoutType: "Yoga", DurationMin: 60, OccurredAt: localStamp(2024, time.January, 13)},    // Saturday
	}

	summary := WeeklyWorkoutMinutes(events)

	require.Equal(t, 30.0, summary[time.Sunday])
	require.Equal(t, 65.0, summary[time.Monday], "events from different calendar weeks share the weekday bucket")
	require.Equal(t, 60.0, summary[time.Saturday])
	require.Equal(t, 0.0, summary[time.Wednesday])
}

func TestBucketTotalMatchesEventTotal(t *testing.T) {
	events := []WorkoutEvent{
		{DurationMin: 12.5, OccurredAt: localStamp(2023, time.June, 5)},
		{DurationMin: 47.5, OccurredAt: localStamp(2023, time.July, 19)},
		{DurationMin: 90, OccurredAt: localStamp(2024, time.February, 29)},
		{DurationMin: 3, OccurredAt: localStamp(2024, time.March, 1)},
	}

	summary := WeeklyWorkoutMinutes(events)
	require.Equal(t, 153.0, summary.Total())
}

func TestBucketSkipsUnparseableTimestamps(t *testing.T) {
	events := []WorkoutEvent{
		{DurationMin: 30, OccurredAt: "not-a-timestamp"},
		{DurationMin: 45, OccurredAt: localStamp(2024, time.January, 9)}, // Tuesday
	}

	summary := WeeklyWorkoutMinutes(events)
	require.Equal(t, 45.0, summary.Total())
	require.Equal(t, 45.0, summary[time.Tuesday])
}

func TestWeeklyWaterMlBucketsByDate(t *testing.T) {
	records := []WaterRecord{
		{Date: "2024-01-07", AmountMl: 500},  // Sunday
		{Date: "2024-01-14", AmountMl: 750},  // Sunday, next week
		{Date: "2024-01-10", AmountMl: 1000}, // Wednesday
	}

	summary := WeeklyWaterMl(records)
	require.Equal(t, 1250.0, summary[time.Sunday])
	require.Equal(t, 1000.0, summary[time.Wednesday])
	require.Equal(t, 2250.0, summary.Total())
}

func TestEmptyEventSetYieldsZeroSummary(t *testing.T) {
	require.Equal(t, WeeklySummary{}, WeeklyWorkoutMinutes(nil))
	require.Equal(t, 0.0, WeeklyWorkoutMinutes(nil).Total())
}
