package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTodaysWorkoutsFiltersByDatePrefix(t *testing.T) {
	now := time.Date(2024, time.January, 10, 9, 30, 0, 0, time.Local)
	today := LocalDate(now)

	events := []WorkoutEvent{
		{ID: "w1", OccurredAt: localStamp(2024, time.January, 9)},
		{ID: "w2", OccurredAt: now.Format(time.RFC3339)},
		{ID: "w3", OccurredAt: localStamp(2024, time.January, 11)},
		{ID: "w4", OccurredAt: now.Add(4 * time.Hour).Format(time.RFC3339)},
	}

	got := TodaysWorkouts(events, today)

	require.Len(t, got, 2)
	require.Equal(t, "w2", got[0].ID, "delivery order is preserved")
	require.Equal(t, "w4", got[1].ID)
}

func TestTodaysWorkoutsEmptyWhenNoMatch(t *testing.T) {
	events := []WorkoutEvent{
		{ID: "w1", OccurredAt: localStamp(2024, time.January, 9)},
	}
	require.Empty(t, TodaysWorkouts(events, "2024-01-10"))
	require.Empty(t, TodaysWorkouts(nil, "2024-01-10"))
}

func TestLocalDateFormatsCalendarDate(t *testing.T) {
	now := time.Date(2024, time.May, 3, 23, 59, 0, 0, time.Local)
	require.Equal(t, "2024-05-03", LocalDate(now))
}
