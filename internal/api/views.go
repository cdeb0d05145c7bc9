package api

import (
	"github.com/z3ro647/HealthAndFitnessTrackerApp/internal/domain"
	"github.com/z3ro647/HealthAndFitnessTrackerApp/internal/history"
)

var weekdayLabels = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// RecordWorkoutRequest is the payload for POST /v1/workouts.
type RecordWorkoutRequest struct {
	WorkoutType string  `json:"workout_type"`
	DurationMin float64 `json:"duration_min"`
	Calories    float64 `json:"calories"`
}

// WorkoutView exposes one stored workout.
type WorkoutView struct {
	ID          string  `json:"id"`
	WorkoutType string  `json:"workout_type"`
	DurationMin float64 `json:"duration_min"`
	Calories    float64 `json:"calories"`
	OccurredAt  string  `json:"occurred_at"`
}

// WaterTotalResponse reports the day's running total after an increment.
type WaterTotalResponse struct {
	Date    string `json:"date"`
	TotalMl int    `json:"total_ml"`
}

// DashboardResponse packages today's view.
type DashboardResponse struct {
	Date             string        `json:"date"`
	Workouts         []WorkoutView `json:"workouts"`
	WaterMl          int           `json:"water_ml"`
	WaterUnavailable bool          `json:"water_unavailable,omitempty"`
}

// WeeklySummaryResponse carries the Sunday-first weekly buckets.
type WeeklySummaryResponse struct {
	Labels         []string             `json:"labels"`
	WorkoutMinutes domain.WeeklySummary `json:"workout_minutes"`
	WaterMl        domain.WeeklySummary `json:"water_ml"`
}

// ComputeBMIRequest is the payload for POST /v1/bmi.
type ComputeBMIRequest struct {
	WeightKg float64 `json:"weight_kg"`
	HeightM  float64 `json:"height_m"`
}

// BMIResponse reports a computed BMI.
type BMIResponse struct {
	BMI            float64 `json:"bmi"`
	Category       string  `json:"category"`
	Recommendation string  `json:"recommendation"`
}

// BMIHistoryResponse packages history entries.
type BMIHistoryResponse struct {
	Items []history.Entry `json:"items"`
}

func toWorkoutView(event domain.WorkoutEvent) WorkoutView {
	return WorkoutView{
		ID:          event.ID,
		WorkoutType: event.WorkoutType,
		DurationMin: event.DurationMin,
		Calories:    event.Calories,
		OccurredAt:  event.OccurredAt,
	}
}
