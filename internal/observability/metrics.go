package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	workoutStoredGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fitness_tracker",
		Subsystem: "tracker",
		Name:      "last_workout_stored_timestamp_seconds",
		Help:      "Unix timestamp of the most recent workout written to the document store.",
	})
	waterStoredGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fitness_tracker",
		Subsystem: "tracker",
		Name:      "last_water_increment_timestamp_seconds",
		Help:      "Unix timestamp of the most recent water increment written to the document store.",
	})
)

func init() {
	prometheus.MustRegister(workoutStoredGauge, waterStoredGauge)
}

// RecordWorkoutStored updates the workout write watermark gauge.
func RecordWorkoutStored(ts time.Time) {
	if ts.IsZero() {
		return
	}
	workoutStoredGauge.Set(float64(ts.Unix()))
}

// RecordWaterStored updates the water write watermark gauge.
func RecordWaterStored(ts time.Time) {
	if ts.IsZero() {
		return
	}
	waterStoredGauge.Set(float64(ts.Unix()))
}
