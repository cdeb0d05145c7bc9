// Package api exposes the HTTP surface consumed by the presentation layer.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/z3ro647/HealthAndFitnessTrackerApp/internal/auth"
	"github.com/z3ro647/HealthAndFitnessTrackerApp/internal/bmi"
	"github.com/z3ro647/HealthAndFitnessTrackerApp/internal/domain"
	"github.com/z3ro647/HealthAndFitnessTrackerApp/internal/history"
	"github.com/z3ro647/HealthAndFitnessTrackerApp/internal/session"
	"github.com/z3ro647/HealthAndFitnessTrackerApp/internal/tracker"
)

// Handler coordinates HTTP requests with the aggregation and tracking
// components. The subject uid always comes from verified token claims, never
// from the request body.
type Handler struct {
	sessions *session.Manager
	tracker  *tracker.Tracker
	history  *history.Recorder
	now      func() time.Time
}

// Option configures optional behaviour for the Handler.
type Option func(*Handler)

// WithClock overrides the time source used for "today".
func WithClock(now func() time.Time) Option {
	return func(h *Handler) {
		h.now = now
	}
}

// NewHandler builds a Handler.
func NewHandler(sessions *session.Manager, trk *tracker.Tracker, hist *history.Recorder, opts ...Option) *Handler {
	h := &Handler{
		sessions: sessions,
		tracker:  trk,
		history:  hist,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/workouts", h.workouts)
	mux.HandleFunc("/v1/water", h.water)
	mux.HandleFunc("/v1/dashboard", h.dashboard)
	mux.HandleFunc("/v1/summary/weekly", h.weeklySummary)
	mux.HandleFunc("/v1/bmi", h.computeBMI)
	mux.HandleFunc("/v1/bmi/history", h.bmiHistory)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) workouts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	var req RecordWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	event, err := h.tracker.RecordWorkout(r.Context(), claims.UserID, req.WorkoutType, req.DurationMin, req.Calories)
	if err != nil {
		if errors.Is(err, tracker.ErrInvalidWorkout) {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, toWorkoutView(event))
}

func (h *Handler) water(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	today := domain.LocalDate(h.now())
	total, err := h.tracker.AddWater(r.Context(), claims.UserID, today)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, WaterTotalResponse{Date: today, TotalMl: total})
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	store, err := h.sessions.For(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	now := h.now()
	today := domain.LocalDate(now)

	resp := DashboardResponse{
		Date:     today,
		Workouts: []WorkoutView{},
	}
	for _, event := range store.TodaysWorkouts(now) {
		resp.Workouts = append(resp.Workouts, toWorkoutView(event))
	}

	// A water read failure must not hide today's workouts; report what we
	// have alongside the failed category.
	total, waterErr := h.tracker.WaterTotal(r.Context(), claims.UserID, today)
	if waterErr != nil {
		resp.WaterUnavailable = true
	}
	resp.WaterMl = total

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) weeklySummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	store, err := h.sessions.For(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, WeeklySummaryResponse{
		Labels:         weekdayLabels,
		WorkoutMinutes: store.WeeklyWorkoutMinutes(),
		WaterMl:        store.WeeklyWaterMl(),
	})
}

func (h *Handler) computeBMI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	var req ComputeBMIRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	result, err := bmi.Compute(req.WeightKg, req.HeightM)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	if err := h.history.Record(r.Context(), claims.UserID, domain.LocalDate(h.now()), result); err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, BMIResponse{
		BMI:            result.Value,
		Category:       string(result.Category),
		Recommendation: result.Category.Recommendation(),
	})
}

func (h *Handler) bmiHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	entries, err := h.history.List(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	if entries == nil {
		entries = []history.Entry{}
	}

	writeJSON(w, http.StatusOK, BMIHistoryResponse{Items: entries})
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
