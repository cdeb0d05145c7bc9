// Package history records and lists computed BMI results per subject.
package history

import (
	"context"
	"sort"

	"github.com/z3ro647/HealthAndFitnessTrackerApp/internal/bmi"
	"github.com/z3ro647/HealthAndFitnessTrackerApp/internal/docstore"
)

// Entry is one stored BMI computation.
type Entry struct {
	ID       string  `json:"id"`
	UID      string  `json:"uid"`
	Date     string  `json:"date"`
	BMI      float64 `json:"bmi"`
	Category string  `json:"category"`
}

// Recorder persists and reads BMI history documents.
type Recorder struct {
	store docstore.Store
}

// NewRecorder constructs a Recorder over store.
func NewRecorder(store docstore.Store) *Recorder {
	return &Recorder{store: store}
}

// Record stores one computed result for the subject on the given date.
func (r *Recorder) Record(ctx context.Context, uid, date string, res bmi.Result) error {
	_, err := r.store.Insert(ctx, docstore.CollectionBMIHistory, map[string]any{
		"uid":      uid,
		"date":     date,
		"bmi":      res.Value,
		"category": string(res.Category),
	})
	return err
}

// List returns the subject's history ordered by date ascending.
func (r *Recorder) List(ctx context.Context, uid string) ([]Entry, error) {
	docs, err := r.store.List(ctx, docstore.Query{
		Collection: docstore.CollectionBMIHistory,
		Filter:     docstore.Filter{Field: "uid", Value: uid},
	})
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(docs))
	for _, doc := range docs {
		value, _ := docstore.NumberField(doc, "bmi")
		entries = append(entries, Entry{
			ID:       doc.ID,
			UID:      docstore.StringField(doc, "uid"),
			Date:     docstore.StringField(doc, "date"),
			BMI:      value,
			Category: docstore.StringField(doc, "category"),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date < entries[j].Date })
	return entries, nil
}
