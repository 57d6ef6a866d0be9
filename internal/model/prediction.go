package model

import "time"

// PredictionMeta identifies who a prediction is for and what produced it.
type PredictionMeta struct {
	SubjectID    string    `json:"subject_id" yaml:"subject_id"`
	GeneratedAt  time.Time `json:"timestamp" yaml:"timestamp"`
	ModelVersion string    `json:"model_version" yaml:"model_version"`
}

// ProductScore is a product-level likelihood within a category.
type ProductScore struct {
	Name       string  `json:"name" yaml:"name"`
	Likelihood float64 `json:"likelihood" yaml:"likelihood"`
}

// CategoryScore is a scored ad category with its products and the signals
// that explain the score.
type CategoryScore struct {
	Name        string         `json:"name" yaml:"name"`
	Likelihood  float64        `json:"likelihood" yaml:"likelihood"`
	Products    []ProductScore `json:"products" yaml:"products"`
	Explanation []string       `json:"explanation" yaml:"explanation"`
}

// PredictionResult is the raw output of a score source. Categories are
// assumed to be ordered by significance already.
type PredictionResult struct {
	Meta       PredictionMeta  `json:"meta" yaml:"meta"`
	Categories []CategoryScore `json:"categories" yaml:"categories"`
}

// FilteredResult has the same shape as PredictionResult, but its categories
// are rounded, thresholded and truncated. It is never mutated once built.
type FilteredResult struct {
	Meta       PredictionMeta  `json:"meta" yaml:"meta"`
	Categories []CategoryScore `json:"categories" yaml:"categories"`
}

// Prediction returns the filtered view as a PredictionResult so it can be
// fed back through the filter.
func (f *FilteredResult) Prediction() *PredictionResult {
	if f == nil {
		return nil
	}
	cats := make([]CategoryScore, len(f.Categories))
	copy(cats, f.Categories)
	return &PredictionResult{Meta: f.Meta, Categories: cats}
}

// Empty reports whether no category survived filtering.
func (f *FilteredResult) Empty() bool {
	return f == nil || len(f.Categories) == 0
}
