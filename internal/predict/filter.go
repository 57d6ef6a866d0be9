// Package predict turns raw prediction records into bounded, thresholded
// views and serializes those views for export.
package predict

import (
	"math"

	"github.com/sells-group/adtarget-cli/internal/model"
)

// RoundLikelihood rounds v to two decimal places, halves away from zero,
// and clamps the result to [0,1]. Rounding is monotone and leaves values on
// the 0.01 grid unchanged.
func RoundLikelihood(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	r := math.Round(v*100) / 100
	return math.Min(math.Max(r, 0), 1)
}

// Filter rounds every category likelihood, keeps the categories whose
// original likelihood is at least threshold, and returns the first topK of
// them in input order. Inputs are not validated: a threshold above 1 or a
// topK below 1 yields no categories, a negative threshold keeps everything.
func Filter(result *model.PredictionResult, threshold float64, topK int) *model.FilteredResult {
	out := &model.FilteredResult{Categories: []model.CategoryScore{}}
	if result == nil {
		return out
	}
	out.Meta = result.Meta

	for _, c := range result.Categories {
		if len(out.Categories) >= topK {
			break
		}
		if !(c.Likelihood >= threshold) {
			continue
		}
		c.Likelihood = RoundLikelihood(c.Likelihood)
		c.Products = cloneSlice(c.Products)
		c.Explanation = cloneSlice(c.Explanation)
		out.Categories = append(out.Categories, c)
	}
	return out
}

// cloneSlice copies s, keeping nil and empty distinct so encodings match.
func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
