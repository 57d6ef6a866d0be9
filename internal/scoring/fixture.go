package scoring

import (
	"time"

	"github.com/sells-group/adtarget-cli/internal/model"
)

// FixtureResult returns the canned three-category prediction. It is pure:
// the same inputs always yield an equal value, and each call returns a fresh
// copy the caller may keep.
func FixtureResult(subjectID string, at time.Time) *model.PredictionResult {
	return &model.PredictionResult{
		Meta: model.PredictionMeta{
			SubjectID:    subjectID,
			GeneratedAt:  at.UTC().Round(0),
			ModelVersion: DefaultModelVersion,
		},
		Categories: []model.CategoryScore{
			{
				Name:       "Electronics",
				Likelihood: 0.68,
				Products: []model.ProductScore{
					{Name: "Laptop", Likelihood: 0.45},
					{Name: "Wireless Earbuds", Likelihood: 0.3},
					{Name: "Gaming Monitor", Likelihood: 0.23},
				},
				Explanation: []string{
					"recent visits to laptop comparison pages",
					"searches: best gaming monitor",
				},
			},
			{
				Name:       "Travel",
				Likelihood: 0.42,
				Products: []model.ProductScore{
					{Name: "Flights", Likelihood: 0.28},
					{Name: "Hotels", Likelihood: 0.25},
					{Name: "Rental Cars", Likelihood: 0.19},
				},
				Explanation: []string{
					"multiple hotel price lookups",
					"visited airline sites",
				},
			},
			{
				Name:       "Fitness",
				Likelihood: 0.35,
				Products: []model.ProductScore{
					{Name: "Running Shoes", Likelihood: 0.2},
					{Name: "Smartwatch", Likelihood: 0.1},
					{Name: "Yoga Mat", Likelihood: 0.05},
				},
				Explanation: []string{
					"viewed running shoe reviews",
					"searched: smartwatch features",
				},
			},
		},
	}
}
