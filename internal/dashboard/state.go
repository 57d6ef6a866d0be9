// Package dashboard holds the dashboard's state as an immutable value and
// the pure reducer that advances it. Surfaces (CLI, HTTP, terminal UI)
// dispatch actions instead of mutating fields.
package dashboard

import (
	"math"
	"time"

	"github.com/sells-group/adtarget-cli/internal/model"
)

const (
	// MinTopK and MaxTopK bound the category count a caller may request.
	MinTopK = 1
	MaxTopK = 20

	// ThresholdStep is the granularity of threshold adjustments.
	ThresholdStep = 0.01

	// DefaultSubjectID labels predictions when no subject is given.
	DefaultSubjectID = "user_12345"
	DefaultThreshold = 0.05
	DefaultTopK      = 5
)

// Params are the user-controlled pipeline inputs.
type Params struct {
	SubjectID string  `json:"subject_id"`
	Threshold float64 `json:"threshold"`
	TopK      int     `json:"top_k"`
	Explain   bool    `json:"explain"` // rendering only
}

// DefaultParams returns the dashboard's initial parameters.
func DefaultParams() Params {
	return Params{
		SubjectID: DefaultSubjectID,
		Threshold: DefaultThreshold,
		TopK:      DefaultTopK,
		Explain:   true,
	}
}

// Clamped returns p with threshold and topK forced into range.
func (p Params) Clamped() Params {
	p.Threshold = ClampThreshold(p.Threshold)
	p.TopK = ClampTopK(p.TopK)
	return p
}

// ClampThreshold forces v into [0,1]. NaN becomes 0.
func ClampThreshold(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(math.Max(v, 0), 1)
}

// ClampTopK forces k into [MinTopK, MaxTopK].
func ClampTopK(k int) int {
	return min(max(k, MinTopK), MaxTopK)
}

// InFlight describes the single running prediction.
type InFlight struct {
	RunID     string    `json:"run_id"`
	Params    Params    `json:"params"`
	StartedAt time.Time `json:"started_at"`
}

// State is a snapshot of the dashboard. Treat it as a value: Reduce returns
// a new State and never modifies the one passed in. Result and Upload are
// shared read-only between snapshots.
type State struct {
	Params    Params
	Upload    *model.Upload
	Busy      bool
	InFlight  *InFlight
	Result    *model.FilteredResult
	LastError error
	Runs      int
}

// NewState returns an idle state with clamped params.
func NewState(p Params) State {
	return State{Params: p.Clamped()}
}

// HasResult reports whether a filtered result is retained.
func (s State) HasResult() bool {
	return s.Result != nil
}
