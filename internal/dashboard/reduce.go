package dashboard

import (
	"time"

	"github.com/sells-group/adtarget-cli/internal/model"
	"github.com/sells-group/adtarget-cli/internal/predict"
)

// Action is an event applied to State by Reduce.
type Action interface {
	isAction()
}

type (
	// SetSubject changes the subject identifier. It is never validated.
	SetSubject struct{ SubjectID string }

	// SetThreshold sets the likelihood threshold, clamped to [0,1].
	SetThreshold struct{ Value float64 }

	// SetTopK sets the category count, clamped to [MinTopK, MaxTopK].
	SetTopK struct{ Value int }

	// SetExplain sets explanation visibility.
	SetExplain struct{ On bool }

	// ToggleExplain flips explanation visibility.
	ToggleExplain struct{}

	// SelectUpload records an ingested file. Its content is not scored.
	SelectUpload struct{ Upload *model.Upload }

	// RunStarted marks a prediction as in flight and clears the previous
	// result.
	RunStarted struct {
		RunID string
		At    time.Time
	}

	// RunCompleted delivers the raw result for the run with RunID.
	RunCompleted struct {
		RunID  string
		Result *model.PredictionResult
	}

	// RunFailed ends the run with RunID without a result.
	RunFailed struct {
		RunID string
		Err   error
	}

	// Clear drops the result and the selected upload.
	Clear struct{}
)

func (SetSubject) isAction()    {}
func (SetThreshold) isAction()  {}
func (SetTopK) isAction()       {}
func (SetExplain) isAction()    {}
func (ToggleExplain) isAction() {}
func (SelectUpload) isAction()  {}
func (RunStarted) isAction()    {}
func (RunCompleted) isAction()  {}
func (RunFailed) isAction()     {}
func (Clear) isAction()         {}

// Reduce returns the state that follows s after a.
//
// At most one run is in flight: RunStarted is ignored while busy. A
// completion or failure is committed only when its RunID matches the
// in-flight token; anything else is stale and dropped. Clear does not
// cancel an in-flight run, which still commits when it completes.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SetSubject:
		s.Params.SubjectID = a.SubjectID
	case SetThreshold:
		s.Params.Threshold = ClampThreshold(a.Value)
	case SetTopK:
		s.Params.TopK = ClampTopK(a.Value)
	case SetExplain:
		s.Params.Explain = a.On
	case ToggleExplain:
		s.Params.Explain = !s.Params.Explain
	case SelectUpload:
		s.Upload = a.Upload
	case RunStarted:
		if s.Busy || a.RunID == "" {
			return s
		}
		s.Busy = true
		s.InFlight = &InFlight{RunID: a.RunID, Params: s.Params, StartedAt: a.At}
		s.Result = nil
		s.LastError = nil
	case RunCompleted:
		if !s.owns(a.RunID) {
			return s
		}
		p := s.InFlight.Params
		s.Result = predict.Filter(a.Result, p.Threshold, p.TopK)
		s.Busy = false
		s.InFlight = nil
		s.Runs++
	case RunFailed:
		if !s.owns(a.RunID) {
			return s
		}
		s.LastError = a.Err
		s.Busy = false
		s.InFlight = nil
	case Clear:
		s.Result = nil
		s.Upload = nil
		s.LastError = nil
	}
	return s
}

func (s State) owns(runID string) bool {
	return s.Busy && s.InFlight != nil && s.InFlight.RunID == runID
}
