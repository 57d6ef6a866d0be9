package dashboard

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/adtarget-cli/internal/model"
	"github.com/sells-group/adtarget-cli/internal/scoring"
)

var fixedNow = time.Date(2025, 9, 28, 10, 0, 0, 0, time.UTC)

func TestNewState_Defaults(t *testing.T) {
	s := NewState(DefaultParams())
	assert.Equal(t, "user_12345", s.Params.SubjectID)
	assert.Equal(t, 0.05, s.Params.Threshold)
	assert.Equal(t, 5, s.Params.TopK)
	assert.True(t, s.Params.Explain)
	assert.False(t, s.Busy)
	assert.False(t, s.HasResult())
}

func TestNewState_ClampsParams(t *testing.T) {
	s := NewState(Params{Threshold: 3, TopK: 99})
	assert.Equal(t, 1.0, s.Params.Threshold)
	assert.Equal(t, MaxTopK, s.Params.TopK)
}

func TestReduce_ParamActions(t *testing.T) {
	s := NewState(DefaultParams())

	s = Reduce(s, SetSubject{SubjectID: "pseudo-7"})
	assert.Equal(t, "pseudo-7", s.Params.SubjectID)

	s = Reduce(s, SetThreshold{Value: 0.3})
	assert.Equal(t, 0.3, s.Params.Threshold)
	s = Reduce(s, SetThreshold{Value: -1})
	assert.Equal(t, 0.0, s.Params.Threshold)
	s = Reduce(s, SetThreshold{Value: 1.7})
	assert.Equal(t, 1.0, s.Params.Threshold)
	s = Reduce(s, SetThreshold{Value: math.NaN()})
	assert.Equal(t, 0.0, s.Params.Threshold)

	s = Reduce(s, SetTopK{Value: 0})
	assert.Equal(t, 1, s.Params.TopK)
	s = Reduce(s, SetTopK{Value: 21})
	assert.Equal(t, 20, s.Params.TopK)
	s = Reduce(s, SetTopK{Value: 7})
	assert.Equal(t, 7, s.Params.TopK)

	s = Reduce(s, ToggleExplain{})
	assert.False(t, s.Params.Explain)
	s = Reduce(s, SetExplain{On: true})
	assert.True(t, s.Params.Explain)
}

func TestReduce_DoesNotModifyInput(t *testing.T) {
	before := NewState(DefaultParams())
	after := Reduce(before, SetTopK{Value: 2})
	assert.Equal(t, 5, before.Params.TopK)
	assert.Equal(t, 2, after.Params.TopK)
}

func TestReduce_RunLifecycle(t *testing.T) {
	s := NewState(DefaultParams())
	s = Reduce(s, RunStarted{RunID: "r1", At: fixedNow})
	require.True(t, s.Busy)
	require.NotNil(t, s.InFlight)
	assert.Equal(t, "r1", s.InFlight.RunID)
	assert.Equal(t, fixedNow, s.InFlight.StartedAt)

	s = Reduce(s, RunCompleted{RunID: "r1", Result: scoring.FixtureResult("user_12345", fixedNow)})
	assert.False(t, s.Busy)
	assert.Nil(t, s.InFlight)
	require.True(t, s.HasResult())
	assert.Len(t, s.Result.Categories, 3)
	assert.Equal(t, 1, s.Runs)
}

func TestReduce_UsesParamsCapturedAtStart(t *testing.T) {
	s := NewState(DefaultParams())
	s = Reduce(s, SetThreshold{Value: 0.5})
	s = Reduce(s, RunStarted{RunID: "r1"})
	s = Reduce(s, SetThreshold{Value: 0.05}) // changed mid-flight
	s = Reduce(s, RunCompleted{RunID: "r1", Result: scoring.FixtureResult("u", fixedNow)})

	require.True(t, s.HasResult())
	assert.Len(t, s.Result.Categories, 1)
	assert.Equal(t, 0.05, s.Params.Threshold)
}

func TestReduce_SecondStartIgnoredWhileBusy(t *testing.T) {
	s := NewState(DefaultParams())
	s = Reduce(s, RunStarted{RunID: "r1"})
	s = Reduce(s, RunStarted{RunID: "r2"})
	assert.Equal(t, "r1", s.InFlight.RunID)
}

func TestReduce_EmptyRunIDIgnored(t *testing.T) {
	s := Reduce(NewState(DefaultParams()), RunStarted{})
	assert.False(t, s.Busy)
}

func TestReduce_StaleCompletionDropped(t *testing.T) {
	s := NewState(DefaultParams())
	s = Reduce(s, RunStarted{RunID: "r1"})
	s = Reduce(s, RunCompleted{RunID: "other", Result: scoring.FixtureResult("u", fixedNow)})
	assert.True(t, s.Busy)
	assert.False(t, s.HasResult())

	s = Reduce(s, RunFailed{RunID: "other", Err: errors.New("x")})
	assert.True(t, s.Busy)
	assert.NoError(t, s.LastError)

	// Completion after the run already committed is also stale.
	s = Reduce(s, RunCompleted{RunID: "r1", Result: scoring.FixtureResult("u", fixedNow)})
	first := s.Result
	s = Reduce(s, RunCompleted{RunID: "r1", Result: &model.PredictionResult{}})
	assert.Same(t, first, s.Result)
}

func TestReduce_StartClearsPreviousResult(t *testing.T) {
	s := NewState(DefaultParams())
	s = Reduce(s, RunStarted{RunID: "r1"})
	s = Reduce(s, RunCompleted{RunID: "r1", Result: scoring.FixtureResult("u", fixedNow)})
	require.True(t, s.HasResult())

	s = Reduce(s, RunStarted{RunID: "r2"})
	assert.False(t, s.HasResult())
}

func TestReduce_RunFailed(t *testing.T) {
	boom := errors.New("backend down")
	s := NewState(DefaultParams())
	s = Reduce(s, RunStarted{RunID: "r1"})
	s = Reduce(s, RunFailed{RunID: "r1", Err: boom})
	assert.False(t, s.Busy)
	assert.False(t, s.HasResult())
	assert.ErrorIs(t, s.LastError, boom)
	assert.Equal(t, 0, s.Runs)
}

func TestReduce_ClearDoesNotCancelRun(t *testing.T) {
	up := &model.Upload{Name: "history.csv"}
	s := NewState(DefaultParams())
	s = Reduce(s, SelectUpload{Upload: up})
	s = Reduce(s, RunStarted{RunID: "r1"})
	s = Reduce(s, Clear{})

	assert.Nil(t, s.Upload)
	assert.True(t, s.Busy)

	s = Reduce(s, RunCompleted{RunID: "r1", Result: scoring.FixtureResult("u", fixedNow)})
	assert.True(t, s.HasResult())
}

func TestReduce_ClearDropsResult(t *testing.T) {
	s := NewState(DefaultParams())
	s = Reduce(s, RunStarted{RunID: "r1"})
	s = Reduce(s, RunCompleted{RunID: "r1", Result: scoring.FixtureResult("u", fixedNow)})
	s = Reduce(s, Clear{})
	assert.False(t, s.HasResult())
	assert.Equal(t, 1, s.Runs)
}
