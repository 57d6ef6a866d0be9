package scoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/sells-group/adtarget-cli/internal/apperr"
	"github.com/sells-group/adtarget-cli/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type mockSource struct {
	mock.Mock
}

func (m *mockSource) Produce(ctx context.Context, req Request) (*model.PredictionResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PredictionResult), args.Error(1)
}

var fixedNow = time.Date(2025, 9, 28, 10, 0, 0, 0, time.UTC)

func TestFixtureResult_Deterministic(t *testing.T) {
	a := FixtureResult("user_12345", fixedNow)
	b := FixtureResult("user_12345", fixedNow)
	assert.Equal(t, a, b)
	assert.NotSame(t, a, b)

	// Mutating one copy must not leak into the next call.
	a.Categories[0].Products[0].Name = "changed"
	assert.Equal(t, "Laptop", FixtureResult("user_12345", fixedNow).Categories[0].Products[0].Name)
}

func TestFixtureResult_Shape(t *testing.T) {
	res := FixtureResult("user_12345", fixedNow)

	assert.Equal(t, "user_12345", res.Meta.SubjectID)
	assert.Equal(t, DefaultModelVersion, res.Meta.ModelVersion)
	assert.Equal(t, fixedNow, res.Meta.GeneratedAt)

	require.Len(t, res.Categories, 3)
	names := []string{}
	for _, c := range res.Categories {
		names = append(names, c.Name)
		assert.Len(t, c.Products, 3)
		assert.Len(t, c.Explanation, 2)
		assert.GreaterOrEqual(t, c.Likelihood, 0.0)
		assert.LessOrEqual(t, c.Likelihood, 1.0)
	}
	assert.Equal(t, []string{"Electronics", "Travel", "Fitness"}, names)
	assert.InDelta(t, 0.68, res.Categories[0].Likelihood, 1e-9)
	assert.InDelta(t, 0.42, res.Categories[1].Likelihood, 1e-9)
	assert.InDelta(t, 0.35, res.Categories[2].Likelihood, 1e-9)
}

func TestFixture_Produce(t *testing.T) {
	f := &Fixture{ModelVersion: "v-test", Now: func() time.Time { return fixedNow }}
	res, err := f.Produce(context.Background(), Request{SubjectID: "alice"})
	require.NoError(t, err)
	assert.Equal(t, "alice", res.Meta.SubjectID)
	assert.Equal(t, "v-test", res.Meta.ModelVersion)
	assert.Equal(t, fixedNow, res.Meta.GeneratedAt)
}

func TestNewFixture_DefaultVersion(t *testing.T) {
	f := NewFixture("")
	assert.Equal(t, DefaultModelVersion, f.ModelVersion)
	assert.NotNil(t, f.Now)
}

func TestDelayed_WaitsThenDelegates(t *testing.T) {
	src := &mockSource{}
	want := FixtureResult("bob", fixedNow)
	src.On("Produce", mock.Anything, Request{SubjectID: "bob"}).Return(want, nil)

	d := NewDelayed(src, 20*time.Millisecond)
	start := time.Now()
	got, err := d.Produce(context.Background(), Request{SubjectID: "bob"})
	require.NoError(t, err)
	assert.Same(t, want, got)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	src.AssertExpectations(t)
}

func TestDelayed_ContextCancelled(t *testing.T) {
	src := &mockSource{}
	d := NewDelayed(src, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Produce(ctx, Request{SubjectID: "bob"})
	require.Error(t, err)
	assert.True(t, apperr.IsInferenceUnavailable(err))
	assert.ErrorIs(t, err, context.Canceled)
	src.AssertNotCalled(t, "Produce", mock.Anything, mock.Anything)
}

func TestDelayed_SourceError(t *testing.T) {
	src := &mockSource{}
	src.On("Produce", mock.Anything, mock.Anything).Return(nil, errors.New("model offline"))

	_, err := NewDelayed(src, 0).Produce(context.Background(), Request{})
	require.Error(t, err)
	assert.True(t, apperr.IsInferenceUnavailable(err))
	assert.Contains(t, err.Error(), "model offline")
}

func TestTask_SingleCompletion(t *testing.T) {
	f := &Fixture{Now: func() time.Time { return fixedNow }}
	task := Start(context.Background(), f, Request{SubjectID: "carol"})

	c, ok := <-task.Done()
	require.True(t, ok)
	require.NoError(t, c.Err)
	assert.Equal(t, "carol", c.Result.Meta.SubjectID)

	_, ok = <-task.Done()
	assert.False(t, ok, "done channel should close after the single completion")
}

func TestTask_Wait(t *testing.T) {
	src := &mockSource{}
	src.On("Produce", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	_, err := Start(context.Background(), src, Request{}).Wait(context.Background())
	assert.EqualError(t, err, "boom")
}

func TestTask_WaitContextEnds(t *testing.T) {
	task := Start(context.Background(), NewDelayed(NewFixture(""), 50*time.Millisecond), Request{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := task.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	// The task still completes on its own.
	res, err := task.Wait(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, res)
}
