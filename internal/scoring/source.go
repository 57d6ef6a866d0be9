// Package scoring produces raw prediction records. The only implementation
// is a fixture; a real inference client would satisfy the same Source
// interface.
package scoring

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/adtarget-cli/internal/apperr"
	"github.com/sells-group/adtarget-cli/internal/model"
)

const (
	// DefaultModelVersion is reported in the meta of fixture predictions.
	DefaultModelVersion = "v0.9.1-demo"

	// DefaultDelay is the simulated inference latency.
	DefaultDelay = 600 * time.Millisecond
)

// Request carries the per-invocation inputs to a score source.
type Request struct {
	SubjectID string
}

// Source produces a fresh PredictionResult for each call.
type Source interface {
	Produce(ctx context.Context, req Request) (*model.PredictionResult, error)
}

// Fixture is a deterministic Source returning FixtureResult.
type Fixture struct {
	ModelVersion string
	Now          func() time.Time
}

// NewFixture returns a Fixture stamped with the wall clock.
func NewFixture(modelVersion string) *Fixture {
	if modelVersion == "" {
		modelVersion = DefaultModelVersion
	}
	return &Fixture{ModelVersion: modelVersion, Now: time.Now}
}

// Produce implements Source. It never fails.
func (f *Fixture) Produce(_ context.Context, req Request) (*model.PredictionResult, error) {
	now := time.Now
	if f.Now != nil {
		now = f.Now
	}
	res := FixtureResult(req.SubjectID, now())
	if f.ModelVersion != "" {
		res.Meta.ModelVersion = f.ModelVersion
	}
	return res, nil
}

// Delayed holds every call to Source for Delay before delegating, standing in
// for the latency of a real inference backend.
type Delayed struct {
	Source Source
	Delay  time.Duration
}

// NewDelayed wraps src with a fixed delay.
func NewDelayed(src Source, delay time.Duration) *Delayed {
	return &Delayed{Source: src, Delay: delay}
}

// Produce implements Source. If ctx ends before the delay elapses the call
// fails with an InferenceUnavailableError.
func (d *Delayed) Produce(ctx context.Context, req Request) (*model.PredictionResult, error) {
	if d.Delay > 0 {
		timer := time.NewTimer(d.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			zap.L().Debug("scoring: delayed call abandoned",
				zap.String("subject", req.SubjectID),
				zap.Error(ctx.Err()),
			)
			return nil, apperr.NewInferenceUnavailable(eris.Wrap(ctx.Err(), "scoring: wait"))
		case <-timer.C:
		}
	}
	res, err := d.Source.Produce(ctx, req)
	if err != nil {
		return nil, apperr.NewInferenceUnavailable(eris.Wrap(err, "scoring: produce"))
	}
	return res, nil
}
