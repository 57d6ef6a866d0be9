package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/adtarget-cli/internal/apperr"
	"github.com/sells-group/adtarget-cli/internal/model"
	"github.com/sells-group/adtarget-cli/internal/scoring"
)

// Session owns one dashboard State and serializes every transition through
// Reduce. It is safe for concurrent use.
type Session struct {
	mu     sync.Mutex
	state  State
	source scoring.Source
	now    func() time.Time
}

// NewSession returns an idle session scoring with src.
func NewSession(src scoring.Source, p Params) *Session {
	return &Session{
		state:  NewState(p),
		source: src,
		now:    time.Now,
	}
}

// State returns the current snapshot.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies a and returns the resulting snapshot.
func (s *Session) Dispatch(a Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, a)
	return s.state
}

// Result returns the retained filtered result, or ErrNoResult.
func (s *Session) Result() (*model.FilteredResult, error) {
	st := s.State()
	if st.Result == nil {
		return nil, apperr.ErrNoResult
	}
	return st.Result, nil
}

// Run is a started prediction.
type Run struct {
	ID   string
	done chan struct{}
	res  *model.FilteredResult
	err  error
}

// Wait blocks until the run commits or ctx ends. The run keeps going if ctx
// ends first.
func (r *Run) Wait(ctx context.Context) (*model.FilteredResult, error) {
	select {
	case <-r.done:
		return r.res, r.err
	case <-ctx.Done():
		return nil, eris.Wrap(ctx.Err(), "dashboard: wait for run")
	}
}

// Done is closed once the run's outcome has been committed.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Start begins a prediction with the current params. It returns ErrBusy if
// one is already in flight. The outcome is committed through Reduce when
// the scoring task completes; ctx only bounds the scoring call itself.
func (s *Session) Start(ctx context.Context) (*Run, error) {
	s.mu.Lock()
	if s.state.Busy {
		s.mu.Unlock()
		return nil, apperr.ErrBusy
	}
	id := uuid.New().String()
	s.state = Reduce(s.state, RunStarted{RunID: id, At: s.now()})
	req := scoring.Request{SubjectID: s.state.InFlight.Params.SubjectID}
	s.mu.Unlock()

	zap.L().Debug("dashboard: run started",
		zap.String("run_id", id),
		zap.String("subject", req.SubjectID),
	)

	run := &Run{ID: id, done: make(chan struct{})}
	task := scoring.Start(ctx, s.source, req)
	go func() {
		c := <-task.Done()
		s.commit(run, c)
	}()
	return run, nil
}

func (s *Session) commit(run *Run, c scoring.Completion) {
	defer close(run.done)

	s.mu.Lock()
	if c.Err != nil {
		s.state = Reduce(s.state, RunFailed{RunID: run.ID, Err: c.Err})
	} else {
		s.state = Reduce(s.state, RunCompleted{RunID: run.ID, Result: c.Result})
	}
	st := s.state
	s.mu.Unlock()

	if c.Err != nil {
		run.err = eris.Wrap(c.Err, "dashboard: run")
		zap.L().Warn("dashboard: run failed", zap.String("run_id", run.ID), zap.Error(c.Err))
		return
	}
	run.res = st.Result
	zap.L().Info("dashboard: run complete",
		zap.String("run_id", run.ID),
		zap.Int("categories", len(st.Result.Categories)),
	)
}

// Predict starts a run and waits for its outcome.
func (s *Session) Predict(ctx context.Context) (*model.FilteredResult, error) {
	run, err := s.Start(ctx)
	if err != nil {
		return nil, err
	}
	return run.Wait(ctx)
}
