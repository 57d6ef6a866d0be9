package scoring

import (
	"context"

	"github.com/sells-group/adtarget-cli/internal/model"
)

// Completion is the single event a Task emits.
type Completion struct {
	Result *model.PredictionResult
	Err    error
}

// Task is one asynchronous call to a Source.
type Task struct {
	done chan Completion
}

// Start runs src.Produce in a new goroutine. The returned task's Done channel
// yields exactly one Completion and is then closed.
func Start(ctx context.Context, src Source, req Request) *Task {
	t := &Task{done: make(chan Completion, 1)}
	go func() {
		defer close(t.done)
		res, err := src.Produce(ctx, req)
		t.done <- Completion{Result: res, Err: err}
	}()
	return t
}

// Done returns the completion channel.
func (t *Task) Done() <-chan Completion {
	return t.done
}

// Wait blocks until the task completes or ctx ends. When ctx ends first the
// task keeps running; its completion is simply not observed here.
func (t *Task) Wait(ctx context.Context) (*model.PredictionResult, error) {
	select {
	case c := <-t.done:
		return c.Result, c.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
