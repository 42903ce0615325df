package offload

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/matzehuels/arrange/pkg/graph"
)

// Executor computes a layout job somewhere.
type Executor interface {
	Execute(ctx context.Context, job Job) (graph.Result, error)
}

// Execution modes accepted by New.
const (
	ModeInProcess = "inprocess"
	ModeGoroutine = "goroutine"
	ModeProcess   = "process"
)

// Name returns the mode name of e, used to label metrics and logs.
func Name(e Executor) string {
	switch x := e.(type) {
	case InProcess, *InProcess:
		return ModeInProcess
	case Goroutine, *Goroutine:
		return ModeGoroutine
	case *Process:
		return ModeProcess
	case *Fallback:
		return Name(x.Primary)
	}
	return fmt.Sprintf("%T", e)
}

// =============================================================================
// InProcess
// =============================================================================

// InProcess runs jobs synchronously on the caller's goroutine.
type InProcess struct{}

// Execute implements Executor. The engine does not observe ctx once started.
func (InProcess) Execute(ctx context.Context, job Job) (graph.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return job.Run()
}

// =============================================================================
// Goroutine
// =============================================================================

// Goroutine runs each job on its own goroutine. Execute returns as soon as
// the job finishes or ctx is done; a result that arrives after
// cancellation is dropped.
type Goroutine struct {
	// Run computes the job. Nil means Job.Run.
	Run func(Job) (graph.Result, error)
}

type outcome struct {
	res graph.Result
	err error
}

// Execute implements Executor. A panic in the engine is returned as an error.
func (g Goroutine) Execute(ctx context.Context, job Job) (graph.Result, error) {
	run := g.Run
	if run == nil {
		run = Job.Run
	}

	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("layout job %s panicked: %v\n%s", job.ID, r, debug.Stack())}
			}
		}()
		res, err := run(job)
		done <- outcome{res: res, err: err}
	}()

	select {
	case o := <-done:
		return o.res, o.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
