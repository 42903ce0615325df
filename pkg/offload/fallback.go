package offload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	arrerrors "github.com/matzehuels/arrange/pkg/errors"
	"github.com/matzehuels/arrange/pkg/graph"
	"github.com/matzehuels/arrange/pkg/layout"
	"github.com/matzehuels/arrange/pkg/observability"
)

// Fallback runs jobs on Primary and recomputes them in-process when the
// primary path fails.
type Fallback struct {
	Primary Executor
	Logger  *log.Logger

	// SkipTimeouts returns a primary TIMEOUT as-is instead of rerunning a
	// job that already used up its time budget on the caller's goroutine.
	SkipTimeouts bool
}

// Execute implements Executor. Layout errors and caller cancellation are
// returned as-is, as are timeouts when SkipTimeouts is set; every other
// primary failure is logged at WARN and the job is computed with InProcess
// instead.
func (f *Fallback) Execute(ctx context.Context, job Job) (graph.Result, error) {
	res, err := f.Primary.Execute(ctx, job)
	if err == nil {
		return res, nil
	}
	if errors.Is(err, layout.ErrUnknownAlgorithm) || ctx.Err() != nil {
		return nil, err
	}
	if f.SkipTimeouts && arrerrors.Is(err, arrerrors.ErrCodeTimeout) {
		f.logger().Warn("layout offload timed out", "job", job.ID, "algorithm", job.Algorithm, "err", err)
		return nil, err
	}

	f.logger().Warn("layout offload failed; running in-process",
		"job", job.ID,
		"algorithm", job.Algorithm,
		"nodes", len(job.Nodes),
		"err", err)
	observability.Layout().OnOffloadFallback(ctx, string(job.Algorithm), err)

	return runLocal(ctx, job)
}

// runLocal is InProcess.Execute with panics turned into errors, since the
// fallback runs on the caller's goroutine.
func runLocal(ctx context.Context, job Job) (res graph.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = arrerrors.New(arrerrors.ErrCodeInternal, "layout job %s panicked: %v", job.ID, r)
		}
	}()
	return InProcess{}.Execute(ctx, job)
}

func (f *Fallback) logger() *log.Logger {
	if f.Logger != nil {
		return f.Logger
	}
	return log.NewWithOptions(io.Discard, log.Options{})
}

// Config selects and configures an executor.
type Config struct {
	Mode       string        // inprocess, goroutine or process; empty means process
	WorkerPath string        // process mode: worker binary, empty means self
	WorkerArgs []string      // process mode: worker arguments, nil means ["worker"]
	Timeout    time.Duration // process mode: per-job timeout
	Logger     *log.Logger

	// SkipTimeoutFallback disables the in-process rerun of timed-out jobs.
	SkipTimeoutFallback bool
}

// New creates the executor for cfg.Mode. Isolated modes are wrapped in a
// Fallback.
func New(cfg Config) (Executor, error) {
	switch cfg.Mode {
	case ModeInProcess:
		return InProcess{}, nil
	case ModeGoroutine:
		return &Fallback{Primary: Goroutine{}, Logger: cfg.Logger, SkipTimeouts: cfg.SkipTimeoutFallback}, nil
	case "", ModeProcess:
		return &Fallback{
			Primary: &Process{
				Path:    cfg.WorkerPath,
				Args:    cfg.WorkerArgs,
				Timeout: cfg.Timeout,
			},
			Logger:       cfg.Logger,
			SkipTimeouts: cfg.SkipTimeoutFallback,
		}, nil
	}
	return nil, fmt.Errorf("unknown offload mode %q (want %s, %s or %s)", cfg.Mode, ModeInProcess, ModeGoroutine, ModeProcess)
}
