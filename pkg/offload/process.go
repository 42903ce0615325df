package offload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	arrerrors "github.com/matzehuels/arrange/pkg/errors"
	"github.com/matzehuels/arrange/pkg/graph"
	"github.com/matzehuels/arrange/pkg/layout"
)

// DefaultTimeout bounds a single worker run.
const DefaultTimeout = 2 * time.Minute

// Process runs each job in a fresh worker process.
type Process struct {
	// Path is the worker binary. Empty means the running executable.
	Path string

	// Args are passed to the worker. Nil means ["worker"].
	Args []string

	// Env is the worker's environment. Nil inherits the parent's.
	Env []string

	// Timeout bounds each run. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Execute implements Executor.
func (p *Process) Execute(ctx context.Context, job Job) (graph.Result, error) {
	path := p.Path
	if path == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, arrerrors.Wrap(arrerrors.ErrCodeOffloadFailed, err, "locate worker binary")
		}
		path = exe
	}
	args := p.Args
	if args == nil {
		args = []string{"worker"}
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	var stdin bytes.Buffer
	if err := json.NewEncoder(&stdin).Encode(job); err != nil {
		return nil, arrerrors.Wrap(arrerrors.ErrCodeOffloadFailed, err, "encode job %s", job.ID)
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, path, args...)
	cmd.Stdin = &stdin
	cmd.Env = p.Env
	stdout, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if runCtx.Err() != nil {
			return nil, arrerrors.Wrap(arrerrors.ErrCodeTimeout, runCtx.Err(), "worker for job %s timed out after %s", job.ID, timeout)
		}
		ee := &exec.ExitError{}
		if errors.As(err, &ee) && len(ee.Stderr) > 0 {
			err = fmt.Errorf("%v\nstderr:\n%s", ee, ee.Stderr)
		}
		return nil, arrerrors.Wrap(arrerrors.ErrCodeOffloadFailed, err, "worker for job %s", job.ID)
	}

	var resp Response
	if err := json.Unmarshal(stdout, &resp); err != nil {
		return nil, arrerrors.Wrap(arrerrors.ErrCodeOffloadFailed, err, "decode worker response for job %s", job.ID)
	}
	if resp.JobID != job.ID {
		return nil, arrerrors.New(arrerrors.ErrCodeOffloadFailed, "worker answered job %q, want %q", resp.JobID, job.ID)
	}
	if resp.Error != "" {
		if arrerrors.Code(resp.Code) == arrerrors.ErrCodeUnknownAlgorithm {
			return nil, arrerrors.Wrap(arrerrors.ErrCodeUnknownAlgorithm, layout.ErrUnknownAlgorithm, "%s", resp.Error)
		}
		return nil, arrerrors.New(arrerrors.ErrCodeOffloadFailed, "worker: %s", resp.Error)
	}
	if resp.Positions == nil {
		resp.Positions = graph.Result{}
	}
	return resp.Positions, nil
}
