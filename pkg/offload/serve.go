package offload

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	arrerrors "github.com/matzehuels/arrange/pkg/errors"
	"github.com/matzehuels/arrange/pkg/layout"
)

// Serve is the worker side of the protocol: it reads one Job from r,
// computes it and writes one Response to w. Layout errors go into the
// response; only I/O and decoding failures are returned.
func Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	var job Job
	if err := json.NewDecoder(r).Decode(&job); err != nil {
		return fmt.Errorf("decode job: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	resp := Response{JobID: job.ID}
	res, err := job.Run()
	switch {
	case errors.Is(err, layout.ErrUnknownAlgorithm):
		resp.Error = err.Error()
		resp.Code = string(arrerrors.ErrCodeUnknownAlgorithm)
	case err != nil:
		resp.Error = err.Error()
		resp.Code = string(arrerrors.ErrCodeInternal)
	default:
		resp.Positions = res
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	return nil
}
