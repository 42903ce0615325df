package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/arrange/pkg/offload"
)

// workerCommand creates the hidden worker command. The process offload
// mode starts it with one job on stdin and reads one response from stdout.
func (c *CLI) workerCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "worker",
		Short:       "Compute one offloaded layout job from stdin",
		Hidden:      true,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			if err := offload.Serve(ctx, os.Stdin, os.Stdout); err != nil {
				logger.Error("worker failed", "err", err)
				return err
			}
			return nil
		},
	}
}
