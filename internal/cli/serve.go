package cli

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/arrange/internal/api"
	"github.com/matzehuels/arrange/pkg/observability"
)

// serveFlags holds the flags of the serve command.
type serveFlags struct {
	addr      string
	offload   string
	noCache   bool
	noMetrics bool
}

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the layout HTTP API",
		Long: `Run the layout HTTP API.

Endpoints:
  GET  /healthz
  GET  /v1/algorithms
  GET  /v1/algorithms/{id}
  POST /v1/layout
  POST /v1/render
  GET  /metrics

The server shuts down gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&flags.offload, "offload", "", "execution mode: inprocess, goroutine, process (default from config)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.noMetrics, "no-metrics", false, "disable the /metrics endpoint")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, flags serveFlags) error {
	addr := flags.addr
	if addr == "" {
		addr = c.cfg.Server.Addr
	}

	var gatherer prometheus.Gatherer
	if !flags.noMetrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		hooks := observability.NewPrometheusHooks(reg)
		observability.SetLayoutHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetHTTPHooks(hooks)
		defer observability.Reset()
		gatherer = reg
	}

	runner, err := c.newRunner(ctx, runnerOptions{
		noCache:             flags.noCache,
		mode:                flags.offload,
		skipTimeoutFallback: true,
	})
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	srv := api.NewServer(runner, api.Options{
		Logger:   c.Logger,
		Gatherer: gatherer,
		Defaults: api.Defaults{
			Algorithm: c.cfg.Layout.Algorithm,
			Seed:      c.cfg.Layout.Seed,
		},
	})

	c.Logger.Info("serving", "addr", addr, "offload", c.cfg.Offload.Mode, "cache", c.cfg.Cache.Backend, "metrics", gatherer != nil)
	if err := srv.ListenAndServe(ctx, addr, c.cfg.Server.ShutdownTimeout); err != nil {
		return err
	}
	c.Logger.Info("server stopped")
	return nil
}
