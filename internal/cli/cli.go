// Package cli implements the arrange command-line interface.
//
// Commands compute layouts for diagram documents, draw previews of them,
// run the HTTP API and manage the layout cache. The CLI is built using
// cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - layout: Compute node positions for a document
//   - algorithms: List the supported layout algorithms
//   - render: Draw a layout as SVG, PNG, PDF or DOT
//   - serve: Run the HTTP API
//   - cache: Manage the layout cache
//   - config: Inspect and create the configuration file
//
// The hidden worker command is the isolated execution context used by the
// process offload mode.
//
// # Configuration
//
// Defaults come from the TOML file at --config (or the XDG default path).
// Flags override the file.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/arrange/internal/config"
	"github.com/matzehuels/arrange/pkg/buildinfo"
	"github.com/matzehuels/arrange/pkg/cache"
	"github.com/matzehuels/arrange/pkg/offload"
	"github.com/matzehuels/arrange/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const appName = config.AppName

// annotationNoConfig marks commands that run without reading the config file.
const annotationNoConfig = "arrange/no-config"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        config.Config
}

// New creates a new CLI instance with a default logger and the built-in
// configuration. The configuration file is read when a command runs.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Arrange computes 2D layouts for node-link diagrams",
		Long:         `Arrange places the elements of a node-link diagram on a plane using force-directed, circular, grid or random layouts, and previews the result with Graphviz.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			if cmd.Annotations[annotationNoConfig] != "" {
				return nil
			}
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			c.Logger.Debug("config loaded", "path", c.configPath, "algorithm", cfg.Layout.Algorithm, "offload", cfg.Offload.Mode, "cache", cfg.Cache.Backend)
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/arrange/config.toml)")

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.algorithmsCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.workerCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// runnerOptions override the configuration for one command.
type runnerOptions struct {
	noCache bool
	mode    string // offload mode, empty means the configured one

	// skipTimeoutFallback keeps timed-out jobs from being rerun in-process.
	skipTimeoutFallback bool
}

// newRunner creates a pipeline runner from the configuration.
func (c *CLI) newRunner(ctx context.Context, ro runnerOptions) (*pipeline.Runner, error) {
	cc, err := c.openCache(ctx, ro.noCache)
	if err != nil {
		return nil, err
	}

	mode := ro.mode
	if mode == "" {
		mode = c.cfg.Offload.Mode
	}
	exec, err := offload.New(offload.Config{
		Mode:       mode,
		WorkerPath: c.cfg.Offload.WorkerPath,
		Timeout:    c.cfg.Offload.Timeout,
		Logger:     c.Logger,

		SkipTimeoutFallback: ro.skipTimeoutFallback,
	})
	if err != nil {
		_ = cc.Close()
		return nil, err
	}
	return pipeline.NewRunner(cc, c.cfg.Keyer(), exec, c.Logger), nil
}

// openCache opens the configured cache backend. A file cache whose
// directory cannot be determined degrades to no caching.
func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	opts := cache.OpenOptions{
		URL:        c.cfg.Cache.URL,
		Database:   c.cfg.Cache.Database,
		Collection: c.cfg.Cache.Collection,
	}
	if c.cfg.Cache.Backend == cache.BackendFile {
		dir, err := c.cfg.CacheDir()
		if err != nil {
			c.Logger.Warn("no cache directory; caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		opts.Dir = dir
	}
	return cache.Open(ctx, c.cfg.Cache.Backend, opts)
}

// layoutDefaults fills the fields of opts that the command line left
// empty from the configuration.
func (c *CLI) layoutDefaults(opts *pipeline.Options) {
	if opts.Algorithm == "" {
		opts.Algorithm = c.cfg.Layout.Algorithm
	}
	if opts.Seed == 0 {
		opts.Seed = c.cfg.Layout.Seed
	}
	if opts.Force == nil {
		force := c.cfg.Layout.Force
		opts.Force = &force
	}
	opts.Logger = c.Logger
}
