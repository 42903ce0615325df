package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/arrange/pkg/graph"
	"github.com/matzehuels/arrange/pkg/pipeline"
	"github.com/matzehuels/arrange/pkg/render"
)

// renderFlags holds the command-line flags for the render command.
type renderFlags struct {
	output     string // output file (single format) or base path
	layoutFile string // positions from a previous layout run
	formats    string // comma-separated output formats
	noCache    bool
}

// renderCommand creates the render command for drawing layout previews.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags renderFlags
		opts  pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "render [document.json]",
		Short: "Draw a diagram preview as SVG, PNG, PDF or DOT",
		Long: `Draw a diagram preview as SVG, PNG, PDF or DOT.

Positions come from --layout (a file written by 'layout'), from the
document itself when every node is placed, or are computed on the fly.
Nodes are pinned at their positions; Graphviz only draws them.

PDF output requires rsvg-convert on the PATH.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats, err := parseFormats(flags.formats)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, formats, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s): svg (default), png, pdf, dot (comma-separated)")
	cmd.Flags().StringVar(&flags.layoutFile, "layout", "", "positions file produced by 'layout'")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVarP(&opts.Algorithm, "algorithm", "a", "", "layout algorithm when positions must be computed")
	cmd.Flags().Float64Var(&opts.Unit, "unit", render.DefaultUnit, "inches per layout unit")
	cmd.Flags().BoolVar(&opts.Labels, "labels", false, "draw node ids")
	cmd.Flags().BoolVar(&opts.Directed, "directed", false, "draw edges as arrows")

	return cmd
}

// runRender resolves positions for the document and renders every format.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, formats []render.Format, flags renderFlags) error {
	doc, err := readDocument(input)
	if err != nil {
		return fmt.Errorf("load document %s: %w", input, err)
	}
	c.layoutDefaults(&opts)
	opts.Nodes = doc.Nodes
	opts.Edges = doc.Edges

	runner, err := c.newRunner(ctx, runnerOptions{noCache: flags.noCache})
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	positions, err := c.resolvePositions(ctx, runner, opts, doc, flags.layoutFile)
	if err != nil {
		return err
	}

	base := basePath(flags.output, input)
	for _, format := range formats {
		opts.Format = string(format)
		prog := newProgress(c.Logger)
		spinner := newSpinner(ctx, fmt.Sprintf("Rendering %s...", format))
		spinner.Start()

		data, cacheHit, err := runner.RenderWithCacheInfo(ctx, opts, positions)
		if err != nil {
			spinner.StopWithError("Render failed")
			return fmt.Errorf("render %s: %w", format, err)
		}
		spinner.Stop()

		path := flags.output
		if path == "" || len(formats) > 1 {
			path = base + "." + string(format)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		prog.done("Rendered " + path)
		c.Logger.Debug("render written", "format", format, "bytes", len(data), "cached", cacheHit)
		printFile(path)
	}
	return nil
}

// resolvePositions returns the positions to draw: the layout file, the
// document's own positions when complete, or a fresh layout.
func (c *CLI) resolvePositions(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, doc graph.Document, layoutFile string) (graph.Result, error) {
	if layoutFile != "" {
		positions, err := graph.ReadResultFile(layoutFile)
		if err != nil {
			return nil, fmt.Errorf("load layout %s: %w", layoutFile, err)
		}
		return positions, nil
	}
	if positions, ok := placed(doc.Nodes); ok {
		c.Logger.Debug("using document positions", "nodes", len(positions))
		return positions, nil
	}

	res, err := runner.Compute(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("compute layout: %w", err)
	}
	return res.Positions, nil
}

// placed returns the positions of nodes when every node has one.
func placed(nodes []graph.Node) (graph.Result, bool) {
	if len(nodes) == 0 {
		return nil, false
	}
	out := make(graph.Result, len(nodes))
	for _, n := range nodes {
		if n.Position == nil || !n.Position.IsFinite() {
			return nil, false
		}
		out[n.ID] = *n.Position
	}
	return out, true
}

// parseFormats parses the --format flag into a list of distinct formats.
func parseFormats(s string) ([]render.Format, error) {
	if strings.TrimSpace(s) == "" {
		return []render.Format{pipeline.DefaultFormat}, nil
	}
	var out []render.Format
	seen := make(map[render.Format]bool)
	for _, part := range strings.Split(s, ",") {
		f, err := render.ParseFormat(part)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out, nil
}

// basePath derives the base output path from the output and input paths.
// A known format extension on output is stripped.
func basePath(output, input string) string {
	if output == "" {
		return defaultOutput(input, "")
	}
	ext := filepath.Ext(output)
	if _, err := render.ParseFormat(strings.TrimPrefix(ext, ".")); err == nil && ext != "" {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
