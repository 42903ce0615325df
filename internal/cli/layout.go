package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/arrange/pkg/graph"
	"github.com/matzehuels/arrange/pkg/layout"
	"github.com/matzehuels/arrange/pkg/pipeline"
)

// stdio is the file name meaning standard input or output.
const stdio = "-"

var errSelectionCancelled = errors.New("selection cancelled")

// layoutFlags holds the flags of the layout command.
type layoutFlags struct {
	output  string
	center  string
	noCache bool
	apply   bool
	offload string
}

// layoutCommand creates the layout command for computing node positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags layoutFlags
		opts  pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "layout [document.json]",
		Short: "Compute node positions for a diagram document",
		Long: `Compute node positions for a diagram document.

The input is a JSON document with "nodes" and "edges" ("-" reads stdin).
The output maps every node id to its position; with --apply the input
document is written back with the positions filled in.

When no algorithm is given and the terminal is interactive, a picker is
shown. Results are cached, so repeating a request is instant.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts, flags)
		},
	}

	cmd.Flags().StringVarP(&opts.Algorithm, "algorithm", "a", "", "layout algorithm: force, circular, grid, random (default from config)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", `output file, "-" for stdout (default: <input>.layout.json)`)
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "random seed (default from config)")
	cmd.Flags().Float64Var(&opts.Scale, "scale", 0, "layout extent, 0 picks one from the node count")
	cmd.Flags().StringVar(&flags.center, "center", "", `layout center as "x,y" (default: centroid of placed nodes)`)
	cmd.Flags().BoolVar(&flags.apply, "apply", false, "write the input document with positions applied")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when cached")
	cmd.Flags().StringVar(&flags.offload, "offload", "", "execution mode: inprocess, goroutine, process (default from config)")

	return cmd
}

// runLayout loads the document, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, flags layoutFlags) error {
	doc, err := readDocument(input)
	if err != nil {
		return fmt.Errorf("load document %s: %w", input, err)
	}

	if flags.center != "" {
		center, err := parseCenter(flags.center)
		if err != nil {
			return err
		}
		opts.Center = &center
	}

	if opts.Algorithm == "" && input != stdio && interactive() {
		a, err := pickAlgorithm(layout.Algorithm(c.cfg.Layout.Algorithm))
		if err != nil {
			return err
		}
		opts.Algorithm = string(a)
	}
	c.layoutDefaults(&opts)
	opts.Nodes = doc.Nodes
	opts.Edges = doc.Edges

	runner, err := c.newRunner(ctx, runnerOptions{noCache: flags.noCache, mode: flags.offload})
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	toStdout := flags.output == stdio
	spinner := newSpinner(ctx, fmt.Sprintf("Computing %s layout...", opts.Algorithm))
	spinner.Start()

	res, err := runner.Compute(ctx, opts)
	if err != nil {
		if toStdout {
			spinner.Stop()
		} else {
			spinner.StopWithError("Layout failed")
		}
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = defaultOutput(input, ".layout.json")
	}
	if err := writeLayout(outputPath, doc, res.Positions, flags.apply); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}
	if toStdout {
		return nil
	}

	src := sourceComputed
	switch {
	case res.CacheHit:
		src = sourceCached
	case res.Shared:
		src = sourceShared
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(res.Stats.NodeCount, res.Stats.EdgeCount, src)
	printNewline()
	if flags.apply {
		printNextStep("Render", appName+" render "+outputPath)
	} else {
		printNextStep("Render", fmt.Sprintf("%s render %s --layout %s", appName, input, outputPath))
	}
	return nil
}

// =============================================================================
// Input / Output
// =============================================================================

// readDocument reads a diagram document from path, or stdin for "-".
func readDocument(path string) (graph.Document, error) {
	if path == stdio {
		return graph.ReadDocument(os.Stdin)
	}
	return graph.ReadDocumentFile(path)
}

// writeLayout writes either the positions or, with apply, the document
// with the positions applied.
func writeLayout(path string, doc graph.Document, positions graph.Result, apply bool) error {
	var w io.Writer = os.Stdout
	if path != stdio {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return encodeLayout(w, doc, positions, apply)
}

func encodeLayout(w io.Writer, doc graph.Document, positions graph.Result, apply bool) error {
	if apply {
		doc.Nodes = positions.Apply(doc.Nodes)
		return graph.WriteDocument(doc, w)
	}
	data, err := graph.MarshalResult(positions)
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// defaultOutput derives an output path from input by replacing its
// extension with suffix. Stdin input writes next to the working directory.
func defaultOutput(input, suffix string) string {
	if input == stdio {
		return "document" + suffix
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}

// parseCenter parses an "x,y" pair.
func parseCenter(s string) (graph.Position, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return graph.Position{}, fmt.Errorf("invalid center %q: want x,y", s)
	}
	x, errX := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err := errors.Join(errX, errY); err != nil {
		return graph.Position{}, fmt.Errorf("invalid center %q: %w", s, err)
	}
	p := graph.Position{X: x, Y: y}
	if !p.IsFinite() {
		return graph.Position{}, fmt.Errorf("invalid center %q: coordinates must be finite", s)
	}
	return p, nil
}
