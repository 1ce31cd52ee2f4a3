package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/compgraph/pkg/errors"
	"github.com/matzehuels/compgraph/pkg/graph"
	"github.com/matzehuels/compgraph/pkg/pipeline"
)

// layoutCommand creates the layout command for computing node positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		refresh bool
	)
	cmd := &cobra.Command{
		Use:   "layout <graph>",
		Short: "Compute the layered layout of a graph",
		Long: `Compute the layered layout of a graph and print it as JSON.

Each component becomes a box on the rank of its depth; boxes in a rank are
ordered to reduce edge crossings. Parent rings are broken and reported as
cyclesBroken. Results are cached.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := loadGraph(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context())
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			opts := c.cfg().PipelineOptions()
			opts.Refresh = refresh
			opts.Logger = c.Logger

			prog := newProgress(c.Logger)
			l, hit, err := runner.LayoutWithCacheInfo(cmd.Context(), src.graph, opts)
			if err != nil {
				return fmt.Errorf("compute layout: %w", err)
			}
			prog.done("Computed layout", "ranks", l.Ranks, "cached", hit)
			if l.CyclesBroken > 0 {
				printWarning("Broke %d parent cycles", l.CyclesBroken)
			}

			data, err := graph.MarshalLayout(l)
			if err != nil {
				return err
			}
			if output == "" {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			if err := graph.WriteLayoutFile(l, output); err != nil {
				return fmt.Errorf("write output %s: %w", output, err)
			}
			printSuccess("Layout complete")
			printFile(output)
			printStats(len(l.Nodes), len(l.Edges), hit)
			printNextStep("Render", appName+" render "+args[0]+" -o graph.svg")
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even if cached")
	return cmd
}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file, or base path for several formats
	formats  string // comma-separated
	detailed bool   // list props in node labels
	refresh  bool
}

// renderCommand creates the render command for Graphviz output.
func (c *CLI) renderCommand() *cobra.Command {
	var ro renderOpts
	cmd := &cobra.Command{
		Use:   "render <graph>",
		Short: "Render a graph with Graphviz",
		Long: `Render a graph as an SVG node-link diagram, as Graphviz DOT source or as
layout JSON.

A single format is written to --output or stdout. Several formats need an
output base path (or a graph file to derive one from) and are written side by
side as <base>.svg, <base>.dot and <base>.layout.json.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := loadGraph(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			opts := c.cfg().PipelineOptions()
			opts.Formats = pipeline.ParseFormats(ro.formats)
			opts.Detailed = ro.detailed
			opts.Refresh = ro.refresh
			opts.Logger = c.Logger
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd, src, opts, ro)
		},
	}
	cmd.Flags().StringVarP(&ro.output, "output", "o", "", "output file (one format) or base path (several)")
	cmd.Flags().StringVarP(&ro.formats, "format", "f", pipeline.FormatSVG, "output format(s): "+strings.Join(pipeline.Formats(), ", ")+" (comma-separated)")
	cmd.Flags().BoolVar(&ro.detailed, "detailed", false, "list props in node labels")
	cmd.Flags().BoolVar(&ro.refresh, "refresh", false, "recompute even if cached")
	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, src source, opts pipeline.Options, ro renderOpts) error {
	ctx := cmd.Context()
	if len(opts.Formats) > 1 && ro.output == "" && src.path == "" {
		return errors.New(errors.ErrCodeInvalidInput, "several formats need --output or a graph file")
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	result, err := renderWithSpinner(ctx, runner, src, opts)
	if err != nil {
		return err
	}

	if len(opts.Formats) == 1 && ro.output == "" {
		_, err := cmd.OutOrStdout().Write(result.Artifacts[opts.Formats[0]])
		return err
	}

	printSuccess("Rendered %d components", result.Stats.NodeCount)
	for _, format := range opts.Formats {
		path := ro.output
		if len(opts.Formats) > 1 {
			path = basePath(ro.output, src.path) + extension(format)
		}
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.RenderHit)
	return nil
}

func renderWithSpinner(ctx context.Context, runner *pipeline.Runner, src source, opts pipeline.Options) (*pipeline.Result, error) {
	spinner := newSpinner(ctx, "Rendering "+strings.Join(opts.Formats, ", ")+"...")
	spinner.Start()
	result, err := runner.Execute(ctx, src.graph, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return nil, fmt.Errorf("render: %w", err)
	}
	spinner.Stop()
	if result.Layout.CyclesBroken > 0 {
		printWarning("Broke %d parent cycles", result.Layout.CyclesBroken)
	}
	return result, nil
}

// extension keeps layout JSON from overwriting a .json graph file.
func extension(format string) string {
	if format == pipeline.FormatJSON {
		return ".layout.json"
	}
	return "." + format
}

// basePath derives the base output path from the output and input paths.
// If output is empty, it strips the extension from input. If output ends in
// a render format extension, that extension is stripped.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
