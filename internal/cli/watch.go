package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/compgraph/internal/watch"
	"github.com/matzehuels/compgraph/pkg/codec"
	"github.com/matzehuels/compgraph/pkg/component"
	"github.com/matzehuels/compgraph/pkg/pipeline"
)

func (c *CLI) watchCommand() *cobra.Command {
	var (
		renderTo string
		detailed bool
	)
	cmd := &cobra.Command{
		Use:   "watch <graph-file>",
		Short: "Print a fresh token whenever a graph file changes",
		Long: `Watch a graph file and print its share token after every change.

With --render the graph is also rendered to the given SVG file, so an editor
and a browser tab showing the SVG stay in sync. A save that leaves the file
unreadable is reported and the previous graph is kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := watch.New(args[0], watch.Options{Logger: c.Logger})
			if err != nil {
				return err
			}
			defer w.Close()

			var runner *pipeline.Runner
			if renderTo != "" {
				if runner, err = c.newRunner(cmd.Context()); err != nil {
					return fmt.Errorf("initialize runner: %w", err)
				}
				defer runner.Close()
			}

			opts := c.cfg().PipelineOptions()
			opts.Detailed = detailed
			opts.Logger = c.Logger

			printInfo("Watching %s (ctrl+c to stop)", w.Path())
			err = w.Run(cmd.Context(), func(g component.Graph) {
				fmt.Fprintln(cmd.OutOrStdout(), codec.Encode(g))
				if runner != nil {
					c.renderSVG(cmd.Context(), runner, g, opts, renderTo)
				}
			})
			if err == context.Canceled {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&renderTo, "render", "", "also render each version to this SVG file")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "list props in node labels")
	return cmd
}

// renderSVG writes the SVG of g to path. Failures are reported and the
// previous file is left in place.
func (c *CLI) renderSVG(ctx context.Context, runner *pipeline.Runner, g component.Graph, opts pipeline.Options, path string) {
	opts.Formats = []string{pipeline.FormatSVG}
	result, err := runner.Execute(ctx, g, opts)
	if err != nil {
		printError("Render failed: %v", err)
		return
	}
	if err := os.WriteFile(path, result.Artifacts[pipeline.FormatSVG], 0o644); err != nil {
		printError("Write %s: %v", path, err)
		return
	}
	printFile(path)
}
