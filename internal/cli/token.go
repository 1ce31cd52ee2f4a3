package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/compgraph/pkg/component"
	"github.com/matzehuels/compgraph/pkg/graph"
)

func (c *CLI) encodeCommand() *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:   "encode <graph-file|->",
		Short: "Print the share token of a graph file",
		Long: `Print the share token of a graph file.

The file format follows the extension (.json, .toml, .yaml). With - the graph
is read from stdin. --url prints a complete share link instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := loadGraph(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			return c.emit(cmd, src, c.newEditor(src), out)
		},
	}
	cmd.Flags().BoolVar(&out.url, "url", false, "print a share URL instead of the token")
	return cmd
}

func (c *CLI) decodeCommand() *cobra.Command {
	var (
		output string
		format string
	)
	cmd := &cobra.Command{
		Use:   "decode <token|url|->",
		Short: "Restore the graph of a share token",
		Long: `Restore the graph of a share token or share URL.

The graph is written to --output (format by extension) or printed to stdout
in --format (json, toml or yaml).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := loadGraph(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			if output != "" {
				if err := graph.WriteFile(output, src.graph); err != nil {
					return err
				}
				printSuccess("Decoded %d components", src.graph.Len())
				printFile(output)
				return nil
			}
			return graph.Write(cmd.OutOrStdout(), src.graph, format)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.json, .toml, .yaml)")
	cmd.Flags().StringVarP(&format, "format", "f", graph.FormatJSON, "stdout format: json, toml, yaml")
	return cmd
}

func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <graph>",
		Short: "Verify that a graph is well formed",
		Long: `Verify that a graph is well formed: component IDs are unique, every parent
exists and no component is its own ancestor.

The graph may be a token, a share URL, a graph file or - for stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := loadGraph(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			if err := component.Check(src.graph); err != nil {
				printError("Graph is not well formed")
				return err
			}
			g := src.graph
			printSuccess("Graph is well formed")
			printKeyValue("components", strconv.Itoa(g.Len()))
			printKeyValue("roots", strconv.Itoa(len(component.Roots(g))))
			printKeyValue("depth", strconv.Itoa(depth(g)))
			printKeyValue("props", strconv.Itoa(propCount(g)))
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}

// depth is the number of levels below the roots of an acyclic graph, so a
// graph of lone roots has depth 1 and the empty graph 0.
func depth(g component.Graph) int {
	most := 0
	var walk func(id string, d int)
	walk = func(id string, d int) {
		most = max(most, d)
		for _, child := range component.Children(g, id) {
			walk(child.ID, d+1)
		}
	}
	for _, r := range component.Roots(g) {
		walk(r.ID, 1)
	}
	return most
}

func propCount(g component.Graph) int {
	n := 0
	for _, c := range g.Components {
		n += len(c.Props)
	}
	return n
}
