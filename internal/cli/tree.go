package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"

	"github.com/matzehuels/compgraph/pkg/component"
)

var (
	treeEnumStyle = lipgloss.NewStyle().Foreground(colorDim).MarginRight(1)
	treeNameStyle = lipgloss.NewStyle().Foreground(colorWhite)
	treeWarnStyle = lipgloss.NewStyle().Foreground(colorYellow)
)

func (c *CLI) treeCommand() *cobra.Command {
	var showProps bool
	cmd := &cobra.Command{
		Use:   "tree <graph>",
		Short: "Print the component hierarchy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := loadGraph(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTree(src.graph, showProps))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&showProps, "props", "p", false, "list props under each component")
	return cmd
}

// renderTree draws every root with its subtree. Components that no root
// reaches (parent rings, missing parents) are listed after the trees.
func renderTree(g component.Graph, showProps bool) string {
	if g.IsEmpty() {
		return StyleDim.Render("(empty graph)")
	}

	seen := make(map[string]bool, g.Len())
	var build func(n component.Node) *tree.Tree
	build = func(n component.Node) *tree.Tree {
		seen[n.ID] = true
		t := tree.Root(treeLabel(n)).
			Enumerator(tree.RoundedEnumerator).
			EnumeratorStyle(treeEnumStyle)
		if showProps {
			for _, p := range n.Props {
				t.Child(StyleDim.Render(p.Name + ": " + p.Type))
			}
		}
		for _, child := range component.Children(g, n.ID) {
			if seen[child.ID] {
				continue
			}
			t.Child(build(child))
		}
		return t
	}

	var parts []string
	for _, r := range component.Roots(g) {
		if !seen[r.ID] {
			parts = append(parts, build(r).String())
		}
	}

	var stray []string
	for _, n := range g.Components {
		if !seen[n.ID] {
			seen[n.ID] = true
			stray = append(stray, treeLabel(n)+StyleDim.Render(" ↑ "+n.Parent()))
		}
	}
	if len(stray) > 0 {
		unreachable := tree.Root(treeWarnStyle.Render("unreachable")).
			Enumerator(tree.RoundedEnumerator).
			EnumeratorStyle(treeEnumStyle)
		for _, s := range stray {
			unreachable.Child(s)
		}
		parts = append(parts, unreachable.String())
	}
	return strings.Join(parts, "\n")
}

func treeLabel(n component.Node) string {
	return treeNameStyle.Render(n.Name) + " " + StyleDim.Render("("+n.ID+")")
}
