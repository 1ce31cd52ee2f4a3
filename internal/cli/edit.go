package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/compgraph/pkg/component"
	"github.com/matzehuels/compgraph/pkg/editor"
	"github.com/matzehuels/compgraph/pkg/errors"
)

// defaultPropType is used for --prop values given without a type.
const defaultPropType = "string"

func (c *CLI) addCommand() *cobra.Command {
	var (
		out    outputFlags
		name   string
		parent string
		id     string
		props  []string
	)
	cmd := &cobra.Command{
		Use:   "add [graph]",
		Short: "Add a component",
		Long: `Add a component and print the token of the new graph.

Without a graph argument the component starts a new graph. The ID is
generated unless --id is given.`,
		Example: `  compgraph add --name App
  compgraph add "$TOKEN" --name Header --parent "$APP_ID" --prop title:string`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := loadGraph(argOr(args, 0), cmd.InOrStdin())
			if err != nil {
				return err
			}
			parsed, err := parseProps(props)
			if err != nil {
				return err
			}
			n := component.Node{ID: id, Name: name, Props: parsed}
			if parent != "" {
				n.ParentID = component.Parent(parent)
			}
			if err := editor.ValidateNew(src.graph, n); err != nil {
				return err
			}

			ed := c.newEditor(src)
			n = ed.Add(cmd.Context(), n)
			printSuccess("Added %s (%s)", n.Name, n.ID)
			return c.emit(cmd, src, ed, out)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "component name (required)")
	cmd.Flags().StringVar(&parent, "parent", "", "parent component ID")
	cmd.Flags().StringVar(&id, "id", "", "component ID (default: generated)")
	cmd.Flags().StringArrayVar(&props, "prop", nil, "prop as name:type (repeatable)")
	_ = cmd.MarkFlagRequired("name")
	out.register(cmd)
	return cmd
}

func (c *CLI) updateCommand() *cobra.Command {
	var (
		out    outputFlags
		name   string
		parent string
		root   bool
		props  []string
	)
	cmd := &cobra.Command{
		Use:   "update <graph> <id>",
		Short: "Rename, move or re-prop a component",
		Long: `Change the name, parent or props of a component.

Only the flags given are applied. --prop replaces the whole prop list;
--root detaches the component from its parent. A move that would make the
component its own ancestor is rejected.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := loadGraph(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			id := args[1]

			var changes []component.Change
			flags := cmd.Flags()
			if flags.Changed("name") {
				changes = append(changes, component.SetName(name))
			}
			if flags.Changed("parent") && root {
				return errors.New(errors.ErrCodeInvalidInput, "--parent and --root are exclusive")
			}
			if flags.Changed("parent") {
				changes = append(changes, component.SetParent(component.Parent(parent)))
			}
			if root {
				changes = append(changes, component.SetParent(nil))
			}
			if flags.Changed("prop") {
				parsed, err := parseProps(props)
				if err != nil {
					return err
				}
				changes = append(changes, component.SetProps(parsed))
			}
			if len(changes) == 0 {
				return errors.New(errors.ErrCodeInvalidInput, "nothing to update: pass --name, --parent, --root or --prop")
			}
			if err := editor.ValidateUpdate(src.graph, id, changes...); err != nil {
				return err
			}

			ed := c.newEditor(src)
			if ed.Update(cmd.Context(), id, changes...) {
				printSuccess("Updated %s", id)
			} else {
				printInfo("%s unchanged", id)
			}
			return c.emit(cmd, src, ed, out)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&parent, "parent", "", "new parent ID")
	cmd.Flags().BoolVar(&root, "root", false, "make the component a root")
	cmd.Flags().StringArrayVar(&props, "prop", nil, "replacement prop as name:type (repeatable)")
	out.register(cmd)
	return cmd
}

func (c *CLI) deleteCommand() *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:     "delete <graph> <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a component",
		Long: `Delete a component. Its children are kept and become roots; the rest of
its subtree is untouched.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := loadGraph(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			id := args[1]
			if _, ok := component.Find(src.graph, id); !ok {
				return errors.New(errors.ErrCodeNotFound, "component %q not found", id)
			}
			orphans := len(component.Children(src.graph, id))

			ed := c.newEditor(src)
			ed.Delete(cmd.Context(), id)
			printSuccess("Deleted %s", id)
			if orphans > 0 {
				printDetail("%d children are now roots", orphans)
			}
			return c.emit(cmd, src, ed, out)
		},
	}
	out.register(cmd)
	return cmd
}

func (c *CLI) propCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prop",
		Short: "Add or remove component props",
	}
	cmd.AddCommand(c.propAddCommand(), c.propRemoveCommand())
	return cmd
}

func (c *CLI) propAddCommand() *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:   "add <graph> <id> <name> [type]",
		Short: "Append a prop to a component",
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := loadGraph(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			id := args[1]
			if _, ok := component.Find(src.graph, id); !ok {
				return errors.New(errors.ErrCodeNotFound, "component %q not found", id)
			}
			p := component.Prop{Name: args[2], Type: defaultPropType}
			if len(args) == 4 {
				p.Type = args[3]
			}
			if err := errors.ValidateProp(p.Name, p.Type); err != nil {
				return err
			}

			ed := c.newEditor(src)
			ed.AddProp(cmd.Context(), id, p)
			printSuccess("Added prop %s: %s to %s", p.Name, p.Type, id)
			return c.emit(cmd, src, ed, out)
		},
	}
	out.register(cmd)
	return cmd
}

func (c *CLI) propRemoveCommand() *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:     "rm <graph> <id> <name>",
		Aliases: []string{"remove"},
		Short:   "Remove every prop with the given name",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := loadGraph(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			id, name := args[1], args[2]
			if _, ok := component.Find(src.graph, id); !ok {
				return errors.New(errors.ErrCodeNotFound, "component %q not found", id)
			}

			ed := c.newEditor(src)
			if ed.RemoveProp(cmd.Context(), id, name) {
				printSuccess("Removed prop %s from %s", name, id)
			} else {
				printWarning("%s has no prop %s", id, name)
			}
			return c.emit(cmd, src, ed, out)
		},
	}
	out.register(cmd)
	return cmd
}

// parseProps parses name:type pairs. The type may itself contain colons
// ("cb:(e: Event) => void"); a missing type defaults to string.
func parseProps(specs []string) ([]component.Prop, error) {
	props := make([]component.Prop, 0, len(specs))
	for _, spec := range specs {
		name, typ, ok := strings.Cut(spec, ":")
		name, typ = strings.TrimSpace(name), strings.TrimSpace(typ)
		if !ok || typ == "" {
			typ = defaultPropType
		}
		if err := errors.ValidateProp(name, typ); err != nil {
			return nil, err
		}
		props = append(props, component.Prop{Name: name, Type: typ})
	}
	return props, nil
}
