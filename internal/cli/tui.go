package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/compgraph/pkg/component"
	"github.com/matzehuels/compgraph/pkg/editor"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse <graph>",
		Short: "Browse and prune a graph interactively",
		Long: `Browse a graph in the terminal.

Move with the arrow keys (or j/k), press d to delete the selected component,
r to make it a root and q to quit. If anything changed, the new token is
printed on exit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := loadGraph(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			ed := c.newEditor(src)
			p := tea.NewProgram(newBrowseModel(cmd.Context(), ed), tea.WithOutput(statusOut))
			final, err := p.Run()
			if err != nil {
				return fmt.Errorf("browse: %w", err)
			}
			if m, ok := final.(browseModel); ok && m.Changed {
				fmt.Fprintln(cmd.OutOrStdout(), ed.Token(cmd.Context()))
			}
			return nil
		},
	}
}

// browseRow is one line of the flattened hierarchy.
type browseRow struct {
	Node  component.Node
	Depth int
}

// browseModel is the bubbletea model of the browse command.
type browseModel struct {
	ctx     context.Context
	ed      *editor.Editor
	Rows    []browseRow
	Cursor  int
	Offset  int
	Height  int
	Changed bool
	Status  string
}

func newBrowseModel(ctx context.Context, ed *editor.Editor) browseModel {
	return browseModel{ctx: ctx, ed: ed, Rows: flatten(ed.Graph()), Height: 15}
}

// flatten lists the components depth first from each root, followed by
// those no root reaches.
func flatten(g component.Graph) []browseRow {
	rows := make([]browseRow, 0, g.Len())
	seen := make(map[string]bool, g.Len())
	var walk func(n component.Node, depth int)
	walk = func(n component.Node, depth int) {
		seen[n.ID] = true
		rows = append(rows, browseRow{Node: n, Depth: depth})
		for _, child := range component.Children(g, n.ID) {
			if !seen[child.ID] {
				walk(child, depth+1)
			}
		}
	}
	for _, r := range component.Roots(g) {
		if !seen[r.ID] {
			walk(r, 0)
		}
	}
	for _, n := range g.Components {
		if !seen[n.ID] {
			walk(n, 0)
		}
	}
	return rows
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "d", "delete":
			if n, ok := m.selected(); ok {
				m.ed.Delete(m.ctx, n.ID)
				m.Status = fmt.Sprintf("deleted %s", n.Name)
				m.refresh()
			}
		case "r":
			if n, ok := m.selected(); ok {
				if m.ed.Update(m.ctx, n.ID, component.SetParent(nil)) {
					m.Status = fmt.Sprintf("%s is now a root", n.Name)
					m.refresh()
				} else {
					m.Status = fmt.Sprintf("%s is already a root", n.Name)
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-12, 5)
	}
	return m, nil
}

func (m *browseModel) move(delta int) {
	m.Cursor = min(max(m.Cursor+delta, 0), max(len(m.Rows)-1, 0))
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m *browseModel) refresh() {
	m.Changed = true
	m.Rows = flatten(m.ed.Graph())
	m.move(0)
}

func (m browseModel) selected() (component.Node, bool) {
	if m.Cursor < len(m.Rows) {
		return m.Rows[m.Cursor].Node, true
	}
	return component.Node{}, false
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Components"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  d delete  r make root  q quit"))
	b.WriteString("\n\n")

	if len(m.Rows) == 0 {
		b.WriteString(listDimStyle.Render("  (empty graph)"))
		b.WriteString("\n")
	}
	end := min(m.Offset+m.Height, len(m.Rows))
	for i := m.Offset; i < end; i++ {
		row := m.Rows[i]
		cursor := "  "
		style := listNormalStyle
		if i == m.Cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}
		line := cursor + strings.Repeat("  ", row.Depth) + row.Node.Name
		b.WriteString(style.Render(line) + " " + listDimStyle.Render(row.Node.ID))
		b.WriteString("\n")
	}

	if n, ok := m.selected(); ok {
		b.WriteString("\n")
		b.WriteString(propTable(n))
		b.WriteString("\n")
	}
	if m.Status != "" {
		b.WriteString(StyleHighlight.Render(m.Status))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.Rows)), len(m.Rows))))
	return b.String()
}

// propTable renders the props of n.
func propTable(n component.Node) string {
	if len(n.Props) == 0 {
		return listDimStyle.Render("  no props")
	}
	rows := make([][]string, len(n.Props))
	for i, p := range n.Props {
		rows[i] = []string{p.Name, p.Type}
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Prop", "Type").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 1 {
				return listDimStyle
			}
			return listNormalStyle
		}).
		Render()
}
