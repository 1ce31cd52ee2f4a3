package layout

import (
	"math"
	"strconv"

	"github.com/matzehuels/compgraph/pkg/component"
	"github.com/matzehuels/compgraph/pkg/dag"
	"github.com/matzehuels/compgraph/pkg/dag/transform"
)

// Position is the top-left corner of a node box.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a positioned component.
type Node struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Props    []component.Prop `json:"props"`
	Rank     int              `json:"rank"`
	Position Position         `json:"position"`
	Width    float64          `json:"width"`
	Height   float64          `json:"height"`
}

// Center returns the centre of the node box.
func (n Node) Center() (x, y float64) {
	return n.Position.X + n.Width/2, n.Position.Y + n.Height/2
}

// Edge is a directed parent → child relation.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// EdgeID returns the identity of the edge parent → child.
func EdgeID(parent, child string) string { return parent + "-" + child }

// Layout is the render-ready form of a component graph.
type Layout struct {
	Nodes        []Node  `json:"nodes"`
	Edges        []Edge  `json:"edges"`
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	Ranks        int     `json:"ranks"`
	CyclesBroken int     `json:"cyclesBroken"`
}

// Build lays out g top to bottom. It never fails: duplicate IDs keep their
// first occurrence, dangling and self parents produce no edge, and parent
// rings are broken before ranking. Identical input yields identical output.
func Build(g component.Graph, opts ...Option) Layout {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	comps, d := buildDAG(g)
	out := Layout{
		Nodes: make([]Node, 0, len(comps)),
		Edges: make([]Edge, 0, d.EdgeCount()),
	}
	if len(comps) == 0 {
		return out
	}

	out.CyclesBroken = transform.BreakCycles(d)
	transform.AssignLayers(d)

	orders := completeOrders(d, cfg.rowOrderer().OrderRows(d))
	centers := place(d, orders, cfg)

	unitY := cfg.nodeHeight + cfg.rankSep
	minLeft := math.Inf(1)
	for _, x := range centers {
		minLeft = min(minLeft, x-cfg.nodeWidth/2)
	}

	for i, c := range comps {
		n, _ := d.Node(nodeKey(i))
		left := centers[n.ID] - cfg.nodeWidth/2 - minLeft
		out.Nodes = append(out.Nodes, Node{
			ID:       c.ID,
			Name:     c.Name,
			Props:    props(c.Props),
			Rank:     n.Row,
			Position: Position{X: left, Y: float64(n.Row) * unitY},
			Width:    cfg.nodeWidth,
			Height:   cfg.nodeHeight,
		})
		out.Width = max(out.Width, left+cfg.nodeWidth)
	}

	for _, e := range d.Edges() {
		parent, child := comps[keyIndex(e.From)].ID, comps[keyIndex(e.To)].ID
		out.Edges = append(out.Edges, Edge{ID: EdgeID(parent, child), Source: parent, Target: child})
	}

	out.Ranks = d.RowCount()
	out.Height = float64(out.Ranks)*unitY - cfg.rankSep
	return out
}

// buildDAG returns the first occurrence of every component ID together with
// a DAG holding one node per kept component and one edge per resolvable
// parent relation, both in component order. DAG nodes are keyed by position
// so that any string, including "", works as a component ID.
func buildDAG(g component.Graph) ([]component.Node, *dag.DAG) {
	d := dag.New()
	index := make(map[string]int, len(g.Components))
	comps := make([]component.Node, 0, len(g.Components))
	for _, c := range g.Components {
		if _, dup := index[c.ID]; dup {
			continue
		}
		index[c.ID] = len(comps)
		_ = d.AddNode(dag.Node{ID: nodeKey(len(comps))})
		comps = append(comps, c)
	}

	for i, c := range comps {
		if c.ParentID == nil {
			continue
		}
		p, ok := index[*c.ParentID]
		if !ok || p == i {
			continue
		}
		_ = d.AddEdge(dag.Edge{From: nodeKey(p), To: nodeKey(i)})
	}
	return comps, d
}

// completeOrders makes orders a permutation of every row: unknown IDs are
// dropped and nodes the orderer left out are appended in insertion order.
func completeOrders(d *dag.DAG, orders map[int][]string) map[int][]string {
	out := make(map[int][]string, d.RowCount())
	for _, r := range d.RowIDs() {
		seen := make(map[string]bool)
		var row []string
		for _, id := range orders[r] {
			if n, ok := d.Node(id); ok && n.Row == r && !seen[id] {
				seen[id] = true
				row = append(row, id)
			}
		}
		for _, n := range d.NodesInRow(r) {
			if !seen[n.ID] {
				row = append(row, n.ID)
			}
		}
		out[r] = row
	}
	return out
}

func nodeKey(i int) string { return strconv.Itoa(i) }

func keyIndex(key string) int {
	i, _ := strconv.Atoi(key)
	return i
}

func props(p []component.Prop) []component.Prop {
	if p == nil {
		return []component.Prop{}
	}
	return p
}
