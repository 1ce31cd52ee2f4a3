package transform

import "github.com/matzehuels/compgraph/pkg/dag"

// BreakCycles removes the edges that close a cycle and returns how many it
// removed. Nodes are explored depth first, from the sources in insertion
// order and then from whatever is left, and an edge back to a node still on
// the current path is dropped. The same graph therefore always loses the
// same edges.
//
// A component has at most one parent, so every cycle in a component graph
// is a simple ring that loses exactly one edge.
func BreakCycles(g *dag.DAG) int {
	type frame struct {
		id   string
		next int // index of the next child to visit
	}

	onPath := make(map[string]bool)
	done := make(map[string]bool)
	var closing []dag.Edge

	visit := func(start string) {
		stack := []frame{{id: start}}
		onPath[start] = true
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			children := g.Children(top.id)
			if top.next == len(children) {
				onPath[top.id] = false
				done[top.id] = true
				stack = stack[:len(stack)-1]
				continue
			}
			child := children[top.next]
			top.next++
			switch {
			case onPath[child]:
				closing = append(closing, dag.Edge{From: top.id, To: child})
			case !done[child]:
				onPath[child] = true
				stack = append(stack, frame{id: child})
			}
		}
	}

	for _, n := range g.Sources() {
		if !done[n.ID] {
			visit(n.ID)
		}
	}
	for _, n := range g.Nodes() {
		if !done[n.ID] {
			visit(n.ID)
		}
	}

	for _, e := range closing {
		g.RemoveEdge(e.From, e.To)
	}
	return len(closing)
}
