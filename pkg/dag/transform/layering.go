package transform

import "github.com/matzehuels/compgraph/pkg/dag"

// AssignLayers sets the row of every node to the length of the longest path
// reaching it from a source: sources sit in row 0 and every node sits at
// least one row below each of its parents. In a component tree that is
// simply the distance from the root. Existing rows are overwritten.
//
// The graph must be acyclic; run [BreakCycles] first. An edge that closes
// a cycle is ignored.
func AssignLayers(g *dag.DAG) {
	type frame struct {
		id   string
		next int // index of the next parent to resolve
		row  int
	}

	nodes := g.Nodes()
	rows := make(map[string]int, len(nodes))
	onPath := make(map[string]bool)

	for _, n := range nodes {
		if _, ok := rows[n.ID]; ok {
			continue
		}
		// Walk up through unresolved parents and resolve on the way back.
		stack := []frame{{id: n.ID}}
		onPath[n.ID] = true
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			parents := g.Parents(top.id)
			if top.next == len(parents) {
				rows[top.id] = top.row
				onPath[top.id] = false
				stack = stack[:len(stack)-1]
				continue
			}
			p := parents[top.next]
			if pr, ok := rows[p]; ok {
				top.row = max(top.row, pr+1)
				top.next++
				continue
			}
			if onPath[p] {
				top.next++
				continue
			}
			onPath[p] = true
			stack = append(stack, frame{id: p})
		}
	}
	g.SetRows(rows)
}
