package ordering

import (
	"cmp"
	"slices"

	"github.com/matzehuels/compgraph/pkg/dag"
)

// Orderer is an interface for horizontal row ordering algorithms.
// An orderer determines the horizontal sequence of nodes in each row
// to minimize edge crossings.
type Orderer interface {
	OrderRows(g *dag.DAG) map[int][]string
}

// DefaultPasses is the number of sweeps [Barycentric] runs when Passes is
// not set.
const DefaultPasses = 8

// Barycentric orders rows with the Sugiyama barycenter heuristic followed by
// adjacent-swap (transpose) refinement. Sweeps alternate between top-down,
// where a node's key is the mean position of its parents, and bottom-up,
// where it is the mean position of its children. The ordering with the
// fewest crossings seen so far is returned.
//
// Nodes without neighbours in the reference row keep their current
// position, and ties keep their current relative order, so siblings stay in
// insertion order unless moving them removes a crossing.
type Barycentric struct {
	Passes int // Number of sweeps; DefaultPasses when zero or negative
}

// OrderRows implements [Orderer].
func (b Barycentric) OrderRows(g *dag.DAG) map[int][]string {
	rows := g.RowIDs()
	orders := make(map[int][]string, len(rows))
	for _, r := range rows {
		orders[r] = dag.NodeIDs(g.NodesInRow(r))
	}
	if len(rows) < 2 {
		return orders
	}

	passes := b.Passes
	if passes <= 0 {
		passes = DefaultPasses
	}

	best := clone(orders)
	bestCrossings := dag.CountCrossings(g, orders)

	for pass := 0; pass < passes && bestCrossings > 0; pass++ {
		if pass%2 == 0 {
			for i := 1; i < len(rows); i++ {
				orders[rows[i]] = sortByBarycenter(orders[rows[i]], orders[rows[i-1]], g.Parents)
			}
		} else {
			for i := len(rows) - 2; i >= 0; i-- {
				orders[rows[i]] = sortByBarycenter(orders[rows[i]], orders[rows[i+1]], g.Children)
			}
		}
		transpose(g, rows, orders)

		if c := dag.CountCrossings(g, orders); c < bestCrossings {
			best, bestCrossings = clone(orders), c
		}
	}
	return best
}

// sortByBarycenter returns row sorted by the mean position of each node's
// neighbours in ref. The sort is stable.
func sortByBarycenter(row, ref []string, neighbours func(string) []string) []string {
	refPos := dag.PosMap(ref)
	keys := make(map[string]float64, len(row))
	for i, id := range row {
		sum, n := 0.0, 0
		for _, nb := range neighbours(id) {
			if p, ok := refPos[nb]; ok {
				sum += float64(p)
				n++
			}
		}
		if n == 0 {
			keys[id] = float64(i)
			continue
		}
		keys[id] = sum / float64(n)
	}

	out := slices.Clone(row)
	slices.SortStableFunc(out, func(a, b string) int { return cmp.Compare(keys[a], keys[b]) })
	return out
}

// transpose swaps neighbouring nodes while a swap strictly lowers the
// crossings with the rows directly above and below.
func transpose(g *dag.DAG, rows []int, orders map[int][]string) {
	for improved := true; improved; {
		improved = false
		for _, r := range rows {
			row := orders[r]
			above := dag.PosMap(orders[r-1])
			below := dag.PosMap(orders[r+1])
			for i := 0; i+1 < len(row); i++ {
				l, rt := row[i], row[i+1]
				before := dag.CountPairCrossingsWithPos(g, l, rt, above, true) +
					dag.CountPairCrossingsWithPos(g, l, rt, below, false)
				after := dag.CountPairCrossingsWithPos(g, rt, l, above, true) +
					dag.CountPairCrossingsWithPos(g, rt, l, below, false)
				if after < before {
					row[i], row[i+1] = rt, l
					improved = true
				}
			}
		}
	}
}

func clone(orders map[int][]string) map[int][]string {
	out := make(map[int][]string, len(orders))
	for r, ids := range orders {
		out[r] = slices.Clone(ids)
	}
	return out
}
