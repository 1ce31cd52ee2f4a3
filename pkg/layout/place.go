package layout

import "github.com/matzehuels/compgraph/pkg/dag"

// place assigns the horizontal centre of every node. Rows keep the order
// chosen by the orderer and neighbouring centres are at least one unit
// (box width plus node gap) apart.
//
// Starting from evenly spaced rows, an up pass centres every parent over its
// children and a down pass fans children out symmetrically under their
// parent. Each row is then fitted to those targets. The rounds end with an
// up pass so parents sit centred over their children where space allows.
func place(d *dag.DAG, orders map[int][]string, cfg config) map[string]float64 {
	unit := cfg.nodeWidth + cfg.nodeSep
	rows := d.RowIDs()

	x := make(map[string]float64, d.NodeCount())
	for _, r := range rows {
		for i, id := range orders[r] {
			x[id] = float64(i) * unit
		}
	}

	up := func() {
		for i := len(rows) - 2; i >= 0; i-- {
			r := rows[i]
			row := orders[r]
			target := make([]float64, len(row))
			for j, id := range row {
				kids := d.ChildrenInRow(id, r+1)
				if len(kids) == 0 {
					target[j] = x[id]
					continue
				}
				sum := 0.0
				for _, k := range kids {
					sum += x[k]
				}
				target[j] = sum / float64(len(kids))
			}
			fitRow(row, target, unit, x)
		}
	}

	down := func() {
		for i := 1; i < len(rows); i++ {
			r := rows[i]
			row := orders[r]

			// Siblings in row order, grouped by their first parent above.
			siblings := make(map[string][]string)
			for _, id := range row {
				if ps := d.ParentsInRow(id, r-1); len(ps) > 0 {
					siblings[ps[0]] = append(siblings[ps[0]], id)
				}
			}

			target := make([]float64, len(row))
			for j, id := range row {
				ps := d.ParentsInRow(id, r-1)
				if len(ps) == 0 {
					target[j] = x[id]
					continue
				}
				group := siblings[ps[0]]
				k := 0
				for k < len(group) && group[k] != id {
					k++
				}
				offset := float64(k) - float64(len(group)-1)/2
				target[j] = x[ps[0]] + offset*unit
			}
			fitRow(row, target, unit, x)
		}
	}

	up()
	for range placementRounds {
		down()
		up()
	}
	return x
}

// fitRow sets x for the nodes of row to the positions closest to target (in
// the least-squares sense) that keep the row order with centres at least
// unit apart.
//
// Subtracting j*unit from the j-th target turns the spacing constraint into
// "non-decreasing", which the pool-adjacent-violators algorithm solves
// exactly.
func fitRow(row []string, target []float64, unit float64, x map[string]float64) {
	type pool struct {
		sum float64
		n   int
	}
	mean := func(p pool) float64 { return p.sum / float64(p.n) }

	pools := make([]pool, 0, len(row))
	for j, t := range target {
		pools = append(pools, pool{sum: t - float64(j)*unit, n: 1})
		for len(pools) > 1 {
			a, b := pools[len(pools)-2], pools[len(pools)-1]
			if mean(a) <= mean(b) {
				break
			}
			pools = append(pools[:len(pools)-2], pool{sum: a.sum + b.sum, n: a.n + b.n})
		}
	}

	j := 0
	for _, p := range pools {
		m := mean(p)
		for range p.n {
			x[row[j]] = m + float64(j)*unit
			j++
		}
	}
}
