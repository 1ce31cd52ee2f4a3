package ordering

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/compgraph/pkg/dag"
)

// tree builds a DAG from child → parent pairs listed in insertion order,
// assigning rows by depth.
func tree(t *testing.T, ids []string, parent map[string]string) *dag.DAG {
	t.Helper()
	depth := func(id string) int {
		d := 0
		for p, ok := parent[id]; ok; p, ok = parent[p] {
			d++
		}
		return d
	}
	g := dag.New()
	for _, id := range ids {
		if err := g.AddNode(dag.Node{ID: id, Row: depth(id)}); err != nil {
			t.Fatal(err)
		}
	}
	for _, id := range ids {
		if p, ok := parent[id]; ok {
			if err := g.AddEdge(dag.Edge{From: p, To: id}); err != nil {
				t.Fatal(err)
			}
		}
	}
	return g
}

func TestBarycentricRemovesTreeCrossings(t *testing.T) {
	// Grandchildren inserted in an order that interleaves their parents.
	g := tree(t,
		[]string{"r", "a", "b", "b1", "a1", "b2", "a2"},
		map[string]string{"a": "r", "b": "r", "a1": "a", "a2": "a", "b1": "b", "b2": "b"},
	)

	orders := Barycentric{}.OrderRows(g)

	if c := dag.CountCrossings(g, orders); c != 0 {
		t.Errorf("CountCrossings() = %d, want 0 (orders = %v)", c, orders)
	}
	want := map[int][]string{
		0: {"r"},
		1: {"a", "b"},
		2: {"a1", "a2", "b1", "b2"},
	}
	if diff := cmp.Diff(want, orders); diff != "" {
		t.Errorf("orders mismatch (-want +got):\n%s", diff)
	}
}

func TestBarycentricKeepsSiblingOrder(t *testing.T) {
	g := tree(t,
		[]string{"root", "z", "y", "x"},
		map[string]string{"z": "root", "y": "root", "x": "root"},
	)

	orders := Barycentric{Passes: 3}.OrderRows(g)
	if diff := cmp.Diff([]string{"z", "y", "x"}, orders[1]); diff != "" {
		t.Errorf("row 1 mismatch (-want +got):\n%s", diff)
	}
}

func TestBarycentricDeterministic(t *testing.T) {
	build := func() *dag.DAG {
		return tree(t,
			[]string{"1", "2", "3", "4", "5", "6", "7", "8"},
			map[string]string{"2": "1", "3": "1", "4": "3", "5": "2", "6": "3", "7": "2", "8": "4"},
		)
	}
	first := Barycentric{}.OrderRows(build())
	for range 10 {
		if diff := cmp.Diff(first, Barycentric{}.OrderRows(build())); diff != "" {
			t.Fatalf("OrderRows not deterministic (-first +got):\n%s", diff)
		}
	}
}

func TestBarycentricEmpty(t *testing.T) {
	orders := Barycentric{}.OrderRows(dag.New())
	if len(orders) != 0 {
		t.Errorf("OrderRows(empty) = %v, want empty", orders)
	}
}
