package ordering_test

import (
	"fmt"

	"github.com/matzehuels/compgraph/pkg/dag"
	"github.com/matzehuels/compgraph/pkg/layout/ordering"
)

func ExampleBarycentric() {
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "app", Row: 0})
	_ = g.AddNode(dag.Node{ID: "nav", Row: 1})
	_ = g.AddNode(dag.Node{ID: "main", Row: 1})
	_ = g.AddNode(dag.Node{ID: "link", Row: 2})
	_ = g.AddEdge(dag.Edge{From: "app", To: "nav"})
	_ = g.AddEdge(dag.Edge{From: "app", To: "main"})
	_ = g.AddEdge(dag.Edge{From: "nav", To: "link"})

	orders := ordering.Barycentric{Passes: 4}.OrderRows(g)

	fmt.Println("Row count:", len(orders))
	fmt.Println("Row 1:", orders[1])
	// Output:
	// Row count: 3
	// Row 1: [nav main]
}

func ExampleBarycentric_crossingMinimization() {
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "a", Row: 0})
	_ = g.AddNode(dag.Node{ID: "b", Row: 0})
	_ = g.AddNode(dag.Node{ID: "x", Row: 1})
	_ = g.AddNode(dag.Node{ID: "y", Row: 1})

	// a→y and b→x cross in insertion order
	_ = g.AddEdge(dag.Edge{From: "a", To: "y"})
	_ = g.AddEdge(dag.Edge{From: "b", To: "x"})

	fmt.Println("Initial crossings:", dag.CountLayerCrossings(g, []string{"a", "b"}, []string{"x", "y"}))

	orders := ordering.Barycentric{}.OrderRows(g)
	fmt.Println("After ordering:", dag.CountLayerCrossings(g, orders[0], orders[1]))
	// Output:
	// Initial crossings: 1
	// After ordering: 0
}
