// Package dag provides a directed graph organised into rows, the working
// structure of the layered component layout.
//
// # Overview
//
// The layout engine turns a component graph into a [DAG] with one node per
// component and one edge per parent → child relation. Rows (ranks) are then
// assigned by the [transform] subpackage and ordered left to right by the
// layout's orderer, which uses the crossing counters in this package to
// compare candidate orderings.
//
// # Basic Usage
//
//	g := dag.New()
//	g.AddNode(dag.Node{ID: "app", Row: 0})
//	g.AddNode(dag.Node{ID: "header", Row: 1})
//	g.AddEdge(dag.Edge{From: "app", To: "header"})
//
// Query the structure with [DAG.Children], [DAG.Parents], [DAG.NodesInRow]
// and related methods. Use [DAG.Validate] to verify that every edge connects
// consecutive rows and that no cycle exists.
//
// # Determinism
//
// Unlike a plain map-backed graph, every method that returns a set of nodes
// returns it in insertion order. Layouts built on top of a DAG are therefore
// a pure function of the order in which nodes and edges were added.
//
// # Edge Crossings
//
// [CountCrossings] and [CountLayerCrossings] count crossings with a Fenwick
// tree in O(E log V). [CountPairCrossings] counts the crossings contributed
// by two neighbouring nodes, which is what adjacent-swap refinement needs.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use. Counting crossings on a
// graph that nobody modifies can run in parallel.
//
// [transform]: github.com/matzehuels/compgraph/pkg/dag/transform
package dag
