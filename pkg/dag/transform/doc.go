// Package transform prepares a [dag.DAG] for layered placement.
//
// # Cycle Breaking
//
// [BreakCycles] removes DFS back edges. Component graphs built through the
// editor are always forests, but a hand-written share token can describe a
// parent ring; the layout engine breaks such rings here and reports how many
// relations it dropped.
//
// # Layer Assignment
//
// [AssignLayers] computes the row (rank) of every node as its longest
// distance from a source, so roots sit in row 0 and every child sits exactly
// one row below its parent.
//
// # Usage
//
//	transform.BreakCycles(g)
//	transform.AssignLayers(g)
//
// Both functions modify g in place.
//
// [dag.DAG]: github.com/matzehuels/compgraph/pkg/dag.DAG
package transform
