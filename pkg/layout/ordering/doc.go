// Package ordering provides algorithms for determining the left-to-right
// arrangement of nodes within each row of a layered graph.
//
// # The Ordering Problem
//
// A component tree drawn top to bottom is easiest to read when no parent →
// child edge crosses another. For a forest a crossing-free order always
// exists; for graphs that were repaired from cyclic input the heuristic
// still settles quickly.
//
// # Barycentric Heuristic
//
// The [Barycentric] orderer implements the classic Sugiyama barycenter method
// with transpose refinement:
//
//  1. Start from insertion order in every row
//  2. Top-down: sort each row by the mean position of its parents
//  3. Bottom-up: sort each row by the mean position of its children
//  4. After each sweep, swap adjacent nodes while that removes crossings
//  5. Return the ordering with the fewest crossings
//
// # Usage
//
//	var orderer ordering.Orderer = ordering.Barycentric{Passes: 8}
//	orders := orderer.OrderRows(g) // map[row][]nodeID
package ordering
