// Package component provides the component graph data model and the pure
// operations that transform it.
//
// # Overview
//
// A [Graph] is an ordered list of [Node] values. Each node is a named UI
// component with an ordered list of typed [Prop] definitions and an optional
// parent. The parent is a weak reference: [Node.ParentID] holds the ID of
// another node in the same graph (or nil for a root), never a pointer. This
// keeps graphs plain values that can be copied, compared and serialized
// without ownership cycles.
//
// # Operations
//
// Every operation takes a graph and returns a new graph; the input is never
// modified. Untouched nodes and prop slices are shared between the old and
// the new value, so callers must treat graphs as read-only:
//
//	g := component.Graph{}
//	g = component.Add(g, component.Node{ID: "1", Name: "App"})
//	g = component.Add(g, component.Node{ID: "2", Name: "Button", ParentID: component.Parent("1")})
//	g = component.AddProp(g, "2", component.Prop{Name: "onClick", Type: "() => void"})
//	g = component.Delete(g, "1") // Button becomes a root
//
// Operations are total. Targeting an unknown ID is a silent no-op, and
// [Delete] repairs parent references in the same step so no dangling parent
// survives a deletion. Deletion never cascades: former children move to the
// root.
//
// [Add] trusts its caller to supply a fresh ID and an existing parent. [Update]
// refuses a re-parenting that would make a node its own ancestor or point at
// a missing parent; the whole update is dropped in that case.
//
// # Integrity
//
// [Check] verifies the structural invariants (unique IDs, existing parents,
// no cycles) for graphs that come from outside, such as hand-written files.
// The mutation operations never call it.
//
// # Concurrency
//
// All functions are pure and safe for concurrent use on shared graphs, as
// long as nobody mutates a graph value in place.
package component
