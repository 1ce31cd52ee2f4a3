package component

import "slices"

// Prop is a named, typed property of a component. The type is free-form text
// such as "string" or "() => void" and is never parsed.
type Prop struct {
	Name string `json:"name" yaml:"name" toml:"name"`
	Type string `json:"type" yaml:"type" toml:"type"`
}

// Node is a component in the graph.
type Node struct {
	ID       string  // Unique, stable, opaque identifier
	Name     string  // Display name
	Props    []Prop  // Ordered prop definitions; duplicate names are allowed
	ParentID *string // ID of the parent node, nil for a root
}

// IsRoot reports whether the node has no parent.
func (n Node) IsRoot() bool { return n.ParentID == nil }

// Parent returns the parent ID, or "" for a root.
func (n Node) Parent() string {
	if n.ParentID == nil {
		return ""
	}
	return *n.ParentID
}

// HasParent reports whether the node's parent is id.
func (n Node) HasParent(id string) bool {
	return n.ParentID != nil && *n.ParentID == id
}

// Clone returns a deep copy of the node.
func (n Node) Clone() Node {
	n.Props = slices.Clone(n.Props)
	if n.ParentID != nil {
		n.ParentID = Parent(*n.ParentID)
	}
	return n
}

// Graph is the root aggregate: an ordered list of components.
// The zero value is the empty graph.
type Graph struct {
	Components []Node
}

// Len returns the number of components.
func (g Graph) Len() int { return len(g.Components) }

// IsEmpty reports whether the graph has no components.
func (g Graph) IsEmpty() bool { return len(g.Components) == 0 }

// IDs returns the component IDs in graph order.
func (g Graph) IDs() []string {
	ids := make([]string, len(g.Components))
	for i, n := range g.Components {
		ids[i] = n.ID
	}
	return ids
}

// Parent returns a pointer to a copy of id, for use as [Node.ParentID].
func Parent(id string) *string { return &id }

// Equal reports whether two graphs are structurally equal: same components
// in the same order, same props in the same order and same parents. Nil and
// empty slices are considered equal.
func Equal(a, b Graph) bool {
	return slices.EqualFunc(a.Components, b.Components, equalNode)
}

func equalNode(a, b Node) bool {
	if a.ID != b.ID || a.Name != b.Name || !slices.Equal(a.Props, b.Props) {
		return false
	}
	if (a.ParentID == nil) != (b.ParentID == nil) {
		return false
	}
	return a.ParentID == nil || *a.ParentID == *b.ParentID
}
