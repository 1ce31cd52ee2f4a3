package component

import "slices"

// Change edits one field of a node inside [Update]. Changes receive a
// private copy of the node; the ID is restored after all changes ran.
type Change func(n *Node)

// SetName replaces the component name.
func SetName(name string) Change {
	return func(n *Node) { n.Name = name }
}

// SetProps replaces the whole prop list. The slice is copied.
func SetProps(props []Prop) Change {
	props = slices.Clone(props)
	return func(n *Node) { n.Props = props }
}

// SetParent moves the component under parent, or to the root when parent is
// nil. The pointer is copied.
func SetParent(parent *string) Change {
	if parent != nil {
		parent = Parent(*parent)
	}
	return func(n *Node) { n.ParentID = parent }
}

// Add returns g with node appended as the last component.
//
// The caller guarantees that node.ID is not used yet and that node.ParentID,
// when set, names an existing component. Neither is checked here.
func Add(g Graph, node Node) Graph {
	return Graph{Components: slices.Concat(g.Components, []Node{node.Clone()})}
}

// Update returns g with changes applied to the component id.
//
// The ID itself cannot be changed. Update is a no-op when id is unknown, and
// also when the changes move the component under itself, under one of its
// descendants or under a parent that does not exist.
func Update(g Graph, id string, changes ...Change) Graph {
	i := indexOf(g, id)
	if i < 0 {
		return g
	}

	old := g.Components[i]
	n := old
	for _, change := range changes {
		change(&n)
	}
	n.ID = old.ID

	if n.ParentID != nil && !old.HasParent(*n.ParentID) && !canAttach(g, id, *n.ParentID) {
		return g
	}

	out := slices.Clone(g.Components)
	out[i] = n
	return Graph{Components: out}
}

// canAttach reports whether id may be moved under parent without creating a
// cycle or a dangling reference.
func canAttach(g Graph, id, parent string) bool {
	if parent == id || indexOf(g, parent) < 0 {
		return false
	}
	return !IsDescendant(g, id, parent)
}

// Delete returns g without the component id. Every remaining component whose
// parent was id becomes a root; the deletion never cascades.
func Delete(g Graph, id string) Graph {
	touched := false
	out := make([]Node, 0, len(g.Components))
	for _, n := range g.Components {
		switch {
		case n.ID == id:
			touched = true
		case n.HasParent(id):
			n.ParentID = nil
			out = append(out, n)
			touched = true
		default:
			out = append(out, n)
		}
	}
	if !touched {
		return g
	}
	return Graph{Components: out}
}

// AddProp returns g with prop appended to the props of component id.
func AddProp(g Graph, id string, prop Prop) Graph {
	return mapNode(g, id, func(n Node) Node {
		n.Props = slices.Concat(n.Props, []Prop{prop})
		return n
	})
}

// RemoveProp returns g with every prop named name removed from component id.
// Removal is by name, so all duplicates go at once.
func RemoveProp(g Graph, id, name string) Graph {
	return mapNode(g, id, func(n Node) Node {
		kept := make([]Prop, 0, len(n.Props))
		for _, p := range n.Props {
			if p.Name != name {
				kept = append(kept, p)
			}
		}
		n.Props = kept
		return n
	})
}

// mapNode replaces component id with fn(component). Unknown ids return g.
func mapNode(g Graph, id string, fn func(Node) Node) Graph {
	i := indexOf(g, id)
	if i < 0 {
		return g
	}
	out := slices.Clone(g.Components)
	out[i] = fn(out[i])
	return Graph{Components: out}
}

func indexOf(g Graph, id string) int {
	return slices.IndexFunc(g.Components, func(n Node) bool { return n.ID == id })
}
