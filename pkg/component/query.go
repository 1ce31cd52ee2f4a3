package component

// Find returns the component with the given ID.
func Find(g Graph, id string) (Node, bool) {
	if i := indexOf(g, id); i >= 0 {
		return g.Components[i], true
	}
	return Node{}, false
}

// Children returns the direct children of id in graph order.
func Children(g Graph, id string) []Node {
	var out []Node
	for _, n := range g.Components {
		if n.HasParent(id) {
			out = append(out, n)
		}
	}
	return out
}

// Roots returns the components without a parent, in graph order.
func Roots(g Graph) []Node {
	var out []Node
	for _, n := range g.Components {
		if n.IsRoot() {
			out = append(out, n)
		}
	}
	return out
}

// Ancestors returns the parent chain of id, nearest first. The walk stops at
// a root, at a dangling parent, or when it would revisit a node, so it
// terminates on cyclic input too.
func Ancestors(g Graph, id string) []string {
	byID := make(map[string]Node, len(g.Components))
	for _, n := range g.Components {
		if _, dup := byID[n.ID]; !dup {
			byID[n.ID] = n
		}
	}

	var chain []string
	seen := map[string]bool{id: true}
	cur, ok := byID[id]
	for ok && cur.ParentID != nil {
		parent := *cur.ParentID
		if seen[parent] {
			break
		}
		seen[parent] = true
		chain = append(chain, parent)
		cur, ok = byID[parent]
	}
	return chain
}

// IsDescendant reports whether candidate sits somewhere below id.
func IsDescendant(g Graph, id, candidate string) bool {
	for _, a := range Ancestors(g, candidate) {
		if a == id {
			return true
		}
	}
	return false
}

// Descendants returns every component below id, breadth first.
func Descendants(g Graph, id string) []Node {
	var out []Node
	seen := map[string]bool{id: true}
	queue := []string{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, child := range Children(g, cur) {
			if seen[child.ID] {
				continue
			}
			seen[child.ID] = true
			out = append(out, child)
			queue = append(queue, child.ID)
		}
	}
	return out
}
