package component

import (
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/matzehuels/compgraph/pkg/errors"
)

// Check verifies the structural invariants of g: all text is valid UTF-8,
// IDs are unique, every parent exists and no node is its own ancestor. The
// first violation found is returned as a coded error (INVALID_FORMAT,
// DUPLICATE_ID, DANGLING_PARENT or CYCLE).
//
// Share tokens and files are JSON, which cannot carry invalid UTF-8, so only
// graphs that pass the check survive a round trip unchanged.
//
// Graphs built only through the operations in this package never fail the
// check; it exists for graphs read from files or hand-written tokens.
func Check(g Graph) error {
	index := make(map[string]int64, len(g.Components))
	for i, n := range g.Components {
		if err := checkText(n); err != nil {
			return err
		}
		if _, dup := index[n.ID]; dup {
			return errors.New(errors.ErrCodeDuplicateID, "component id %q is used more than once", n.ID)
		}
		index[n.ID] = int64(i)
	}

	dg := simple.NewDirectedGraph()
	for i := range g.Components {
		dg.AddNode(simple.Node(int64(i)))
	}
	for i, n := range g.Components {
		if n.ParentID == nil {
			continue
		}
		p, ok := index[*n.ParentID]
		if !ok {
			return errors.New(errors.ErrCodeDanglingParent, "component %q references missing parent %q", n.ID, *n.ParentID)
		}
		if p == int64(i) {
			return errors.New(errors.ErrCodeCycle, "component %q is its own parent", n.ID)
		}
		dg.SetEdge(simple.Edge{F: simple.Node(p), T: simple.Node(int64(i))})
	}

	// Report the cycle that starts earliest in graph order so the message
	// does not depend on map iteration inside the SCC search.
	var first []int
	for _, scc := range topo.TarjanSCC(dg) {
		if len(scc) < 2 {
			continue
		}
		pos := make([]int, len(scc))
		for j, node := range scc {
			pos[j] = int(node.ID())
		}
		slices.Sort(pos)
		if first == nil || pos[0] < first[0] {
			first = pos
		}
	}
	if first != nil {
		ids := make([]string, len(first))
		for j, p := range first {
			ids[j] = g.Components[p].ID
		}
		return errors.New(errors.ErrCodeCycle, "parent cycle through %s", strings.Join(ids, ", "))
	}
	return nil
}

func checkText(n Node) error {
	if !utf8.ValidString(n.ID) {
		return errors.New(errors.ErrCodeInvalidFormat, "component id %q is not valid UTF-8", n.ID)
	}
	bad := func(field string) error {
		return errors.New(errors.ErrCodeInvalidFormat, "component %q: %s is not valid UTF-8", n.ID, field)
	}
	if !utf8.ValidString(n.Name) {
		return bad("name")
	}
	if n.ParentID != nil && !utf8.ValidString(*n.ParentID) {
		return bad("parent id")
	}
	for _, p := range n.Props {
		if !utf8.ValidString(p.Name) || !utf8.ValidString(p.Type) {
			return bad("prop " + strconv.Quote(p.Name))
		}
	}
	return nil
}
