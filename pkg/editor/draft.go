package editor

import (
	"context"
	"slices"
	"strings"

	"github.com/matzehuels/compgraph/pkg/component"
)

// Draft is the state of the component form. Rows may be incomplete while
// the user is typing; only complete rows are committed.
type Draft struct {
	EditingID string  // component being edited, "" when adding
	Name      string
	ParentID  *string // nil for a root
	Rows      []component.Prop
}

// NewDraft returns an empty form with one blank prop row.
func NewDraft() Draft {
	return Draft{Rows: []component.Prop{{}}}
}

// EditDraft returns a form pre-filled from component id, or false when id
// is not in g. A component without props gets one blank row.
func EditDraft(g component.Graph, id string) (Draft, bool) {
	n, ok := component.Find(g, id)
	if !ok {
		return Draft{}, false
	}
	d := Draft{EditingID: n.ID, Name: n.Name, Rows: slices.Clone(n.Props)}
	if n.ParentID != nil {
		d.ParentID = component.Parent(*n.ParentID)
	}
	if len(d.Rows) == 0 {
		d.Rows = []component.Prop{{}}
	}
	return d, true
}

// Editing reports whether the draft edits an existing component.
func (d *Draft) Editing() bool { return d.EditingID != "" }

// AddRow appends a blank prop row.
func (d *Draft) AddRow() {
	d.Rows = slices.Concat(d.Rows, []component.Prop{{}})
}

// SetRow replaces row i. Out-of-range indexes are ignored.
func (d *Draft) SetRow(i int, p component.Prop) {
	if i < 0 || i >= len(d.Rows) {
		return
	}
	d.Rows = slices.Clone(d.Rows)
	d.Rows[i] = p
}

// RemoveRow drops row i. Out-of-range indexes are ignored.
func (d *Draft) RemoveRow(i int) {
	if i < 0 || i >= len(d.Rows) {
		return
	}
	d.Rows = slices.Delete(slices.Clone(d.Rows), i, i+1)
}

// Props returns the complete rows: those whose name and type both contain
// a non-space character. Values are kept as typed, untrimmed.
func (d *Draft) Props() []component.Prop {
	out := make([]component.Prop, 0, len(d.Rows))
	for _, p := range d.Rows {
		if blank(p.Name) || blank(p.Type) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Ready reports whether Submit would commit the draft.
func (d *Draft) Ready() bool { return !blank(d.Name) }

// Reset clears the form back to [NewDraft].
func (d *Draft) Reset() { *d = NewDraft() }

// Cancel abandons the draft. It is the same as Reset.
func (d *Draft) Cancel() { d.Reset() }

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// Submit commits d: a draft with a blank name is ignored; otherwise it adds
// a new component with a generated ID, or updates the component being
// edited. The form is reset after a commit. An edit that [Editor.Check]
// rejects leaves both the graph and the draft untouched. Submit returns the
// committed component and whether the graph changed.
func (e *Editor) Submit(ctx context.Context, d *Draft) (component.Node, bool) {
	if !d.Ready() {
		return component.Node{}, false
	}

	if d.Editing() {
		id := d.EditingID
		if err := e.Check(d); err != nil {
			e.logger.Debug("edit rejected", "id", id, "error", err)
			n, _ := component.Find(e.Graph(), id)
			return n, false
		}
		changed := e.Update(ctx, id, d.changes()...)
		d.Reset()
		n, _ := component.Find(e.Graph(), id)
		return n, changed
	}

	n := component.Node{Name: d.Name, Props: d.Props()}
	if d.ParentID != nil {
		n.ParentID = component.Parent(*d.ParentID)
	}
	n = e.Add(ctx, n)
	d.Reset()
	return n, true
}

func (d *Draft) changes() []component.Change {
	return []component.Change{
		component.SetName(d.Name),
		component.SetProps(d.Props()),
		component.SetParent(d.ParentID),
	}
}

// Check reports why submitting d would be ignored or rejected, or nil when
// it would be committed.
func (e *Editor) Check(d *Draft) error {
	g := e.Graph()
	if d.Editing() {
		return ValidateUpdate(g, d.EditingID, d.changes()...)
	}
	n := component.Node{Name: d.Name, Props: d.Props(), ParentID: d.ParentID}
	return ValidateNew(g, n)
}
