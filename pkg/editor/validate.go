package editor

import (
	"slices"

	"github.com/matzehuels/compgraph/pkg/component"
	"github.com/matzehuels/compgraph/pkg/errors"
)

// ValidateNew reports why n cannot be added to g. An empty ID is fine; Add
// generates one.
func ValidateNew(g component.Graph, n component.Node) error {
	if err := errors.ValidateName(n.Name); err != nil {
		return err
	}
	if n.ID != "" {
		if err := errors.ValidateID(n.ID); err != nil {
			return err
		}
		if _, ok := component.Find(g, n.ID); ok {
			return errors.New(errors.ErrCodeDuplicateID, "component %q already exists", n.ID)
		}
	}
	if n.ParentID != nil {
		if _, ok := component.Find(g, *n.ParentID); !ok {
			return errors.New(errors.ErrCodeDanglingParent, "parent %q does not exist", *n.ParentID)
		}
	}
	return validateProps(n.Props)
}

// ValidateUpdate reports why applying changes to component id would be
// rejected. Update itself ignores such edits without saying why.
//
// Only the fields the changes touch are judged, so a component restored
// from an odd token stays editable.
func ValidateUpdate(g component.Graph, id string, changes ...component.Change) error {
	before, ok := component.Find(g, id)
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "component %q not found", id)
	}
	after := before.Clone()
	for _, change := range changes {
		change(&after)
	}

	if after.Name != before.Name {
		if err := errors.ValidateName(after.Name); err != nil {
			return err
		}
	}
	if !slices.Equal(after.Props, before.Props) {
		if err := validateProps(after.Props); err != nil {
			return err
		}
	}
	if after.ParentID == nil || before.HasParent(*after.ParentID) {
		return nil
	}
	parent := *after.ParentID
	if _, ok := component.Find(g, parent); !ok {
		return errors.New(errors.ErrCodeDanglingParent, "parent %q does not exist", parent)
	}
	if parent == id || component.IsDescendant(g, id, parent) {
		return errors.New(errors.ErrCodeCycle, "cannot move %q under %q: it would become its own ancestor", id, parent)
	}
	return nil
}

func validateProps(props []component.Prop) error {
	for _, p := range props {
		if err := errors.ValidateProp(p.Name, p.Type); err != nil {
			return err
		}
	}
	return nil
}
