package graph

import (
	"encoding/json"
	"slices"

	"github.com/matzehuels/compgraph/pkg/component"
	"github.com/matzehuels/compgraph/pkg/errors"
)

// DecodeNode parses the body of a create request:
//
//	{"name": "Button", "props": [{"name": "label", "type": "string"}], "parentId": "1"}
//
// name is required; props, parentId and id are optional. The returned node
// has an empty ID unless the body supplies one.
func DecodeNode(data []byte) (component.Node, error) {
	fields, err := optionalObject(data, "body", keyID, keyName, keyProps, keyParentID)
	if err != nil {
		return component.Node{}, err
	}

	var n component.Node
	raw, ok := fields[keyName]
	if !ok {
		return component.Node{}, errors.New(errors.ErrCodeInvalidFormat, "body: missing field %q", keyName)
	}
	if n.Name, err = str(raw, "body.name"); err != nil {
		return component.Node{}, err
	}
	if raw, ok := fields[keyID]; ok {
		if n.ID, err = str(raw, "body.id"); err != nil {
			return component.Node{}, err
		}
	}
	if raw, ok := fields[keyProps]; ok {
		if n.Props, err = decodeProps(raw, "body.props"); err != nil {
			return component.Node{}, err
		}
	}
	if raw, ok := fields[keyParentID]; ok {
		if n.ParentID, err = nullableStr(raw, "body.parentId"); err != nil {
			return component.Node{}, err
		}
	}
	return n, nil
}

// DecodePatch parses the body of an update request into changes for
// [component.Update]. Every key is optional; an absent key leaves the field
// alone, while "parentId": null moves the component to the root.
func DecodePatch(data []byte) ([]component.Change, error) {
	fields, err := optionalObject(data, "body", keyName, keyProps, keyParentID)
	if err != nil {
		return nil, err
	}

	var changes []component.Change
	if raw, ok := fields[keyName]; ok {
		name, err := str(raw, "body.name")
		if err != nil {
			return nil, err
		}
		changes = append(changes, component.SetName(name))
	}
	if raw, ok := fields[keyProps]; ok {
		props, err := decodeProps(raw, "body.props")
		if err != nil {
			return nil, err
		}
		changes = append(changes, component.SetProps(props))
	}
	if raw, ok := fields[keyParentID]; ok {
		parent, err := nullableStr(raw, "body.parentId")
		if err != nil {
			return nil, err
		}
		changes = append(changes, component.SetParent(parent))
	}
	return changes, nil
}

// DecodeProp parses {"name": "...", "type": "..."}.
func DecodeProp(data []byte) (component.Prop, error) {
	fields, err := object(json.RawMessage(data), "body", keyName, keyType)
	if err != nil {
		return component.Prop{}, err
	}
	var p component.Prop
	if p.Name, err = str(fields[keyName], "body.name"); err != nil {
		return component.Prop{}, err
	}
	if p.Type, err = str(fields[keyType], "body.type"); err != nil {
		return component.Prop{}, err
	}
	return p, nil
}

func decodeProps(raw json.RawMessage, where string) ([]component.Prop, error) {
	items, err := array(raw, where)
	if err != nil {
		return nil, err
	}
	props := make([]component.Prop, len(items))
	for i, item := range items {
		p, err := DecodeProp(item)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "%s[%d]", where, i)
		}
		props[i] = p
	}
	return props, nil
}

// optionalObject decodes data as an object whose keys are a subset of keys.
func optionalObject(data []byte, where string, keys ...string) (map[string]json.RawMessage, error) {
	raw := json.RawMessage(data)
	if kind(raw) != '{' {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "%s: expected object", where)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "%s", where)
	}
	for k := range fields {
		if !slices.Contains(keys, k) {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "%s: unknown field %q", where, k)
		}
	}
	return fields, nil
}
