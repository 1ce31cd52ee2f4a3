package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/matzehuels/compgraph/pkg/component"
	"github.com/matzehuels/compgraph/pkg/errors"
)

// Marshal returns the canonical compact JSON form of g. It is the text the
// share codec compresses, so equal graphs always marshal to equal bytes.
func Marshal(g component.Graph) []byte {
	data, err := json.Marshal(FromGraph(g))
	if err != nil {
		// Only strings and slices of structs are encoded; this cannot fail.
		panic(fmt.Sprintf("graph: marshal: %v", err))
	}
	return data
}

// MarshalIndent is like [Marshal] but indented for files and terminals.
func MarshalIndent(g component.Graph) []byte {
	data, err := json.MarshalIndent(FromGraph(g), "", "  ")
	if err != nil {
		panic(fmt.Sprintf("graph: marshal: %v", err))
	}
	return data
}

// Unmarshal parses and validates a JSON document against the wire format.
//
// Validation is strict: the root must be an object whose only key is
// "components"; every component must have exactly the keys id, name, props
// and parentId, and every prop exactly name and type. Keys are
// case-sensitive, strings must be strings (null is rejected), parentId may be
// a string or null, and nothing may follow the document. Any violation
// returns an INVALID_FORMAT error and no graph.
//
// Unmarshal does not check references between components; use
// [component.Check] for that.
func Unmarshal(data []byte) (component.Graph, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	var root json.RawMessage
	if err := dec.Decode(&root); err != nil {
		return component.Graph{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse document")
	}
	if _, err := dec.Token(); err != io.EOF {
		return component.Graph{}, errors.New(errors.ErrCodeInvalidFormat, "unexpected data after document")
	}

	doc, err := object(root, "document", keyComponents)
	if err != nil {
		return component.Graph{}, err
	}
	items, err := array(doc[keyComponents], keyComponents)
	if err != nil {
		return component.Graph{}, err
	}

	var g component.Graph
	if len(items) > 0 {
		g.Components = make([]component.Node, len(items))
	}
	for i, raw := range items {
		n, err := decodeComponent(raw, fmt.Sprintf("components[%d]", i))
		if err != nil {
			return component.Graph{}, err
		}
		g.Components[i] = n
	}
	return g, nil
}

func decodeComponent(raw json.RawMessage, where string) (component.Node, error) {
	fields, err := object(raw, where, keyID, keyName, keyProps, keyParentID)
	if err != nil {
		return component.Node{}, err
	}

	var n component.Node
	if n.ID, err = str(fields[keyID], where+".id"); err != nil {
		return component.Node{}, err
	}
	if n.Name, err = str(fields[keyName], where+".name"); err != nil {
		return component.Node{}, err
	}
	if n.ParentID, err = nullableStr(fields[keyParentID], where+".parentId"); err != nil {
		return component.Node{}, err
	}

	props, err := array(fields[keyProps], where+".props")
	if err != nil {
		return component.Node{}, err
	}
	if len(props) > 0 {
		n.Props = make([]component.Prop, len(props))
	}
	for j, rawProp := range props {
		at := fmt.Sprintf("%s.props[%d]", where, j)
		pf, err := object(rawProp, at, keyName, keyType)
		if err != nil {
			return component.Node{}, err
		}
		if n.Props[j].Name, err = str(pf[keyName], at+".name"); err != nil {
			return component.Node{}, err
		}
		if n.Props[j].Type, err = str(pf[keyType], at+".type"); err != nil {
			return component.Node{}, err
		}
	}
	return n, nil
}

// object decodes raw as a JSON object whose key set is exactly keys.
func object(raw json.RawMessage, where string, keys ...string) (map[string]json.RawMessage, error) {
	if kind(raw) != '{' {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "%s: expected object", where)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "%s", where)
	}
	for _, k := range keys {
		if _, ok := fields[k]; !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "%s: missing field %q", where, k)
		}
	}
	if len(fields) != len(keys) {
		for k := range fields {
			if !slices.Contains(keys, k) {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "%s: unknown field %q", where, k)
			}
		}
	}
	return fields, nil
}

func array(raw json.RawMessage, where string) ([]json.RawMessage, error) {
	if kind(raw) != '[' {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "%s: expected array", where)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "%s", where)
	}
	return items, nil
}

func str(raw json.RawMessage, where string) (string, error) {
	if kind(raw) != '"' {
		return "", errors.New(errors.ErrCodeInvalidFormat, "%s: expected string", where)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidFormat, err, "%s", where)
	}
	return s, nil
}

func nullableStr(raw json.RawMessage, where string) (*string, error) {
	if kind(raw) == 'n' {
		if string(bytes.TrimSpace(raw)) != "null" {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "%s: expected string or null", where)
		}
		return nil, nil
	}
	s, err := str(raw, where)
	if err != nil {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "%s: expected string or null", where)
	}
	return &s, nil
}

// kind returns the first significant byte of a JSON value.
func kind(raw json.RawMessage) byte {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}
