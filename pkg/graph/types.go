package graph

import (
	"slices"

	"github.com/matzehuels/compgraph/pkg/component"
)

// File formats understood by [ReadFile] and [WriteFile].
const (
	FormatJSON = "json"
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// Wire field names. Keys are matched case-sensitively.
const (
	keyComponents = "components"
	keyID         = "id"
	keyName       = "name"
	keyProps      = "props"
	keyParentID   = "parentId"
	keyType       = "type"
)

// Document is the serialization format of a component graph:
//
//	{"components":[{"id":"1","name":"App","props":[],"parentId":null}]}
//
// Field order is fixed, so marshalling the same graph always yields the same
// bytes.
type Document struct {
	Components []Component `json:"components" yaml:"components" toml:"components"`
}

// Component is the serialized form of [component.Node].
type Component struct {
	ID       string  `json:"id" yaml:"id" toml:"id"`
	Name     string  `json:"name" yaml:"name" toml:"name"`
	Props    []Prop  `json:"props" yaml:"props" toml:"props"`
	ParentID *string `json:"parentId" yaml:"parentId" toml:"parentId,omitempty"`
}

// Prop is the serialized form of [component.Prop].
type Prop struct {
	Name string `json:"name" yaml:"name" toml:"name"`
	Type string `json:"type" yaml:"type" toml:"type"`
}

// FromGraph converts a component graph to its serialization format.
// Slices are never nil, so JSON output uses [] rather than null.
func FromGraph(g component.Graph) Document {
	doc := Document{Components: make([]Component, len(g.Components))}
	for i, n := range g.Components {
		c := Component{
			ID:    n.ID,
			Name:  n.Name,
			Props: make([]Prop, len(n.Props)),
		}
		for j, p := range n.Props {
			c.Props[j] = Prop{Name: p.Name, Type: p.Type}
		}
		if n.ParentID != nil {
			c.ParentID = component.Parent(*n.ParentID)
		}
		doc.Components[i] = c
	}
	return doc
}

// Graph converts the document back to a component graph. No validation
// happens here; see [Unmarshal] and [component.Check].
func (d Document) Graph() component.Graph {
	if len(d.Components) == 0 {
		return component.Graph{}
	}
	g := component.Graph{Components: make([]component.Node, len(d.Components))}
	for i, c := range d.Components {
		n := component.Node{ID: c.ID, Name: c.Name}
		if len(c.Props) > 0 {
			n.Props = make([]component.Prop, len(c.Props))
			for j, p := range c.Props {
				n.Props[j] = component.Prop{Name: p.Name, Type: p.Type}
			}
		}
		if c.ParentID != nil {
			n.ParentID = component.Parent(*c.ParentID)
		}
		g.Components[i] = n
	}
	return g
}

// Formats returns the supported file formats.
func Formats() []string {
	return slices.Clone(formats)
}

var formats = []string{FormatJSON, FormatTOML, FormatYAML}
