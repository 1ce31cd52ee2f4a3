// Package graph provides the serialization format of component graphs and
// layouts.
//
// # Wire Format
//
// A graph is serialized as a single JSON object:
//
//	{
//	  "components": [
//	    {"id": "1", "name": "App", "props": [], "parentId": null},
//	    {"id": "2", "name": "Button", "props": [{"name": "label", "type": "string"}], "parentId": "1"}
//	  ]
//	}
//
// [Marshal] produces the canonical compact form used by share tokens.
// [Unmarshal] is the strict inverse: every key is required and matched
// case-sensitively, unknown keys and type mismatches reject the whole
// document, and parentId is the only field that may be null.
//
// # Files
//
// [ReadFile] and [WriteFile] handle .json, .toml and .yaml files with the
// same document shape. Reading always validates integrity with
// [component.Check], so a graph loaded from disk has unique IDs, existing
// parents and no cycles.
//
//	g, err := graph.ReadFile("app.yaml")
//	err = graph.WriteFile("app.toml", g)
//
// # Request Bodies
//
// [DecodeNode], [DecodePatch] and [DecodeProp] parse the partial documents
// the HTTP API accepts, with the same key rules as [Unmarshal].
//
// # Layouts
//
// [MarshalLayout], [WriteLayoutFile] and [ReadLayoutFile] store the output
// of the layout engine as JSON.
package graph
