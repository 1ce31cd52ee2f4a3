package nodelink_test

import (
	"fmt"

	"github.com/matzehuels/compgraph/pkg/component"
	"github.com/matzehuels/compgraph/pkg/layout"
	"github.com/matzehuels/compgraph/pkg/render/nodelink"
)

func ExampleToDOT() {
	g := component.Graph{Components: []component.Node{
		{ID: "1", Name: "App"},
		{ID: "2", Name: "Header", ParentID: component.Parent("1"), Props: []component.Prop{{Name: "title", Type: "string"}}},
		{ID: "3", Name: "Footer", ParentID: component.Parent("1")},
	}}

	fmt.Print(nodelink.ToDOT(layout.Build(g), nodelink.Options{Detailed: true}))
	// Output:
	// digraph G {
	//   rankdir=TB;
	//   bgcolor="transparent";
	//   node [shape=box, style="rounded,filled", fillcolor=white, fontsize=14, margin="0.2,0.1"];
	//   ranksep=0.5;
	//   nodesep=0.3;
	//
	//   "1" [label="App", penwidth=2];
	//   "2" [label="Header\ntitle: string"];
	//   "3" [label="Footer"];
	//
	//   { rank=same; "1"; }
	//   { rank=same; "2"; "3"; }
	//
	//   "1" -> "2" [id="1-2"];
	//   "1" -> "3" [id="1-3"];
	// }
}
