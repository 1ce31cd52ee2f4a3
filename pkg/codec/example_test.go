package codec_test

import (
	"fmt"

	"github.com/matzehuels/compgraph/pkg/codec"
	"github.com/matzehuels/compgraph/pkg/component"
)

func Example() {
	g := component.Graph{Components: []component.Node{
		{ID: "1", Name: "App"},
		{ID: "2", Name: "Button", ParentID: component.Parent("1")},
	}}

	token := codec.Encode(g)
	restored, ok := codec.Decode(token)
	fmt.Println(ok, component.Equal(g, restored))

	_, ok = codec.Decode("invalid-data")
	fmt.Println(ok)
	// Output:
	// true true
	// false
}

func ExampleFromURL() {
	g := component.Graph{Components: []component.Node{{ID: "1", Name: "App"}}}

	link, _ := codec.ShareURL("https://example.com/", g)
	fmt.Println(codec.FromURL(link).Components[0].Name)
	fmt.Println(codec.FromURL("https://example.com/?data=broken").IsEmpty())
	// Output:
	// App
	// true
}
