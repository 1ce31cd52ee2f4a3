// Package pkg provides the core libraries for compgraph, an editor for UI
// component hierarchies.
//
// # Overview
//
// A component graph is a list of components, each with an ID, a display
// name, ordered prop definitions and an optional parent. The graph is a
// plain value: every edit returns a new graph, so a graph can be shared
// between goroutines, cached by content and restored from a URL token
// without any server-side state.
//
// The pkg directory is organized by concern:
//
//  1. [component] - the graph model and its pure edit operations
//  2. [codec] - URL-safe share tokens (compressed JSON in base64url)
//  3. [layout] - layered layout for drawing the hierarchy
//  4. [editor] - a concurrency-safe editing session with draft forms
//  5. [pipeline] - layout and rendering behind a cache
//  6. [graph] - file formats for graphs and layouts
//
// # Architecture
//
//	share URL / token / graph file
//	         ↓
//	    [codec] or [graph] (decode)
//	         ↓
//	    [component] (add, update, delete, props)
//	         ↓
//	    [layout] (ranks, crossing reduction, coordinates)
//	         ↓
//	    [render/nodelink] (DOT and SVG)
//
// # Quick Start
//
// Open a shared graph, edit it and share the result:
//
//	token, _ := codec.TokenFromURL(link)
//	ed := editor.Open(ctx, token)
//	hdr := ed.Add(ctx, component.Node{Name: "Header"})
//	ed.AddProp(ctx, hdr.ID, component.Prop{Name: "title", Type: "string"})
//	url, err := ed.ShareURL(ctx)
//
// Render it through the cache:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, err := runner.Execute(ctx, ed.Graph(), pipeline.DefaultOptions())
//	svg := result.Artifacts[pipeline.FormatSVG]
//
// # Supporting Packages
//
// [dag] and [dag/transform] hold the layered DAG the layout works on and the
// cycle breaking and rank assignment steps. [layout/ordering] reduces edge
// crossings between ranks. [cache] stores layouts and renders in files or
// Redis. [errors] carries the coded errors every package returns.
// [observability] exposes hooks that the HTTP server turns into Prometheus
// metrics.
//
// [component]: https://pkg.go.dev/github.com/matzehuels/compgraph/pkg/component
// [codec]: https://pkg.go.dev/github.com/matzehuels/compgraph/pkg/codec
// [layout]: https://pkg.go.dev/github.com/matzehuels/compgraph/pkg/layout
// [layout/ordering]: https://pkg.go.dev/github.com/matzehuels/compgraph/pkg/layout/ordering
// [editor]: https://pkg.go.dev/github.com/matzehuels/compgraph/pkg/editor
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/compgraph/pkg/pipeline
// [graph]: https://pkg.go.dev/github.com/matzehuels/compgraph/pkg/graph
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/compgraph/pkg/render/nodelink
// [dag]: https://pkg.go.dev/github.com/matzehuels/compgraph/pkg/dag
// [dag/transform]: https://pkg.go.dev/github.com/matzehuels/compgraph/pkg/dag/transform
// [cache]: https://pkg.go.dev/github.com/matzehuels/compgraph/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/compgraph/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/compgraph/pkg/observability
package pkg
