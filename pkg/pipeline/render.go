package pipeline

import (
	"context"

	"github.com/matzehuels/compgraph/pkg/graph"
	"github.com/matzehuels/compgraph/pkg/layout"
	"github.com/matzehuels/compgraph/pkg/render/nodelink"
)

// RenderFormat produces one artifact from a layout without caching.
func RenderFormat(ctx context.Context, l layout.Layout, format string, opts Options) ([]byte, error) {
	nl := nodelink.Options{Detailed: opts.Detailed}
	switch format {
	case FormatSVG:
		return nodelink.Render(ctx, l, nl)
	case FormatDOT:
		return []byte(nodelink.ToDOT(l, nl)), nil
	case FormatJSON:
		return graph.MarshalLayout(l)
	default:
		return nil, ValidateFormat(format)
	}
}
