package nodelink

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/compgraph/pkg/layout"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed lists each prop as "name: type" under the component name.
	// When false, only the name is shown.
	Detailed bool
}

// ToDOT converts a layout to Graphviz DOT. Nodes that share a rank in the
// layout are pinned to the same Graphviz rank, so the rendered diagram keeps
// the layout's top-to-bottom structure. Within a rank, nodes are emitted
// left to right.
func ToDOT(l layout.Layout, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range l.Nodes {
		fmt.Fprintf(&buf, "  %s [%s];\n", quote(n.ID), strings.Join(fmtAttrs(n, fmtLabel(n, opts.Detailed)), ", "))
	}

	if l.Ranks > 1 {
		buf.WriteString("\n")
		for _, rank := range ranks(l) {
			ids := make([]string, len(rank))
			for i, n := range rank {
				ids[i] = quote(n.ID)
			}
			fmt.Fprintf(&buf, "  { rank=same; %s; }\n", strings.Join(ids, "; "))
		}
	}

	buf.WriteString("\n")
	for _, e := range l.Edges {
		fmt.Fprintf(&buf, "  %s -> %s [id=%s];\n", quote(e.Source), quote(e.Target), quote(e.ID))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// ranks groups nodes by rank, each group sorted by X.
func ranks(l layout.Layout) [][]layout.Node {
	out := make([][]layout.Node, l.Ranks)
	for _, n := range l.Nodes {
		if n.Rank >= 0 && n.Rank < len(out) {
			out[n.Rank] = append(out[n.Rank], n)
		}
	}
	for _, rank := range out {
		slices.SortStableFunc(rank, func(a, b layout.Node) int {
			return cmp.Compare(a.Position.X, b.Position.X)
		})
	}
	return out
}

func fmtLabel(n layout.Node, detailed bool) string {
	name := n.Name
	if name == "" {
		name = n.ID
	}
	if !detailed || len(n.Props) == 0 {
		return name
	}

	parts := make([]string, 0, len(n.Props)+1)
	parts = append(parts, name)
	for _, p := range n.Props {
		parts = append(parts, p.Name+": "+p.Type)
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(n layout.Node, label string) []string {
	attrs := []string{"label=" + quote(label)}
	if n.Rank == 0 {
		attrs = append(attrs, "penwidth=2")
	}
	return attrs
}

// quote renders s as a DOT double-quoted string. Unlike Go's %q it leaves
// non-ASCII runes alone, which DOT reads as UTF-8.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// Render lays out l with [ToDOT] and renders it to SVG.
func Render(ctx context.Context, l layout.Layout, opts Options) ([]byte, error) {
	return RenderSVG(ctx, ToDOT(l, opts))
}

// RenderSVG renders a DOT graph to SVG using the embedded Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root tag so the drawing starts at the origin
// and scales with its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
