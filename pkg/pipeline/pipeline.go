// Package pipeline runs the layout → render chain shared by the CLI and the
// HTTP server, with caching and observability hooks around each stage.
//
// # Stages
//
//  1. Layout: [layout.Build] positions the components (cached by graph hash
//     and layout options)
//  2. Render: each requested format is produced from the layout (cached by
//     layout hash and render options)
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	defer runner.Close()
//
//	opts := pipeline.DefaultOptions()
//	opts.Formats = []string{pipeline.FormatSVG}
//	result, err := runner.Execute(ctx, g, opts)
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts[pipeline.FormatSVG]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/compgraph/pkg/cache"
	"github.com/matzehuels/compgraph/pkg/component"
	"github.com/matzehuels/compgraph/pkg/errors"
	"github.com/matzehuels/compgraph/pkg/layout"
	"github.com/matzehuels/compgraph/pkg/layout/ordering"
)

// Output formats.
const (
	FormatSVG  = "svg"  // Graphviz node-link diagram
	FormatDOT  = "dot"  // Graphviz source
	FormatJSON = "json" // the layout itself
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// Options configures a pipeline run. Build it from [DefaultOptions]: the
// zero value has zero spacing, which is a valid (if cramped) setting.
type Options struct {
	NodeWidth  float64
	NodeHeight float64
	NodeSep    float64
	RankSep    float64
	Sweeps     int

	Formats  []string
	Detailed bool // list props in rendered node labels

	// Refresh skips cache reads; results are still written back.
	Refresh bool

	// Runtime options (not part of any cache key)
	Logger  *log.Logger
	Orderer ordering.Orderer // disables layout caching when set
}

// DefaultOptions returns the layout defaults and SVG output.
func DefaultOptions() Options {
	return Options{
		NodeWidth:  layout.DefaultNodeWidth,
		NodeHeight: layout.DefaultNodeHeight,
		NodeSep:    layout.DefaultNodeSep,
		RankSep:    layout.DefaultRankSep,
		Sweeps:     ordering.DefaultPasses,
		Formats:    []string{FormatSVG},
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Graph     component.Graph
	GraphHash string
	Layout    layout.Layout
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each stage.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool // every requested artifact came from cache
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeUnsupported, "invalid format %q (must be one of: %s)", format, strings.Join(Formats(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Formats lists the supported output formats in sorted order.
func Formats() []string {
	out := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// ParseFormats splits a comma-separated list, dropping blanks and
// duplicates. An empty list yields SVG.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return []string{FormatSVG}
	}
	return out
}

// ValidateForRender applies render defaults and validates the formats.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	o.setLogger()
	return ValidateFormats(o.Formats)
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// LayoutOptions converts the options to [layout.Option] values.
func (o *Options) LayoutOptions() []layout.Option {
	opts := []layout.Option{
		layout.WithNodeSize(o.NodeWidth, o.NodeHeight),
		layout.WithSpacing(o.NodeSep, o.RankSep),
		layout.WithSweeps(o.Sweeps),
	}
	if o.Orderer != nil {
		opts = append(opts, layout.WithOrderer(o.Orderer))
	}
	return opts
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		NodeWidth:  o.NodeWidth,
		NodeHeight: o.NodeHeight,
		NodeSep:    o.NodeSep,
		RankSep:    o.RankSep,
		Sweeps:     o.Sweeps,
	}
}

// ArtifactKeyOpts returns cache key options for rendering one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Detailed: o.Detailed,
	}
}
