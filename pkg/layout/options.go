package layout

import "github.com/matzehuels/compgraph/pkg/layout/ordering"

// Defaults for the node box and the gaps between boxes.
const (
	DefaultNodeWidth  = 250.0
	DefaultNodeHeight = 100.0
	DefaultNodeSep    = 100.0
	DefaultRankSep    = 100.0
)

// placementRounds is the number of down/up coordinate passes after the
// initial up pass.
const placementRounds = 4

type config struct {
	nodeWidth  float64
	nodeHeight float64
	nodeSep    float64
	rankSep    float64
	sweeps     int
	orderer    ordering.Orderer
}

func defaultConfig() config {
	return config{
		nodeWidth:  DefaultNodeWidth,
		nodeHeight: DefaultNodeHeight,
		nodeSep:    DefaultNodeSep,
		rankSep:    DefaultRankSep,
	}
}

// Option configures [Build].
type Option func(*config)

// WithNodeSize sets the fixed box of every node. Non-positive values keep
// the default.
func WithNodeSize(width, height float64) Option {
	return func(c *config) {
		if width > 0 {
			c.nodeWidth = width
		}
		if height > 0 {
			c.nodeHeight = height
		}
	}
}

// WithSpacing sets the horizontal gap between boxes in a rank (nodeSep) and
// the vertical gap between ranks (rankSep). Negative values keep the
// default; zero places boxes edge to edge.
func WithSpacing(nodeSep, rankSep float64) Option {
	return func(c *config) {
		if nodeSep >= 0 {
			c.nodeSep = nodeSep
		}
		if rankSep >= 0 {
			c.rankSep = rankSep
		}
	}
}

// WithSweeps sets the number of barycentric sweeps of the default orderer.
// It has no effect when WithOrderer is used.
func WithSweeps(n int) Option {
	return func(c *config) { c.sweeps = n }
}

// WithOrderer replaces the row orderer. A nil orderer keeps the default.
func WithOrderer(o ordering.Orderer) Option {
	return func(c *config) {
		if o != nil {
			c.orderer = o
		}
	}
}

func (c config) rowOrderer() ordering.Orderer {
	if c.orderer != nil {
		return c.orderer
	}
	return ordering.Barycentric{Passes: c.sweeps}
}
