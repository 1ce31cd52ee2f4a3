package editor

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/compgraph/pkg/codec"
	"github.com/matzehuels/compgraph/pkg/component"
	"github.com/matzehuels/compgraph/pkg/layout"
	"github.com/matzehuels/compgraph/pkg/observability"
)

// DefaultBaseURL is the share link base used when none is configured.
const DefaultBaseURL = "http://localhost:8080/"

// NewID returns a fresh component ID.
func NewID() string { return uuid.NewString() }

// Editor holds the current graph. It is safe for concurrent use.
type Editor struct {
	mu     sync.Mutex
	graph  component.Graph
	token  string // Encode(graph) unless stale
	stale  bool
	base   string
	newID  func() string
	layout []layout.Option
	logger *log.Logger
}

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the logger. Edits are logged at debug level.
func WithLogger(l *log.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithBaseURL sets the base of share links.
func WithBaseURL(base string) Option {
	return func(e *Editor) {
		if base != "" {
			e.base = base
		}
	}
}

// WithIDGenerator replaces [NewID] for new components.
func WithIDGenerator(fn func() string) Option {
	return func(e *Editor) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// WithLayoutOptions sets the options used by [Editor.Layout].
func WithLayoutOptions(opts ...layout.Option) Option {
	return func(e *Editor) { e.layout = opts }
}

// New returns an editor holding g.
func New(g component.Graph, opts ...Option) *Editor {
	e := &Editor{
		graph:  g,
		stale:  true,
		base:   DefaultBaseURL,
		newID:  NewID,
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Open restores the graph shared in token. An empty or unreadable token
// yields an editor holding the empty graph; the reason is logged.
func Open(ctx context.Context, token string, opts ...Option) *Editor {
	e := New(component.Graph{}, opts...)
	if token == "" {
		observability.Editor().OnDecode(ctx, 0, false)
		return e
	}

	g, err := codec.Inspect(token)
	observability.Editor().OnDecode(ctx, len(token), err == nil)
	if err != nil {
		e.logger.Warn("ignoring share token", "error", err)
		return e
	}
	e.logger.Debug("decoded share token", "components", g.Len(), "bytes", len(token))
	e.graph = g
	return e
}

// Graph returns the current graph. The value must not be modified.
func (e *Editor) Graph() component.Graph {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graph
}

// Apply replaces the graph with fn(graph) and reports whether anything
// changed. op names the edit for logs and metrics.
func (e *Editor) Apply(ctx context.Context, op string, fn func(component.Graph) component.Graph) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := fn(e.graph)
	changed := !component.Equal(e.graph, next)
	if changed {
		e.graph = next
		e.stale = true
	}
	observability.Editor().OnEdit(ctx, op, changed)
	e.logger.Debug("edit", "op", op, "changed", changed, "components", e.graph.Len())
	return changed
}

// Replace swaps in a whole new graph, for instance after a file reload.
func (e *Editor) Replace(ctx context.Context, g component.Graph) bool {
	return e.Apply(ctx, "replace", func(component.Graph) component.Graph { return g })
}

// Add appends node. An empty node.ID is replaced by a generated one. The
// stored node is returned.
func (e *Editor) Add(ctx context.Context, node component.Node) component.Node {
	if node.ID == "" {
		node.ID = e.newID()
	}
	e.Apply(ctx, "add", func(g component.Graph) component.Graph { return component.Add(g, node) })
	return node
}

// Update applies changes to component id. See [component.Update].
func (e *Editor) Update(ctx context.Context, id string, changes ...component.Change) bool {
	return e.Apply(ctx, "update", func(g component.Graph) component.Graph {
		return component.Update(g, id, changes...)
	})
}

// Delete removes component id; its children become roots.
func (e *Editor) Delete(ctx context.Context, id string) bool {
	return e.Apply(ctx, "delete", func(g component.Graph) component.Graph { return component.Delete(g, id) })
}

// AddProp appends prop to component id.
func (e *Editor) AddProp(ctx context.Context, id string, prop component.Prop) bool {
	return e.Apply(ctx, "add_prop", func(g component.Graph) component.Graph { return component.AddProp(g, id, prop) })
}

// RemoveProp drops every prop called name from component id.
func (e *Editor) RemoveProp(ctx context.Context, id, name string) bool {
	return e.Apply(ctx, "remove_prop", func(g component.Graph) component.Graph {
		return component.RemoveProp(g, id, name)
	})
}

// Token returns the share token of the current graph.
func (e *Editor) Token(ctx context.Context) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stale {
		e.token = codec.Encode(e.graph)
		e.stale = false
		observability.Editor().OnEncode(ctx, e.graph.Len(), len(e.token))
	}
	return e.token
}

// ShareURL returns the configured base URL carrying the current token.
func (e *Editor) ShareURL(ctx context.Context) (string, error) {
	token := e.Token(ctx)
	e.mu.Lock()
	base := e.base
	e.mu.Unlock()
	return codec.WithToken(base, token)
}

// Layout lays out the current graph.
func (e *Editor) Layout() layout.Layout {
	e.mu.Lock()
	g, opts := e.graph, e.layout
	e.mu.Unlock()
	return layout.Build(g, opts...)
}

// AvailableParents lists the components that editingID may be moved under:
// every component except editingID itself and its descendants. With an
// empty editingID (a new component) every component qualifies.
func (e *Editor) AvailableParents(editingID string) []component.Node {
	return AvailableParents(e.Graph(), editingID)
}

// AvailableParents is [Editor.AvailableParents] on a plain graph.
func AvailableParents(g component.Graph, editingID string) []component.Node {
	out := make([]component.Node, 0, g.Len())
	for _, n := range g.Components {
		if editingID != "" && (n.ID == editingID || component.IsDescendant(g, editingID, n.ID)) {
			continue
		}
		out = append(out, n)
	}
	return out
}
