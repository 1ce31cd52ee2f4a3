package editor

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/compgraph/pkg/codec"
	"github.com/matzehuels/compgraph/pkg/component"
	"github.com/matzehuels/compgraph/pkg/observability"
)

// seq returns an ID generator yielding "id1", "id2", ...
func seq() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id%d", n)
	}
}

func tree() component.Graph {
	return component.Graph{Components: []component.Node{
		{ID: "1", Name: "A"},
		{ID: "2", Name: "B", ParentID: component.Parent("1")},
		{ID: "3", Name: "C", ParentID: component.Parent("2")},
		{ID: "4", Name: "D"},
	}}
}

func names(nodes []component.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}
	return out
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name  string
		token string
		want  component.Graph
	}{
		{"empty token", "", component.Graph{}},
		{"garbage", "!!not-a-token!!", component.Graph{}},
		{"valid", codec.Encode(tree()), tree()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Open(ctx, tt.token).Graph()
			if !component.Equal(tt.want, got) {
				t.Errorf("Open() graph = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestEditorOperations(t *testing.T) {
	ctx := context.Background()
	ed := New(component.Graph{}, WithIDGenerator(seq()))

	root := ed.Add(ctx, component.Node{Name: "App"})
	if root.ID != "id1" {
		t.Fatalf("Add() generated id %q, want id1", root.ID)
	}
	child := ed.Add(ctx, component.Node{ID: "fixed", Name: "Header", ParentID: component.Parent(root.ID)})
	if child.ID != "fixed" {
		t.Errorf("Add() replaced an explicit id: %q", child.ID)
	}

	if !ed.AddProp(ctx, "fixed", component.Prop{Name: "title", Type: "string"}) {
		t.Error("AddProp() should change the graph")
	}
	if ed.AddProp(ctx, "missing", component.Prop{Name: "x", Type: "y"}) {
		t.Error("AddProp() on an unknown id should be a no-op")
	}

	// moving the root under its own child is rejected
	if ed.Update(ctx, root.ID, component.SetParent(component.Parent("fixed"))) {
		t.Error("Update() creating a cycle should leave the graph unchanged")
	}
	if !ed.Update(ctx, "fixed", component.SetName("Top bar")) {
		t.Error("Update() rename should change the graph")
	}

	if !ed.RemoveProp(ctx, "fixed", "title") {
		t.Error("RemoveProp() should change the graph")
	}
	if !ed.Delete(ctx, root.ID) {
		t.Error("Delete() should change the graph")
	}

	want := component.Graph{Components: []component.Node{{ID: "fixed", Name: "Top bar", Props: []component.Prop{}}}}
	if diff := cmp.Diff(want, ed.Graph(), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("final graph mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenAndShareURL(t *testing.T) {
	ctx := context.Background()
	ed := New(tree(), WithBaseURL("https://example.com/editor?theme=dark"))

	token := ed.Token(ctx)
	if token != codec.Encode(tree()) {
		t.Errorf("Token() = %q, want codec.Encode of the graph", token)
	}

	link, err := ed.ShareURL(ctx)
	if err != nil {
		t.Fatalf("ShareURL: %v", err)
	}
	if !strings.HasPrefix(link, "https://example.com/editor?") || !strings.Contains(link, "theme=dark") {
		t.Errorf("ShareURL() = %q lost the base", link)
	}
	if got := codec.FromURL(link); !component.Equal(tree(), got) {
		t.Errorf("FromURL(ShareURL()) = %+v, want the editor graph", got)
	}

	ed.Delete(ctx, "4")
	if ed.Token(ctx) == token {
		t.Error("Token() should change after an edit")
	}
}

func TestLayout(t *testing.T) {
	l := New(tree()).Layout()
	if len(l.Nodes) != 4 || len(l.Edges) != 2 || l.Ranks != 3 {
		t.Errorf("Layout() = %d nodes, %d edges, %d ranks; want 4, 2, 3", len(l.Nodes), len(l.Edges), l.Ranks)
	}
}

func TestAvailableParents(t *testing.T) {
	ed := New(tree())
	tests := []struct {
		editing string
		want    []string
	}{
		{"", []string{"A", "B", "C", "D"}},
		{"1", []string{"D"}},
		{"2", []string{"A", "D"}},
		{"3", []string{"A", "B", "D"}},
		{"missing", []string{"A", "B", "C", "D"}},
	}
	for _, tt := range tests {
		t.Run(tt.editing, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, names(ed.AvailableParents(tt.editing))); diff != "" {
				t.Errorf("AvailableParents(%q) mismatch (-want +got):\n%s", tt.editing, diff)
			}
		})
	}
}

func TestConcurrentEdits(t *testing.T) {
	ctx := context.Background()
	ed := New(component.Graph{})

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ed.Add(ctx, component.Node{Name: fmt.Sprintf("c%d", i)})
			_ = ed.Token(ctx)
		}()
	}
	wg.Wait()

	g := ed.Graph()
	if g.Len() != 50 {
		t.Fatalf("got %d components, want 50", g.Len())
	}
	if err := component.Check(g); err != nil {
		t.Errorf("generated ids collide: %v", err)
	}
}

type editRecorder struct {
	observability.NoopEditorHooks
	mu    sync.Mutex
	edits []string
}

func (r *editRecorder) OnEdit(_ context.Context, op string, changed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.edits = append(r.edits, fmt.Sprintf("%s:%v", op, changed))
}

func TestEditHooks(t *testing.T) {
	rec := &editRecorder{}
	observability.SetEditorHooks(rec)
	defer observability.Reset()

	ctx := context.Background()
	ed := New(tree())
	ed.Delete(ctx, "4")
	ed.Delete(ctx, "4")
	ed.RemoveProp(ctx, "1", "nothing")

	want := []string{"delete:true", "delete:false", "remove_prop:false"}
	if diff := cmp.Diff(want, rec.edits); diff != "" {
		t.Errorf("edit hooks mismatch (-want +got):\n%s", diff)
	}
}
