package dag

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAddNodeErrors(t *testing.T) {
	g := New()
	if err := g.AddNode(Node{}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("AddNode(empty) = %v, want %v", err, ErrInvalidNodeID)
	}
	_ = g.AddNode(Node{ID: "a"})
	if err := g.AddNode(Node{ID: "a", Row: 3}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("AddNode(dup) = %v, want %v", err, ErrDuplicateNodeID)
	}
	if n, _ := g.Node("a"); n.Row != 0 {
		t.Errorf("duplicate overwrote the first node: row = %d", n.Row)
	}
}

func TestAddEdgeErrors(t *testing.T) {
	g := New()
	_ = g.AddNode(Node{ID: "a"})

	tests := []struct {
		name string
		edge Edge
		want error
	}{
		{"unknown source", Edge{From: "x", To: "a"}, ErrUnknownSourceNode},
		{"unknown target", Edge{From: "a", To: "x"}, ErrUnknownTargetNode},
		{"self loop", Edge{From: "a", To: "a"}, ErrSelfLoop},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := g.AddEdge(tt.edge); !errors.Is(err, tt.want) {
				t.Errorf("AddEdge() = %v, want %v", err, tt.want)
			}
		})
	}
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount() = %d, want 0", g.EdgeCount())
	}
}

func TestInsertionOrder(t *testing.T) {
	ids := []string{"m", "c", "x", "a", "q", "b"}
	for range 20 {
		g := New()
		for _, id := range ids {
			_ = g.AddNode(Node{ID: id})
		}
		g.SetRows(map[string]int{"x": 1, "b": 1})

		if diff := cmp.Diff(ids, NodeIDs(g.Nodes())); diff != "" {
			t.Fatalf("Nodes() order mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"m", "c", "a", "q"}, NodeIDs(g.NodesInRow(0))); diff != "" {
			t.Fatalf("NodesInRow(0) mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"x", "b"}, NodeIDs(g.NodesInRow(1))); diff != "" {
			t.Fatalf("NodesInRow(1) mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestValidate(t *testing.T) {
	build := func(rows map[string]int, edges ...Edge) *DAG {
		g := New()
		for _, id := range []string{"a", "b", "c"} {
			_ = g.AddNode(Node{ID: id, Row: rows[id]})
		}
		for _, e := range edges {
			_ = g.AddEdge(e)
		}
		return g
	}

	tests := []struct {
		name string
		g    *DAG
		want error
	}{
		{
			name: "chain",
			g:    build(map[string]int{"b": 1, "c": 2}, Edge{"a", "b"}, Edge{"b", "c"}),
		},
		{
			name: "skips a row",
			g:    build(map[string]int{"c": 2}, Edge{"a", "c"}),
			want: ErrNonConsecutiveRows,
		},
		{
			name: "back edge",
			g:    build(map[string]int{"b": 1}, Edge{"a", "b"}, Edge{"b", "a"}),
			want: ErrNonConsecutiveRows,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.g.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRemoveEdge(t *testing.T) {
	g := New()
	_ = g.AddNode(Node{ID: "a"})
	_ = g.AddNode(Node{ID: "b", Row: 1})
	_ = g.AddEdge(Edge{From: "a", To: "b"})

	g.RemoveEdge("a", "b")
	if g.HasEdge("a", "b") || g.EdgeCount() != 0 || len(g.Parents("b")) != 0 {
		t.Errorf("edge a→b still present after RemoveEdge")
	}
	g.RemoveEdge("a", "b")
}

func TestCountCrossings(t *testing.T) {
	g := New()
	for _, id := range []string{"r"} {
		_ = g.AddNode(Node{ID: id})
	}
	for _, id := range []string{"a", "b"} {
		_ = g.AddNode(Node{ID: id, Row: 1})
	}
	for _, id := range []string{"a1", "b1", "b2"} {
		_ = g.AddNode(Node{ID: id, Row: 2})
	}
	_ = g.AddEdge(Edge{From: "r", To: "a"})
	_ = g.AddEdge(Edge{From: "r", To: "b"})
	_ = g.AddEdge(Edge{From: "a", To: "a1"})
	_ = g.AddEdge(Edge{From: "b", To: "b1"})
	_ = g.AddEdge(Edge{From: "b", To: "b2"})

	tests := []struct {
		name   string
		orders map[int][]string
		want   int
	}{
		{"grouped", map[int][]string{0: {"r"}, 1: {"a", "b"}, 2: {"a1", "b1", "b2"}}, 0},
		{"interleaved", map[int][]string{0: {"r"}, 1: {"a", "b"}, 2: {"b1", "a1", "b2"}}, 1},
		{"reversed", map[int][]string{0: {"r"}, 1: {"a", "b"}, 2: {"b1", "b2", "a1"}}, 2},
		{"empty", map[int][]string{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountCrossings(g, tt.orders); got != tt.want {
				t.Errorf("CountCrossings() = %d, want %d", got, tt.want)
			}
		})
	}

	if got := CountPairCrossings(g, "a", "b", []string{"b1", "a1", "b2"}, false); got != 1 {
		t.Errorf("CountPairCrossings(a, b) = %d, want 1", got)
	}
	if got := CountPairCrossings(g, "b", "a", []string{"b1", "a1", "b2"}, false); got != 1 {
		t.Errorf("CountPairCrossings(b, a) = %d, want 1", got)
	}
}
