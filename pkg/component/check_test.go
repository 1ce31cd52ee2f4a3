package component

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/compgraph/pkg/errors"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name string
		g    Graph
		want errors.Code
	}{
		{"empty", Graph{}, ""},
		{"tree", abc(), ""},
		{
			name: "duplicate id",
			g:    Graph{Components: []Node{{ID: "1"}, {ID: "1"}}},
			want: errors.ErrCodeDuplicateID,
		},
		{
			name: "dangling parent",
			g:    Graph{Components: []Node{{ID: "1", ParentID: Parent("2")}}},
			want: errors.ErrCodeDanglingParent,
		},
		{
			name: "self parent",
			g:    Graph{Components: []Node{{ID: "1", ParentID: Parent("1")}}},
			want: errors.ErrCodeCycle,
		},
		{
			name: "two node cycle",
			g: Graph{Components: []Node{
				{ID: "1", ParentID: Parent("2")},
				{ID: "2", ParentID: Parent("1")},
			}},
			want: errors.ErrCodeCycle,
		},
		{
			name: "invalid utf-8 id",
			g:    Graph{Components: []Node{{ID: "a\xff", Name: "A"}}},
			want: errors.ErrCodeInvalidFormat,
		},
		{
			name: "invalid utf-8 prop type",
			g:    Graph{Components: []Node{{ID: "1", Name: "A", Props: []Prop{{Name: "p", Type: "\xfe"}}}}},
			want: errors.ErrCodeInvalidFormat,
		},
		{
			name: "cycle below a root",
			g: Graph{Components: []Node{
				{ID: "root"},
				{ID: "a", ParentID: Parent("c")},
				{ID: "b", ParentID: Parent("a")},
				{ID: "c", ParentID: Parent("b")},
			}},
			want: errors.ErrCodeCycle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.g)
			if got := errors.GetCode(err); got != tt.want {
				t.Errorf("Check() code = %q, want %q (err = %v)", got, tt.want, err)
			}
		})
	}
}

func TestCheckCycleMessage(t *testing.T) {
	g := Graph{Components: []Node{
		{ID: "x", ParentID: Parent("z")},
		{ID: "y", ParentID: Parent("x")},
		{ID: "z", ParentID: Parent("y")},
	}}

	err := Check(g)
	if got, want := errors.UserMessage(err), "parent cycle through x, y, z"; got != want {
		t.Errorf("UserMessage() = %q, want %q", got, want)
	}
}

func TestQueries(t *testing.T) {
	g := Graph{Components: []Node{
		{ID: "1", Name: "App"},
		{ID: "2", Name: "Header", ParentID: Parent("1")},
		{ID: "3", Name: "Logo", ParentID: Parent("2")},
		{ID: "4", Name: "Footer", ParentID: Parent("1")},
		{ID: "5", Name: "Modal"},
	}}

	if n, ok := Find(g, "3"); !ok || n.Name != "Logo" {
		t.Errorf("Find(3) = %v, %v", n, ok)
	}
	if _, ok := Find(g, "404"); ok {
		t.Errorf("Find(404) found a node")
	}

	names := func(nodes []Node) []string {
		var out []string
		for _, n := range nodes {
			out = append(out, n.Name)
		}
		return out
	}

	if diff := cmp.Diff([]string{"Header", "Footer"}, names(Children(g, "1"))); diff != "" {
		t.Errorf("Children mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"App", "Modal"}, names(Roots(g))); diff != "" {
		t.Errorf("Roots mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"2", "1"}, Ancestors(g, "3")); diff != "" {
		t.Errorf("Ancestors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Header", "Footer", "Logo"}, names(Descendants(g, "1"))); diff != "" {
		t.Errorf("Descendants mismatch (-want +got):\n%s", diff)
	}

	if !IsDescendant(g, "1", "3") {
		t.Errorf("IsDescendant(1, 3) = false, want true")
	}
	if IsDescendant(g, "3", "1") {
		t.Errorf("IsDescendant(3, 1) = true, want false")
	}
	if IsDescendant(g, "5", "3") {
		t.Errorf("IsDescendant(5, 3) = true, want false")
	}
}

func TestAncestorsTerminatesOnCycle(t *testing.T) {
	g := Graph{Components: []Node{
		{ID: "a", ParentID: Parent("b")},
		{ID: "b", ParentID: Parent("a")},
	}}

	if diff := cmp.Diff([]string{"b"}, Ancestors(g, "a")); diff != "" {
		t.Errorf("Ancestors mismatch (-want +got):\n%s", diff)
	}
}
