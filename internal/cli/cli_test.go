package cli

import (
	"bytes"
	"context"
	"io"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/compgraph/pkg/codec"
	"github.com/matzehuels/compgraph/pkg/component"
	"github.com/matzehuels/compgraph/pkg/errors"
)

// swapStatus redirects status lines to w for the rest of the test.
func swapStatus(t *testing.T, w io.Writer) {
	t.Helper()
	old := statusOut
	statusOut = w
	t.Cleanup(func() { statusOut = old })
}

// isolate keeps config files and the user cache out of a test.
func isolate(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
}

// run executes the root command with args and returns its stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	swapStatus(t, io.Discard)
	root := New(io.Discard, LogInfo).RootCommand()
	var out bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append(args, "--no-cache"))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// mustRun is run for commands expected to print a token.
func mustRun(t *testing.T, args ...string) component.Graph {
	t.Helper()
	out, err := run(t, "", args...)
	if err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	g, ok := codec.Decode(strings.TrimSpace(out))
	if !ok {
		t.Fatalf("%v printed %q, not a token", args, out)
	}
	return g
}

func TestRootCommand(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	var got []string
	for _, cmd := range root.Commands() {
		got = append(got, cmd.Name())
	}
	want := []string{
		"add", "browse", "cache", "check", "completion", "decode", "delete", "encode",
		"layout", "prop", "render", "serve", "tree", "update", "watch",
	}
	slices.Sort(got)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("subcommands mismatch (-want +got):\n%s", diff)
	}

	for _, name := range []string{"verbose", "config", "base-url", "node-width", "sweeps", "cache-dir", "redis-addr", "no-cache"} {
		if root.PersistentFlags().Lookup(name) == nil {
			t.Errorf("missing persistent flag --%s", name)
		}
	}
}

func TestEditFlow(t *testing.T) {
	isolate(t)

	g := mustRun(t, "add", "--name", "App", "--id", "app")
	tok := codec.Encode(g)

	g = mustRun(t, "add", tok, "--name", "Header", "--id", "hdr", "--parent", "app",
		"--prop", "title:string", "--prop", "onClick:() => void")
	tok = codec.Encode(g)

	g = mustRun(t, "update", tok, "hdr", "--name", "Top")
	tok = codec.Encode(g)

	g = mustRun(t, "delete", tok, "app")
	tok = codec.Encode(g)

	g = mustRun(t, "prop", "rm", tok, "hdr", "title")
	tok = codec.Encode(g)

	g = mustRun(t, "prop", "add", tok, "hdr", "size", "number")

	want := component.Graph{Components: []component.Node{
		{ID: "hdr", Name: "Top", Props: []component.Prop{
			{Name: "onClick", Type: "() => void"},
			{Name: "size", Type: "number"},
		}},
	}}
	if diff := cmp.Diff(want, g, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("graph mismatch (-want +got):\n%s", diff)
	}
}

func TestAddGeneratesID(t *testing.T) {
	isolate(t)
	g := mustRun(t, "add", "--name", "App")
	if g.Len() != 1 || g.Components[0].ID == "" {
		t.Fatalf("add produced %+v", g)
	}
}

func TestEditErrors(t *testing.T) {
	isolate(t)
	tok := codec.Encode(component.Graph{Components: []component.Node{
		{ID: "a", Name: "A"},
		{ID: "b", Name: "B", ParentID: component.Parent("a")},
	}})

	tests := []struct {
		name string
		args []string
		want errors.Code
	}{
		{"duplicate id", []string{"add", tok, "--name", "X", "--id", "a"}, errors.ErrCodeDuplicateID},
		{"dangling parent", []string{"add", tok, "--name", "X", "--parent", "zz"}, errors.ErrCodeDanglingParent},
		{"blank prop", []string{"add", tok, "--name", "X", "--prop", ":string"}, errors.ErrCodeInvalidInput},
		{"cycle", []string{"update", tok, "a", "--parent", "b"}, errors.ErrCodeCycle},
		{"self parent", []string{"update", tok, "a", "--parent", "a"}, errors.ErrCodeCycle},
		{"nothing to update", []string{"update", tok, "a"}, errors.ErrCodeInvalidInput},
		{"parent and root", []string{"update", tok, "b", "--parent", "a", "--root"}, errors.ErrCodeInvalidInput},
		{"update unknown", []string{"update", tok, "zz", "--name", "Z"}, errors.ErrCodeNotFound},
		{"delete unknown", []string{"delete", tok, "zz"}, errors.ErrCodeNotFound},
		{"prop unknown", []string{"prop", "add", tok, "zz", "p"}, errors.ErrCodeNotFound},
		{"bad token", []string{"delete", "not*a*token", "a"}, errors.ErrCodeInvalidToken},
		{"write without file", []string{"delete", tok, "b", "--write"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, "", tt.args...)
			if !errors.Is(err, tt.want) {
				t.Errorf("run(%v) = %v, want %s", tt.args[0], err, tt.want)
			}
		})
	}
}

func TestAddRequiresName(t *testing.T) {
	isolate(t)
	if _, err := run(t, "", "add"); err == nil || !strings.Contains(err.Error(), "name") {
		t.Errorf("add without --name = %v", err)
	}
}

func TestUpdateRoot(t *testing.T) {
	isolate(t)
	tok := codec.Encode(component.Graph{Components: []component.Node{
		{ID: "a", Name: "A"},
		{ID: "b", Name: "B", ParentID: component.Parent("a")},
	}})
	g := mustRun(t, "update", tok, "b", "--root", "--prop", "x:int")
	b, _ := component.Find(g, "b")
	if !b.IsRoot() {
		t.Errorf("b has parent %q after --root", b.Parent())
	}
	if diff := cmp.Diff([]component.Prop{{Name: "x", Type: "int"}}, b.Props); diff != "" {
		t.Errorf("props mismatch (-want +got):\n%s", diff)
	}
}

func TestURLOutput(t *testing.T) {
	isolate(t)
	out, err := run(t, "", "add", "--name", "App", "--url", "--base-url", "https://example.com/edit")
	if err != nil {
		t.Fatal(err)
	}
	u := strings.TrimSpace(out)
	if !strings.HasPrefix(u, "https://example.com/edit?"+codec.Param+"=") {
		t.Fatalf("url = %q", u)
	}
	if g := codec.FromURL(u); g.Len() != 1 {
		t.Errorf("url carries %d components, want 1", g.Len())
	}
}

func TestPipeThroughStdin(t *testing.T) {
	isolate(t)
	first, err := run(t, "", "add", "--name", "App", "--id", "app")
	if err != nil {
		t.Fatal(err)
	}
	out, err := run(t, first, "add", "-", "--name", "Header", "--parent", "app", "--id", "h")
	if err != nil {
		t.Fatal(err)
	}
	g, ok := codec.Decode(strings.TrimSpace(out))
	if !ok || g.Len() != 2 {
		t.Fatalf("piped add produced %q", out)
	}
}

func TestCompletion(t *testing.T) {
	isolate(t)
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		out, err := run(t, "", "completion", shell)
		if err != nil {
			t.Fatalf("completion %s: %v", shell, err)
		}
		if !strings.Contains(out, appName) {
			t.Errorf("completion %s does not mention %s", shell, appName)
		}
	}
	if _, err := run(t, "", "completion", "tcsh"); err == nil {
		t.Error("completion tcsh should fail")
	}
}
