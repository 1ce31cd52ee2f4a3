package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/compgraph/pkg/codec"
	"github.com/matzehuels/compgraph/pkg/component"
	"github.com/matzehuels/compgraph/pkg/errors"
	"github.com/matzehuels/compgraph/pkg/graph"
)

func TestLayoutCommand(t *testing.T) {
	isolate(t)
	out, err := run(t, "", "layout", codec.Encode(pair()))
	if err != nil {
		t.Fatal(err)
	}
	l, err := graph.UnmarshalLayout([]byte(out))
	if err != nil {
		t.Fatalf("stdout is not layout JSON: %v\n%s", err, out)
	}
	if len(l.Nodes) != 2 || len(l.Edges) != 1 || l.Ranks != 2 {
		t.Errorf("layout has %d nodes, %d edges, %d ranks", len(l.Nodes), len(l.Edges), l.Ranks)
	}
}

func TestLayoutCommandFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "out.json")
	out, err := run(t, "", "layout", codec.Encode(pair()), "-o", path)
	if err != nil {
		t.Fatal(err)
	}
	if out != "" {
		t.Errorf("layout -o printed %q", out)
	}
	if _, err := graph.ReadLayoutFile(path); err != nil {
		t.Errorf("ReadLayoutFile() error: %v", err)
	}
}

func TestRenderDOT(t *testing.T) {
	isolate(t)
	out, err := run(t, "", "render", codec.Encode(pair()), "-f", "dot")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "digraph G {") || !strings.Contains(out, "->") {
		t.Errorf("render -f dot printed:\n%s", out)
	}
}

func TestRenderSeveralFormats(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	file := filepath.Join(dir, "ui.json")
	if err := graph.WriteFile(file, pair()); err != nil {
		t.Fatal(err)
	}

	if _, err := run(t, "", "render", file, "-f", "dot,json"); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"ui.dot", "ui.layout.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	if _, err := graph.ReadFile(file); err != nil {
		t.Errorf("source graph clobbered: %v", err)
	}
}

func TestRenderErrors(t *testing.T) {
	isolate(t)
	tok := codec.Encode(pair())

	tests := []struct {
		name string
		args []string
		want errors.Code
	}{
		{"unknown format", []string{"render", tok, "-f", "png"}, errors.ErrCodeUnsupported},
		{"several formats to stdout", []string{"render", tok, "-f", "dot,json"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, "", tt.args...); !errors.Is(err, tt.want) {
				t.Errorf("run(%v) = %v, want %s", tt.args, err, tt.want)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "ui.json", "ui"},
		{"", "dir/app.yaml", "dir/app"},
		{"out", "ui.json", "out"},
		{"out.svg", "ui.json", "out"},
		{"out.dot", "", "out"},
		{"out.v2", "", "out.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestExtension(t *testing.T) {
	for format, want := range map[string]string{"svg": ".svg", "dot": ".dot", "json": ".layout.json"} {
		if got := extension(format); got != want {
			t.Errorf("extension(%q) = %q, want %q", format, got, want)
		}
	}
}

func TestDecodeCommand(t *testing.T) {
	isolate(t)
	tok := codec.Encode(pair())

	out, err := run(t, "", "decode", tok, "-f", "yaml")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "components:") || !strings.Contains(out, "Header") {
		t.Errorf("decode -f yaml printed:\n%s", out)
	}

	path := filepath.Join(t.TempDir(), "ui.toml")
	if _, err := run(t, "", "decode", tok, "-o", path); err != nil {
		t.Fatal(err)
	}
	g, err := graph.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if g.Len() != 2 {
		t.Errorf("decoded file has %d components, want 2", g.Len())
	}

	// encode is the inverse of decode.
	out, err = run(t, "", "encode", path)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out); got != tok {
		t.Errorf("encode(decode(tok)) = %q, want %q", got, tok)
	}
}

func TestCheckCommand(t *testing.T) {
	isolate(t)
	out, err := run(t, "", "check", codec.Encode(pair()))
	if err != nil || strings.TrimSpace(out) != "ok" {
		t.Errorf("check = %q, %v", out, err)
	}

	ring := codec.Encode(component.Graph{Components: []component.Node{
		{ID: "a", Name: "A", ParentID: component.Parent("b")},
		{ID: "b", Name: "B", ParentID: component.Parent("a")},
	}})
	if _, err := run(t, "", "check", ring); !errors.Is(err, errors.ErrCodeCycle) {
		t.Errorf("check(ring) = %v, want CYCLE", err)
	}
}

func TestDepth(t *testing.T) {
	if got := depth(component.Graph{}); got != 0 {
		t.Errorf("depth(empty) = %d", got)
	}
	if got := depth(pair()); got != 2 {
		t.Errorf("depth(pair) = %d, want 2", got)
	}
}

func TestTreeCommand(t *testing.T) {
	isolate(t)
	out, err := run(t, "", "tree", codec.Encode(pair()), "--props")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"App", "(1)", "Header", "(2)", "title: string"} {
		if !strings.Contains(out, want) {
			t.Errorf("tree output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderTree(t *testing.T) {
	if got := renderTree(component.Graph{}, false); !strings.Contains(got, "(empty graph)") {
		t.Errorf("empty tree = %q", got)
	}

	ring := component.Graph{Components: []component.Node{
		{ID: "r", Name: "Root"},
		{ID: "a", Name: "A", ParentID: component.Parent("b")},
		{ID: "b", Name: "B", ParentID: component.Parent("a")},
	}}
	got := renderTree(ring, false)
	if !strings.Contains(got, "unreachable") || !strings.Contains(got, "↑ b") {
		t.Errorf("ring tree missing unreachable section:\n%s", got)
	}
	if strings.Index(got, "Root") > strings.Index(got, "unreachable") {
		t.Errorf("roots should come before unreachable components:\n%s", got)
	}
}

func TestCacheCommands(t *testing.T) {
	isolate(t)
	swapStatus(t, io.Discard)
	dir := t.TempDir()

	root := New(io.Discard, LogInfo).RootCommand()
	var out strings.Builder
	root.SetOut(&out)
	root.SetArgs([]string{"cache", "path", "--cache-dir", dir})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out.String()); got != dir {
		t.Errorf("cache path = %q, want %q", got, dir)
	}

	if got := cacheLocation("localhost:6379", dir); got != "redis://localhost:6379" {
		t.Errorf("cacheLocation(redis) = %q", got)
	}

	// A layout run fills the cache, and clear empties it again.
	root = New(io.Discard, LogInfo).RootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"layout", codec.Encode(pair()), "--cache-dir", dir})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) == 0 {
		t.Fatal("layout left the cache dir empty")
	}

	root = New(io.Discard, LogInfo).RootCommand()
	root.SetArgs([]string{"cache", "clear", "--cache-dir", dir})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if n := countFiles(t, dir); n != 0 {
		t.Errorf("%d files left after cache clear", n)
	}
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	n := 0
	err := filepath.WalkDir(dir, func(_ string, d os.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			n++
		}
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	return n
}
