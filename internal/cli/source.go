package cli

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/compgraph/pkg/codec"
	"github.com/matzehuels/compgraph/pkg/component"
	"github.com/matzehuels/compgraph/pkg/editor"
	"github.com/matzehuels/compgraph/pkg/errors"
	"github.com/matzehuels/compgraph/pkg/graph"
)

// stdinArg reads the graph from standard input.
const stdinArg = "-"

// source is a loaded graph and where it came from.
type source struct {
	graph component.Graph
	path  string // graph file; empty for tokens, URLs and stdin
}

// loadGraph resolves a graph argument:
//
//   - "" is the empty graph
//   - "-" reads a token, a share URL or graph JSON from stdin
//   - an http(s) URL is a share link carrying ?data=
//   - anything with a file extension is a graph file
//   - anything else is a share token
//
// Tokens are base64url and never contain a dot, so a file name cannot be
// mistaken for one. Unlike the editor, which falls back to the empty graph,
// a token that cannot be read is an error here.
func loadGraph(arg string, stdin io.Reader) (source, error) {
	if arg != stdinArg {
		return resolve(arg)
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return source{}, fmt.Errorf("read stdin: %w", err)
	}
	data = bytes.TrimSpace(data)
	if bytes.HasPrefix(data, []byte("{")) {
		g, err := graph.Read(bytes.NewReader(data), graph.FormatJSON)
		return source{graph: g}, err
	}
	if string(data) == stdinArg {
		return source{}, errors.New(errors.ErrCodeInvalidInput, "stdin holds %q, not a graph", stdinArg)
	}
	return resolve(string(data))
}

func resolve(arg string) (source, error) {
	switch {
	case arg == "":
		return source{}, nil
	case isURL(arg):
		token, err := codec.TokenFromURL(arg)
		if err != nil {
			return source{}, err
		}
		if token == "" {
			return source{}, errors.New(errors.ErrCodeInvalidToken, "url has no ?%s= parameter", codec.Param)
		}
		g, err := codec.Inspect(token)
		return source{graph: g}, err
	case filepath.Ext(arg) != "":
		g, err := graph.ReadFile(arg)
		return source{graph: g, path: arg}, err
	default:
		g, err := codec.Inspect(arg)
		return source{graph: g}, err
	}
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// argOr returns args[i] or "" when there are fewer arguments.
func argOr(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

// outputFlags selects where an edited graph goes.
type outputFlags struct {
	write bool // back to the source file
	url   bool // print a share URL instead of the bare token
}

func (o *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&o.write, "write", "w", false, "write the result back to the source file")
	cmd.Flags().BoolVar(&o.url, "url", false, "print a share URL instead of the token")
}

// newEditor opens an editor on the loaded graph with the configured base URL
// and layout settings.
func (c *CLI) newEditor(src source) *editor.Editor {
	cfg := c.cfg()
	return editor.New(src.graph,
		editor.WithLogger(c.Logger),
		editor.WithBaseURL(cfg.BaseURL),
		editor.WithLayoutOptions(cfg.LayoutOptions()...),
	)
}

// emit writes the editor's graph where out asks for it. Tokens and URLs go
// to the command's stdout.
func (c *CLI) emit(cmd *cobra.Command, src source, ed *editor.Editor, out outputFlags) error {
	ctx := cmd.Context()
	switch {
	case out.write:
		if src.path == "" {
			return errors.New(errors.ErrCodeInvalidInput, "--write needs a graph file argument")
		}
		if err := graph.WriteFile(src.path, ed.Graph()); err != nil {
			return err
		}
		printFile(src.path)
		return nil
	case out.url:
		u, err := ed.ShareURL(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), u)
		return nil
	default:
		fmt.Fprintln(cmd.OutOrStdout(), ed.Token(ctx))
		return nil
	}
}
