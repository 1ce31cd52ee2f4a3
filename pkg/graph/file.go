package graph

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/compgraph/pkg/component"
	"github.com/matzehuels/compgraph/pkg/errors"
)

// FormatFromPath returns the file format implied by the extension of path:
// .json, .toml, .yaml or .yml.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", errors.New(errors.ErrCodeUnsupported, "unsupported file extension %q (want .json, .toml or .yaml)", filepath.Ext(path))
	}
}

// Read decodes a graph in the given format and checks its integrity with
// [component.Check]. JSON input goes through the strict [Unmarshal]; TOML
// and YAML input must not contain unknown keys.
//
// TOML has no null, so a root component simply omits parentId.
func Read(r io.Reader, format string) (component.Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return component.Graph{}, fmt.Errorf("read: %w", err)
	}

	var g component.Graph
	switch format {
	case FormatJSON:
		g, err = Unmarshal(data)
	case FormatTOML:
		g, err = decodeTOML(data)
	case FormatYAML:
		g, err = decodeYAML(data)
	default:
		err = errors.New(errors.ErrCodeUnsupported, "unsupported format %q", format)
	}
	if err != nil {
		return component.Graph{}, err
	}

	if err := component.Check(g); err != nil {
		return component.Graph{}, err
	}
	return g, nil
}

// Write encodes g in the given format. JSON output is indented.
func Write(w io.Writer, g component.Graph, format string) error {
	switch format {
	case FormatJSON:
		data := append(MarshalIndent(g), '\n')
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("write: %w", err)
		}
		return nil
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(FromGraph(g)); err != nil {
			return fmt.Errorf("encode toml: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(FromGraph(g)); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return errors.New(errors.ErrCodeUnsupported, "unsupported format %q", format)
	}
}

// ReadFile reads a graph file, choosing the format by extension.
func ReadFile(path string) (component.Graph, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return component.Graph{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return component.Graph{}, errors.Wrap(errors.ErrCodeNotFound, err, "open %s", path)
		}
		return component.Graph{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	g, err := Read(f, format)
	if err != nil {
		return component.Graph{}, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// WriteFile writes g to path in the format implied by its extension.
// The file is created with 0644 permissions.
func WriteFile(path string, g component.Graph) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Write(&buf, g, format); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func decodeTOML(data []byte) (component.Graph, error) {
	var doc Document
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return component.Graph{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return component.Graph{}, errors.New(errors.ErrCodeInvalidFormat, "unknown toml key %q", undecoded[0].String())
	}
	return doc.Graph(), nil
}

func decodeYAML(data []byte) (component.Graph, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return component.Graph{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse yaml")
	}
	return doc.Graph(), nil
}
