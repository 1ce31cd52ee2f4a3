package codec

import (
	"bytes"
	"encoding/base64"
	"io"
	"net/url"

	"github.com/klauspost/compress/flate"

	"github.com/matzehuels/compgraph/pkg/component"
	"github.com/matzehuels/compgraph/pkg/errors"
	"github.com/matzehuels/compgraph/pkg/graph"
)

// Param is the URL query parameter that carries the share token.
const Param = "data"

// Limits applied while decoding untrusted tokens.
const (
	MaxTokenLen = 1 << 20 // 1 MiB of token text
	MaxJSONLen  = 8 << 20 // 8 MiB of inflated JSON
)

var encoding = base64.RawURLEncoding

// Encode returns the share token of g: the canonical JSON form, compressed
// with raw DEFLATE and encoded as unpadded base64url. The alphabet is
// A-Z a-z 0-9 - _, so the token can be used in a query string as is.
//
// Decode(Encode(g)) equals g whenever g passes [component.Check]. Text that
// is not valid UTF-8 comes back with U+FFFD in place of the bad bytes.
func Encode(g component.Graph) string {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		// Only returned for an invalid level.
		panic(err)
	}
	// Writes to a bytes.Buffer do not fail.
	_, _ = w.Write(graph.Marshal(g))
	_ = w.Close()
	return encoding.EncodeToString(buf.Bytes())
}

// Decode restores the graph of a share token. It reports false, with an
// empty graph, for the empty token and for any token that is not valid
// base64url, does not inflate, is too large or does not match the wire
// format exactly. It never returns a partial graph.
func Decode(token string) (component.Graph, bool) {
	g, err := Inspect(token)
	return g, err == nil
}

// Inspect is like [Decode] but explains why a token was rejected. Every
// error has code INVALID_TOKEN.
func Inspect(token string) (component.Graph, error) {
	if token == "" {
		return component.Graph{}, errors.New(errors.ErrCodeInvalidToken, "empty token")
	}
	if len(token) > MaxTokenLen {
		return component.Graph{}, errors.New(errors.ErrCodeInvalidToken, "token longer than %d bytes", MaxTokenLen)
	}

	compressed, err := encoding.DecodeString(token)
	if err != nil {
		return component.Graph{}, errors.Wrap(errors.ErrCodeInvalidToken, err, "token is not base64url")
	}

	r := flate.NewReader(bytes.NewReader(compressed))
	defer r.Close()
	data, err := io.ReadAll(io.LimitReader(r, MaxJSONLen+1))
	if err != nil {
		return component.Graph{}, errors.Wrap(errors.ErrCodeInvalidToken, err, "inflate token")
	}
	if len(data) > MaxJSONLen {
		return component.Graph{}, errors.New(errors.ErrCodeInvalidToken, "token inflates beyond %d bytes", MaxJSONLen)
	}

	g, err := graph.Unmarshal(data)
	if err != nil {
		return component.Graph{}, errors.Wrap(errors.ErrCodeInvalidToken, err, "token payload")
	}
	return g, nil
}

// ShareURL returns base with the token of g in the [Param] query parameter.
// Other query parameters and the fragment of base are kept.
func ShareURL(base string, g component.Graph) (string, error) {
	return WithToken(base, Encode(g))
}

// WithToken is [ShareURL] for a token that was already encoded.
func WithToken(base, token string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "parse base url")
	}
	q := u.Query()
	q.Set(Param, token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// TokenFromURL returns the value of the [Param] query parameter of raw, or
// "" when it has none.
func TokenFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "parse url")
	}
	return u.Query().Get(Param), nil
}

// FromURL restores the graph shared in raw, falling back to the empty graph
// when the URL, the parameter or the token is missing or invalid.
func FromURL(raw string) component.Graph {
	token, err := TokenFromURL(raw)
	if err != nil {
		return component.Graph{}
	}
	g, _ := Decode(token)
	return g
}
