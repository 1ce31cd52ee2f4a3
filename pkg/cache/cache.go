// Package cache stores computed layouts and rendered artifacts so repeated
// requests for the same graph skip the layout and Graphviz passes.
//
// Entries are addressed by content: a [Keyer] derives keys from the hash of
// the input (canonical graph or layout JSON) plus the options that shaped the
// output. Backends are interchangeable:
//
//   - [FileCache] for the CLI (one file per entry under the cache dir)
//   - [RedisCache] for a shared server deployment
//   - [NewNullCache] when caching is disabled
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Default lifetimes of cached entries. Layouts are cheap to recompute,
// SVG renders are not.
const (
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every entry and reports how many were removed.
	Clear(ctx context.Context) (int, error)

	Close() error
}

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Keyer derives cache keys.
type Keyer interface {
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds the layout settings that change the computed layout.
type LayoutKeyOpts struct {
	NodeWidth  float64 `json:"node_width"`
	NodeHeight float64 `json:"node_height"`
	NodeSep    float64 `json:"node_sep"`
	RankSep    float64 `json:"rank_sep"`
	Sweeps     int     `json:"sweeps"`
}

// ArtifactKeyOpts holds the render settings that change an artifact.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed"`
}

// DefaultKeyer builds keys of the form kind:input:opts, where opts is a
// short digest of the option struct. Keeping the input hash readable lets
// an operator find every entry derived from one graph.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns the key of a layout computed from a graph.
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return "layout:" + graphHash + ":" + optsDigest(opts)
}

// ArtifactKey returns the key of an artifact rendered from a layout.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return "artifact:" + layoutHash + ":" + opts.Format + ":" + optsDigest(opts)
}

func optsDigest(opts any) string {
	data, _ := json.Marshal(opts)
	return Hash(data)[:16]
}

// WithPrefix scopes the keys of inner (DefaultKeyer when nil) under prefix,
// so several releases or deployments can share one Redis without serving
// each other's entries.
//
//	keyer := cache.WithPrefix(nil, "v1.2.0:")
func WithPrefix(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	if prefix == "" {
		return inner
	}
	return prefixKeyer{inner: inner, prefix: prefix}
}

type prefixKeyer struct {
	inner  Keyer
	prefix string
}

func (k prefixKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(graphHash, opts)
}

func (k prefixKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}

// NewNullCache returns a cache that stores nothing, for --no-cache and tests.
func NewNullCache() Cache { return nullCache{} }

type nullCache struct{}

func (nullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (nullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (nullCache) Delete(context.Context, string) error { return nil }
func (nullCache) Clear(context.Context) (int, error) { return 0, nil }
func (nullCache) Close() error { return nil }
