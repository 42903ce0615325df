// Package cache stores computed layouts so identical requests are answered
// without running the engine again.
//
// # Backends
//
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for several API instances
//   - [MongoCache]: document store with a TTL index
//
// # Keys
//
// A [Keyer] turns a request into a key. Keys are content hashes, so the
// same nodes, edges and options always map to the same entry.
// [ScopedKeyer] prefixes keys to keep namespaces apart in shared backends.
package cache

import (
	"context"
	"time"
)

// Cache is the storage interface every backend implements.
// A miss is reported as (nil, false, nil), never as an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default time-to-live values.
const (
	// TTLLayout is how long a computed layout stays cached. Layouts are a
	// pure function of their request, so the bound only limits disk use.
	TTLLayout = 7 * 24 * time.Hour

	// TTLRender is how long a rendered preview stays cached.
	TTLRender = 24 * time.Hour

	// TTLNone stores an entry without expiry.
	TTLNone time.Duration = 0
)

// =============================================================================
// Keyer
// =============================================================================

// Keyer generates cache keys.
type Keyer interface {
	// LayoutKey returns the key of a layout for the graph with the given
	// content hash, computed with opts.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// RenderKey returns the key of a rendered preview of the layout with
	// the given content hash.
	RenderKey(layoutHash string, opts RenderKeyOpts) string
}

// LayoutKeyOpts holds the request options that change a layout's result.
type LayoutKeyOpts struct {
	Algorithm string    `json:"algorithm"`
	Seed      uint64    `json:"seed"`
	Scale     float64   `json:"scale,omitempty"`
	Center    []float64 `json:"center,omitempty"`
	Settings  string    `json:"settings,omitempty"`
}

// RenderKeyOpts holds the preview options that change a rendered artifact.
type RenderKeyOpts struct {
	Format   string  `json:"format"`
	Unit     float64 `json:"unit,omitempty"`
	Directed bool    `json:"directed,omitempty"`
	Labels   bool    `json:"labels,omitempty"`
}

// DefaultKeyer builds keys of the form "layout:<sha256>" and "render:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// LayoutKey implements Keyer.
func (k *DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// RenderKey implements Keyer.
func (k *DefaultKeyer) RenderKey(layoutHash string, opts RenderKeyOpts) string {
	return hashKey("render", layoutHash, opts)
}
