// Package cache provides byte caches for built lattices and rendered
// diagrams.
//
// Three backends implement [Cache]:
//
//   - [NullCache]: caching disabled
//   - [FileCache]: one JSON entry file per key under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//
// Keys come from a [Keyer] and are SHA-256 hashes of their inputs, so equal
// build inputs hit the same entry regardless of backend.
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes.
const (
	TTLLattice = 7 * 24 * time.Hour
	TTLRender  = 24 * time.Hour
)

// Cache stores opaque byte values by key.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores a value. A non-positive ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes a key. Removing a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Keyer derives cache keys.
type Keyer interface {
	// LatticeKey keys a built lattice by the hash of its canonical input.
	LatticeKey(inputHash string, opts LatticeKeyOpts) string
	// RenderKey keys a rendered diagram by the hash of its lattice document.
	RenderKey(latticeHash string, opts RenderKeyOpts) string
}

// LatticeKeyOpts holds the build settings that change the result but are
// not part of the input document.
type LatticeKeyOpts struct {
	SeqType      string `json:"seq_type"`
	CheckClosure bool   `json:"check_closure"`
}

// RenderKeyOpts holds the render settings.
type RenderKeyOpts struct {
	Format string `json:"format"`
	Faces  bool   `json:"faces"`
	Ranks  bool   `json:"ranks"`
}

// DefaultKeyer produces "lattice:<sha256>" and "render:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LatticeKey implements [Keyer].
func (DefaultKeyer) LatticeKey(inputHash string, opts LatticeKeyOpts) string {
	return hashKey("lattice", inputHash, opts)
}

// RenderKey implements [Keyer].
func (DefaultKeyer) RenderKey(latticeHash string, opts RenderKeyOpts) string {
	return hashKey("render", latticeHash, opts)
}
