// Package cache stores derived artifacts of GEDCOM files, keyed by the hash
// of the file contents, so re-running a command on an unchanged file skips
// parsing and graph construction.
//
// Three backends implement [Cache]: [FileCache] for the CLI, [RedisCache]
// for the shared server, and [NullCache] when caching is disabled.
package cache

import (
	"context"
	"strings"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the cached data and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// GraphKeyOpts are the load options that change the resulting graph.
type GraphKeyOpts struct {
	AllowAnyVersion   bool     `json:"allow_any_version,omitempty"`
	SupportedVersions []string `json:"supported_versions,omitempty"`
}

// ArtifactKeyOpts identify one rendered output of a graph.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Root     string `json:"root,omitempty"`
	Mode     string `json:"mode,omitempty"`
	Detailed bool   `json:"detailed,omitempty"`
	Title    string `json:"title,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// GraphKey identifies the relationship graph of a file.
	GraphKey(fileHash string, opts GraphKeyOpts) string
	// ArtifactKey identifies a rendered output of a graph.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the options into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// GraphKey returns "graph:<sha256>".
func (DefaultKeyer) GraphKey(fileHash string, opts GraphKeyOpts) string {
	return hashKey("graph", fileHash, opts)
}

// ArtifactKey returns "artifact:<format>:<sha256>".
func (DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+strings.ToLower(opts.Format), graphHash, opts)
}
