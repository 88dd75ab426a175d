package cache

// ScopedKeyer wraps a Keyer with a prefix so several datasets can share one
// backend without colliding.
//
// Example usage:
//
//	// Keys for one published tree
//	treeKeyer := NewScopedKeyer(NewDefaultKeyer(), "tree:smith-family:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// GraphKey generates a prefixed key for relationship graph caching.
func (k *ScopedKeyer) GraphKey(fileHash string, opts GraphKeyOpts) string {
	return k.prefix + k.inner.GraphKey(fileHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(graphHash, opts)
}
