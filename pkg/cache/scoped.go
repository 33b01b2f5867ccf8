package cache

// ScopedKeyer wraps a Keyer with a prefix, so several servers or users can
// share one Redis instance without seeing each other's entries.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "hasse:prod:")
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

// LatticeKey generates a prefixed lattice key.
func (k *ScopedKeyer) LatticeKey(inputHash string, opts LatticeKeyOpts) string {
	return k.prefix + k.inner.LatticeKey(inputHash, opts)
}

// RenderKey generates a prefixed render key.
func (k *ScopedKeyer) RenderKey(latticeHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(latticeHash, opts)
}
