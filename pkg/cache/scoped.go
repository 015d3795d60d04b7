package cache

import "time"

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// Render hosts sharing one Redis instance use it to keep their entries
// apart, since bounds keys embed host-local paths.
//
// Example usage:
//
//	farmKeyer := NewScopedKeyer(NewDefaultKeyer(), "farm-a:")
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

// BoundsKey generates a prefixed key for mesh bounds.
func (k *ScopedKeyer) BoundsKey(path string, size int64, modTime time.Time) string {
	return k.prefix + k.inner.BoundsKey(path, size, modTime)
}

// SceneKey generates a prefixed key for composed scenes.
func (k *ScopedKeyer) SceneKey(sequenceHash string, opts SceneKeyOpts) string {
	return k.prefix + k.inner.SceneKey(sequenceHash, opts)
}
