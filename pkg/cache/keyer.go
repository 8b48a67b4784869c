package cache

// Keyer builds cache keys.
type Keyer interface {
	// HeaderKey identifies the header generated for a level's text.
	HeaderKey(name, textHash string) string
}

// DefaultKeyer generates unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// HeaderKey returns "header:<hash(name, textHash)>".
func (DefaultKeyer) HeaderKey(name, textHash string) string {
	return hashKey("header", name, textHash)
}

// ScopedKeyer wraps a Keyer with a prefix so several level directories
// can share one cache directory.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "root:"+cfg.Levels.Root+":")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer uses DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// HeaderKey generates a prefixed header key.
func (k *ScopedKeyer) HeaderKey(name, textHash string) string {
	return k.prefix + k.inner.HeaderKey(name, textHash)
}
