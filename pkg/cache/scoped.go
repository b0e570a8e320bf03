package cache

// ScopedKeyer prefixes every key of an inner Keyer, so that several
// services can share one Redis or MongoDB instance:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "massform:v1:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or a DefaultKeyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// EnvelopeKey returns the prefixed envelope key.
func (k *ScopedKeyer) EnvelopeKey(configHash string, opts EnvelopeKeyOpts) string {
	return k.prefix + k.inner.EnvelopeKey(configHash, opts)
}

// ArtifactKey returns the prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(envelopeHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(envelopeHash, opts)
}
