package cache

// Keyer generates cache keys.
type Keyer interface {
	// EnvelopeKey keys a finalized envelope by the hash of its build config.
	EnvelopeKey(configHash string, opts EnvelopeKeyOpts) string

	// ArtifactKey keys an export (GeoJSON plan, DOT, SVG) of an envelope.
	ArtifactKey(envelopeHash string, opts ArtifactKeyOpts) string
}

// EnvelopeKeyOpts holds the pipeline stages that shaped an envelope beyond
// its massing config.
type EnvelopeKeyOpts struct {
	Variant     string  `json:"variant"`
	Windows     bool    `json:"windows"`
	Skylights   bool    `json:"skylights"`
	Door        bool    `json:"door"`
	Orientation float64 `json:"orientation"`
}

// ArtifactKeyOpts identifies an export format.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
}

// DefaultKeyer hashes key options together with the content hash.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// EnvelopeKey returns "envelope:<sha256>".
func (DefaultKeyer) EnvelopeKey(configHash string, opts EnvelopeKeyOpts) string {
	return hashKey("envelope", configHash, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(envelopeHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", envelopeHash, opts)
}

var _ Keyer = DefaultKeyer{}
