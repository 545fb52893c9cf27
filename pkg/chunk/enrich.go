package chunk

// Enrichment turns a non-text asset into a text caption (OCR, speech to
// text). It is an injected capability: the packer never imports a concrete
// implementation, and the default declines everything, so media files are
// simply skipped unless the caller wires an enricher in.
type Enrichment interface {
	// Describe returns a caption for the asset at path, or false when the
	// asset cannot (or should not) be described.
	Describe(path string) (string, bool)
}

// NoEnrichment is the no-op default.
type NoEnrichment struct{}

// Describe always declines.
func (NoEnrichment) Describe(string) (string, bool) { return "", false }

var _ Enrichment = NoEnrichment{}
