package mimo

import (
	"log/slog"
	"time"

	"github.com/aretw0/mimo/pkg/chunk"
)

// options holds the internal configuration for the Service.
type options struct {
	logger       *slog.Logger
	strict       bool
	sizeCap      int
	contractPath string
	enrichment   chunk.Enrichment
	now          func() time.Time
}

// Option defines a functional option for configuring the Service.
type Option func(*options)

// defaultOptions returns the default configuration: lenient validation,
// embedded v1.1 contract, no enrichment.
func defaultOptions() *options {
	return &options{
		sizeCap: -1, // -1 means "validator default"
		now:     time.Now,
	}
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithStrict escalates the snapshot size cap from warning to error.
func WithStrict(strict bool) Option {
	return func(o *options) { o.strict = strict }
}

// WithSnapshotSizeCap overrides the decompressed snapshot size threshold.
// Zero disables the check.
func WithSnapshotSizeCap(n int) Option {
	return func(o *options) { o.sizeCap = n }
}

// WithContractPath loads the v1.1 structural contract from a file instead
// of the embedded default.
func WithContractPath(path string) Option {
	return func(o *options) { o.contractPath = path }
}

// WithEnrichment injects a caption capability (OCR, speech to text) used
// by the packer for non-text assets.
func WithEnrichment(e chunk.Enrichment) Option {
	return func(o *options) { o.enrichment = e }
}

// WithClock overrides the time source (useful for testing).
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}
