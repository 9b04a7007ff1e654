package postpdf

import (
	"log/slog"
	"time"

	"github.com/alnah/go-postpdf/internal/pipeline"
)

// Input contains the post fields to render.
// All fields are optional; an entirely empty input still produces a
// minimal valid document with a single placeholder line.
type Input struct {
	Title    string // plain title, used for the first line and the file name
	Authors  string // author line (optional)
	Abstract string // abstract markdown (optional)
	Body     string // body markdown (optional)

	// Attachments is the manifest of attachment paths belonging to the
	// post. Relative image references in the body are matched against it
	// by file name or full relative path.
	Attachments []string

	// AttachmentBaseURL is joined with matched manifest entries to form
	// fetchable locators. When empty, relative references cannot resolve
	// and degrade to their alt text.
	AttachmentBaseURL string
}

// Result holds the generated document and build statistics.
type Result struct {
	PDF    []byte
	Pages  int // page count of the emitted document
	Images int // distinct images embedded (after dedup and failures)
}

// Option configures a Service.
type Option func(*Service)

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	timeout time.Duration
	quality int
	logger  *slog.Logger
}

// Defaults used when no option overrides them.
const (
	// defaultTimeout bounds each image fetch. In-flight fetches are not
	// forcibly aborted beyond it; a slow image degrades to its alt text.
	defaultTimeout = 30 * time.Second

	// defaultJPEGQuality is the fixed baseline re-encode quality factor.
	defaultJPEGQuality = 85
)

// WithTimeout sets the per-fetch timeout for image downloads.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("postpdf: WithTimeout duration must be positive")
	}
	return func(s *Service) {
		s.cfg.timeout = d
	}
}

// WithJPEGQuality sets the re-encode quality factor (1-100).
// Panics if q is out of range (programmer error).
func WithJPEGQuality(q int) Option {
	if q < 1 || q > 100 {
		panic("postpdf: WithJPEGQuality must be between 1 and 100")
	}
	return func(s *Service) {
		s.cfg.quality = q
	}
}

// WithLogger sets the logger used for degraded-image diagnostics.
// Pass nil to discard (the default).
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.cfg.logger = l
	}
}

// WithFetcher replaces the network seam used to retrieve image bytes.
// Intended for tests and callers with custom transport needs.
func WithFetcher(f pipeline.Fetcher) Option {
	return func(s *Service) {
		s.fetcher = f
	}
}
