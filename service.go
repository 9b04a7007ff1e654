package postpdf

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-postpdf/internal/pdf"
	"github.com/alnah/go-postpdf/internal/pipeline"
)

// Compile-time interface implementation checks.
var _ pipeline.Fetcher = (*pipeline.HTTPFetcher)(nil)

// maxConcurrentFetches bounds parallel image downloads within one build.
const maxConcurrentFetches = 4

// placeholderLine appears when the post has no renderable content at all,
// so generation still yields a valid one-page document.
const placeholderLine = "This post has no content."

// Service generates PDFs from post fields. It is safe for concurrent use:
// all per-build state (notably the image dedup cache) is created inside
// Generate and discarded with it.
type Service struct {
	cfg     serviceConfig
	strip   *pipeline.Stripper
	fetcher pipeline.Fetcher
}

// New creates a Service with default configuration.
// Use options to customize behavior (e.g., WithTimeout, WithFetcher).
func New(opts ...Option) *Service {
	s := &Service{
		cfg: serviceConfig{
			timeout: defaultTimeout,
			quality: defaultJPEGQuality,
		},
		strip: pipeline.NewStripper(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.cfg.logger == nil {
		s.cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	// Create the fetcher if not injected (e.g., by tests)
	if s.fetcher == nil {
		s.fetcher = pipeline.NewHTTPFetcher(s.cfg.timeout)
	}

	return s
}

// Generate runs the full pipeline and returns the finished document.
// Unresolvable or broken images degrade to their alt text; only a
// serialization fault (wrapped in ErrPDFGeneration) or context
// cancellation fails the build, and neither ever yields a partial buffer.
func (s *Service) Generate(ctx context.Context, input Input) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	items := s.strip.StripFields(input.Title, input.Authors, input.Abstract, input.Body)

	images := s.fetchImages(ctx, items, input)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	layout := pipeline.BuildLayout(items, images, pipeline.MaxLineWidth)
	if len(layout) == 0 {
		layout = []pipeline.LayoutItem{pipeline.LineItem(placeholderLine)}
	}

	pages := pdf.Compose(layout)

	buf, err := pdf.WriteDocument(pages)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	return &Result{
		PDF:    buf,
		Pages:  len(pages),
		Images: countDistinct(images),
	}, nil
}

// fetchImages resolves and transcodes every image reference, bounded and
// concurrent. The returned map is keyed by the raw source reference;
// misses and failures are simply absent, which BuildLayout turns into
// alt-text lines.
func (s *Service) fetchImages(ctx context.Context, items []pipeline.ContentItem, input Input) map[string]*pipeline.ResolvedImage {
	resolver := pipeline.NewResolver(input.AttachmentBaseURL, input.Attachments)

	// raw source -> resolved locator
	resolved := make(map[string]string)
	for _, item := range items {
		if item.Kind != pipeline.KindImage {
			continue
		}
		if _, ok := resolved[item.Source]; ok {
			continue
		}
		locator, ok := resolver.Resolve(item.Source)
		if !ok {
			s.cfg.logger.Warn("image reference unresolved", "source", item.Source)
			continue
		}
		resolved[item.Source] = locator
	}

	// The transcoder's dedup cache is scoped to this build. Distinct raw
	// references that resolve to the same locator coalesce inside it.
	transcoder := pipeline.NewTranscoder(s.fetcher, s.cfg.quality, s.cfg.logger)

	images := make(map[string]*pipeline.ResolvedImage, len(resolved))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for raw, locator := range resolved {
		raw, locator := raw, locator
		g.Go(func() error {
			img, err := transcoder.Transcode(gctx, locator)
			if err != nil {
				return nil // degraded; the transcoder already logged it
			}
			mu.Lock()
			images[raw] = img
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return images
}

// countDistinct counts embedded images after dedup by resolved locator.
func countDistinct(images map[string]*pipeline.ResolvedImage) int {
	seen := make(map[string]struct{}, len(images))
	for _, img := range images {
		seen[img.Source] = struct{}{}
	}
	return len(seen)
}
