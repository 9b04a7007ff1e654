package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // decoder registration
	"image/jpeg"
	_ "image/png" // decoder registration
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	_ "golang.org/x/image/bmp"  // decoder registration
	_ "golang.org/x/image/tiff" // decoder registration
	_ "golang.org/x/image/webp" // decoder registration

	xdraw "golang.org/x/image/draw"
	"golang.org/x/sync/singleflight"
)

// Sentinel errors for transcoding failures. All of them collapse to the
// same caller behavior: the image degrades to its alt text.
var (
	ErrFetch  = errors.New("image fetch failed")
	ErrDecode = errors.New("image decode failed")
	ErrEncode = errors.New("image encode failed")
)

// maxImageBytes caps a single fetched resource.
const maxImageBytes = 32 << 20

// ResolvedImage is a decoded-and-recompressed raster asset ready for
// embedding. Immutable once constructed.
type ResolvedImage struct {
	Source string // resolved locator the bytes were fetched from
	Width  int    // pixel width of the decoded raster
	Height int    // pixel height of the decoded raster
	Data   []byte // baseline JPEG bytes
}

// Fetcher retrieves raw bytes for an absolute locator. It is the only
// network-facing seam in the pipeline.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher fetches over HTTP with a bounded per-request timeout.
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher creates an HTTPFetcher whose requests time out after d.
func NewHTTPFetcher(d time.Duration) *HTTPFetcher {
	return &HTTPFetcher{Client: &http.Client{Timeout: d}}
}

// Fetch retrieves the resource at url. Non-2xx responses are errors.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrFetch, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("%w: resource exceeds %d bytes", ErrFetch, maxImageBytes)
	}
	return data, nil
}

// transcodeResult caches a completed transcode, success or failure, so a
// locator is never fetched twice within one build.
type transcodeResult struct {
	img *ResolvedImage
	err error
}

// Transcoder fetches, decodes and re-encodes images, deduplicating by
// resolved locator. Its cache is scoped to one document build: create one
// Transcoder per Generate call and discard it afterwards.
//
// Concurrent requests for the same locator are coalesced atomically, so
// the fetch and the decode/encode work happen at most once per distinct
// locator even when the build fetches in parallel.
type Transcoder struct {
	fetcher Fetcher
	quality int
	logger  *slog.Logger

	group singleflight.Group
	mu    sync.Mutex
	done  map[string]transcodeResult
}

// NewTranscoder creates a build-scoped Transcoder. A nil logger discards.
func NewTranscoder(f Fetcher, quality int, logger *slog.Logger) *Transcoder {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Transcoder{
		fetcher: f,
		quality: quality,
		logger:  logger,
		done:    make(map[string]transcodeResult),
	}
}

// Transcode returns the embeddable form of the image at url. Network,
// decode and encode failures are returned as errors for the caller to
// degrade on; they are also logged here since the caller won't surface
// them further.
func (t *Transcoder) Transcode(ctx context.Context, url string) (*ResolvedImage, error) {
	t.mu.Lock()
	if res, ok := t.done[url]; ok {
		t.mu.Unlock()
		return res.img, res.err
	}
	t.mu.Unlock()

	v, err, _ := t.group.Do(url, func() (any, error) {
		img, err := t.transcodeOnce(ctx, url)
		t.mu.Lock()
		t.done[url] = transcodeResult{img: img, err: err}
		t.mu.Unlock()
		if err != nil {
			return nil, err
		}
		return img, nil
	})
	if err != nil {
		t.logger.Warn("image unavailable", "url", url, "error", err)
		return nil, err
	}
	return v.(*ResolvedImage), nil
}

// transcodeOnce does the actual fetch/decode/encode work.
func (t *Transcoder) transcodeOnce(ctx context.Context, url string) (*ResolvedImage, error) {
	raw, err := t.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	bounds := src.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("%w: empty raster", ErrDecode)
	}

	// Flatten onto RGB so the JPEG always has three components, matching
	// the /DeviceRGB declaration on the embedded object.
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	xdraw.Draw(rgba, rgba.Bounds(), src, bounds.Min, xdraw.Src)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, rgba, &jpeg.Options{Quality: t.quality}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}

	return &ResolvedImage{
		Source: url,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Data:   buf.Bytes(),
	}, nil
}
