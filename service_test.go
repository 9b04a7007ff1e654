package postpdf

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"regexp"
	"strings"
	"sync"
	"testing"
)

// mockFetcher serves canned image bytes and records every fetch.
type mockFetcher struct {
	mu    sync.Mutex
	calls []string
	data  map[string][]byte
}

func newMockFetcher() *mockFetcher {
	return &mockFetcher{data: make(map[string][]byte)}
}

func (m *mockFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, url)
	data, ok := m.data[url]
	if !ok {
		return nil, fmt.Errorf("mock: no data for %s", url)
	}
	return data, nil
}

func (m *mockFetcher) fetchCount(url string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == url {
			n++
		}
	}
	return n
}

// testPNG encodes a solid raster for fetch payloads.
func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0x40
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test PNG: %v", err)
	}
	return buf.Bytes()
}

var textOpPattern = regexp.MustCompile(`\(([^)]*)\) Tj`)

// shownText extracts every text-show payload from the buffer, in order.
func shownText(buf []byte) []string {
	var out []string
	for _, m := range textOpPattern.FindAllSubmatch(buf, -1) {
		out = append(out, string(m[1]))
	}
	return out
}

func pageCount(t *testing.T, buf []byte) int {
	t.Helper()
	m := regexp.MustCompile(`/Count (\d+)`).FindSubmatch(buf)
	if m == nil {
		t.Fatal("no /Count entry in buffer")
	}
	var n int
	fmt.Sscanf(string(m[1]), "%d", &n)
	return n
}

func TestGenerateBasicPost(t *testing.T) {
	fetcher := newMockFetcher()
	fetcher.data["https://files.test/attachments/chart.png"] = testPNG(t, 60, 40)

	svc := New(WithFetcher(fetcher))
	res, err := svc.Generate(context.Background(), Input{
		Title:             "A Study of X",
		Authors:           "J. Doe",
		Abstract:          "Short summary.",
		Body:              "Results were good.\n\n![chart](chart.png)",
		Attachments:       []string{"attachments/chart.png"},
		AttachmentBaseURL: "https://files.test/",
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if res.Pages != 1 {
		t.Errorf("Pages = %d, want 1", res.Pages)
	}
	if res.Images != 1 {
		t.Errorf("Images = %d, want 1", res.Images)
	}
	if n := pageCount(t, res.PDF); n != 1 {
		t.Errorf("document /Count = %d, want 1", n)
	}

	want := []string{"A Study of X", "J. Doe", "Short summary.", "Results were good.", "chart"}
	got := shownText(res.PDF)
	if len(got) != len(want) {
		t.Fatalf("text lines = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}

	if !bytes.Contains(res.PDF, []byte("/Filter /DCTDecode")) {
		t.Error("no embedded image object")
	}
	if fetcher.fetchCount("https://files.test/attachments/chart.png") != 1 {
		t.Errorf("fetch count = %d, want 1", fetcher.fetchCount("https://files.test/attachments/chart.png"))
	}
}

func TestGenerateImageDedup(t *testing.T) {
	const url = "https://files.test/attachments/chart.png"
	fetcher := newMockFetcher()
	fetcher.data[url] = testPNG(t, 10, 10)

	svc := New(WithFetcher(fetcher))
	res, err := svc.Generate(context.Background(), Input{
		Title:             "Twice",
		Body:              "![a](chart.png)\n\n![b](attachments/chart.png)",
		Attachments:       []string{"attachments/chart.png"},
		AttachmentBaseURL: "https://files.test/",
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if fetcher.fetchCount(url) != 1 {
		t.Errorf("fetch count = %d, want 1 (same resolved locator)", fetcher.fetchCount(url))
	}
	if res.Images != 1 {
		t.Errorf("Images = %d, want 1", res.Images)
	}
	if n := bytes.Count(res.PDF, []byte("/Filter /DCTDecode")); n != 1 {
		t.Errorf("image objects = %d, want 1", n)
	}
	if n := bytes.Count(res.PDF, []byte(" Do\n")); n != 2 {
		t.Errorf("image draw operators = %d, want 2", n)
	}
}

func TestGenerateUnresolvedImageDegrades(t *testing.T) {
	fetcher := newMockFetcher()

	svc := New(WithFetcher(fetcher))
	res, err := svc.Generate(context.Background(), Input{
		Title: "Missing",
		Body:  "![my chart](nowhere.png)",
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if len(fetcher.calls) != 0 {
		t.Errorf("fetches = %d, want 0", len(fetcher.calls))
	}
	if res.Images != 0 {
		t.Errorf("Images = %d, want 0", res.Images)
	}
	if bytes.Contains(res.PDF, []byte("/XObject")) {
		t.Error("degraded image must not produce an XObject")
	}

	got := shownText(res.PDF)
	found := false
	for _, line := range got {
		if line == "my chart" {
			found = true
		}
	}
	if !found {
		t.Errorf("alt text line missing from %q", got)
	}
}

func TestGenerateAllImagesFailing(t *testing.T) {
	fetcher := newMockFetcher() // knows no URLs: every fetch fails

	svc := New(WithFetcher(fetcher))
	res, err := svc.Generate(context.Background(), Input{
		Title:             "Broken",
		Body:              "![first](a.png)\n\n![second](b.png)",
		Attachments:       []string{"a.png", "b.png"},
		AttachmentBaseURL: "https://files.test/",
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if res.Images != 0 {
		t.Errorf("Images = %d, want 0", res.Images)
	}
	got := shownText(res.PDF)
	joined := strings.Join(got, "|")
	if !strings.Contains(joined, "first") || !strings.Contains(joined, "second") {
		t.Errorf("fallback caption lines missing from %q", got)
	}
	if bytes.Contains(res.PDF, []byte("/DCTDecode")) {
		t.Error("failed images must not be embedded")
	}
}

func TestGenerateMultiPageContinuity(t *testing.T) {
	var body strings.Builder
	var want []string
	want = append(want, "Long")
	for i := 0; i < 60; i++ {
		line := fmt.Sprintf("paragraph %03d", i)
		fmt.Fprintf(&body, "%s\n\n", line)
		want = append(want, line)
	}

	svc := New(WithFetcher(newMockFetcher()))
	res, err := svc.Generate(context.Background(), Input{
		Title: "Long",
		Body:  body.String(),
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if res.Pages < 2 {
		t.Fatalf("Pages = %d, want >= 2", res.Pages)
	}

	got := shownText(res.PDF)
	if len(got) != len(want) {
		t.Fatalf("lines = %d, want %d (no line duplicated or dropped)", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestGenerateEmptyInput(t *testing.T) {
	svc := New(WithFetcher(newMockFetcher()))
	res, err := svc.Generate(context.Background(), Input{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if res.Pages != 1 {
		t.Errorf("Pages = %d, want 1", res.Pages)
	}
	got := shownText(res.PDF)
	if len(got) != 1 {
		t.Fatalf("lines = %q, want exactly the placeholder", got)
	}
	if !strings.Contains(got[0], "no content") {
		t.Errorf("placeholder line = %q", got[0])
	}
}

func TestGenerateCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := New(WithFetcher(newMockFetcher()))
	if _, err := svc.Generate(ctx, Input{Title: "X"}); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestWithOptionPanics(t *testing.T) {
	tests := []struct {
		name string
		call func()
	}{
		{"zero timeout", func() { WithTimeout(0) }},
		{"quality too low", func() { WithJPEGQuality(0) }},
		{"quality too high", func() { WithJPEGQuality(101) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.call()
		})
	}
}
