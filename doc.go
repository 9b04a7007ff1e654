// Package postpdf renders a research post (title, author line, abstract,
// markdown body) into a standalone PDF without delegating to an external
// document engine.
//
// # Quick Start
//
// Create a service and generate:
//
//	svc := postpdf.New()
//
//	res, err := svc.Generate(ctx, postpdf.Input{
//	    Title:    "A Study of X",
//	    Authors:  "J. Doe",
//	    Abstract: "Short summary.",
//	    Body:     "Results were good.\n\n![chart](chart.png)",
//	    Attachments:       []string{"attachments/chart.png"},
//	    AttachmentBaseURL: "https://files.example.com/posts/42/",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(postpdf.SuggestedFileName("A Study of X"), res.PDF, 0644)
//
// # Generation Pipeline
//
// The pipeline is linear, leaves first:
//
//  1. Markup stripping (goldmark AST walk into text and image items)
//  2. Image reference resolution against the attachment manifest
//  3. Image transcoding (fetch, decode, baseline JPEG re-encode, per-build
//     dedup cache)
//  4. Character-budget text wrapping
//  5. Page composition (fixed US Letter geometry)
//  6. PDF object serialization (cross-reference table, trailer)
//
// Broken or unresolvable images degrade to their alt text; only a
// serialization fault aborts generation. Any non-crashing input produces a
// valid PDF, even an entirely empty post.
//
// # Configuration
//
// Use functional options to customize the service:
//
//	svc := postpdf.New(
//	    postpdf.WithTimeout(10 * time.Second),
//	    postpdf.WithJPEGQuality(90),
//	    postpdf.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, nil))),
//	)
//
// WithFetcher swaps the single network-facing seam, which is how tests
// inject canned image bytes.
package postpdf
