// Package pipeline contains the content-side stages of PDF generation:
// markup stripping, attachment reference resolution, image transcoding,
// and character-budget text layout.
//
// Stages are pure transformations except the transcoder, whose fetches go
// through the Fetcher seam and are deduplicated per build. Every stage
// degrades gracefully: a broken image never aborts a build.
package pipeline
