package postpdf

import (
	"regexp"
	"strings"
)

// nonAlphanumeric matches runs of characters collapsed to one separator.
var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// defaultFileStem is used when the title yields an empty slug.
const defaultFileStem = "post"

// SuggestedFileName returns the download file name for a post title:
// a lower-cased URL-safe slug with the .pdf extension. Non-alphanumeric
// runs collapse to a single hyphen and leading/trailing hyphens are
// trimmed; an empty slug falls back to "post".
func SuggestedFileName(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = nonAlphanumeric.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = defaultFileStem
	}
	return slug + ".pdf"
}
