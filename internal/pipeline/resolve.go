package pipeline

import (
	"net/url"
	"path"
	"strings"
)

// Resolver maps raw image references to fetchable locators using the
// post's attachment manifest. Absolute references pass through untouched;
// relative ones are matched against the manifest by full relative path or
// by file name (both case-insensitive) and joined with the attachment
// base URL. A miss is reported as ok=false, never as an error: the caller
// degrades the image to its alt text.
type Resolver struct {
	baseURL string
	byPath  map[string]string // lowercase relative path -> manifest entry
	byName  map[string]string // lowercase file name -> manifest entry
}

// NewResolver builds a resolver over the given manifest. Earlier manifest
// entries win when two share a file name.
func NewResolver(baseURL string, manifest []string) *Resolver {
	r := &Resolver{
		baseURL: baseURL,
		byPath:  make(map[string]string, len(manifest)),
		byName:  make(map[string]string, len(manifest)),
	}
	for _, entry := range manifest {
		cleaned := strings.TrimPrefix(strings.TrimSpace(entry), "./")
		if cleaned == "" {
			continue
		}
		lowerPath := strings.ToLower(cleaned)
		if _, ok := r.byPath[lowerPath]; !ok {
			r.byPath[lowerPath] = cleaned
		}
		lowerName := strings.ToLower(path.Base(cleaned))
		if _, ok := r.byName[lowerName]; !ok {
			r.byName[lowerName] = cleaned
		}
	}
	return r
}

// Resolve returns the fetchable locator for a raw image reference.
// ok is false when the reference cannot be matched.
func (r *Resolver) Resolve(raw string) (resolved string, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	if u, err := url.Parse(raw); err == nil && u.IsAbs() {
		return raw, true
	}

	rel := stripQueryFragment(strings.TrimPrefix(raw, "./"))
	if rel == "" {
		return "", false
	}

	entry, found := r.byPath[strings.ToLower(rel)]
	if !found {
		entry, found = r.byName[strings.ToLower(path.Base(rel))]
	}
	if !found || r.baseURL == "" {
		return "", false
	}

	joined, err := url.JoinPath(r.baseURL, entry)
	if err != nil {
		return "", false
	}
	return joined, true
}

// stripQueryFragment drops everything from the first '?' or '#'.
func stripQueryFragment(s string) string {
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		return s[:i]
	}
	return s
}
