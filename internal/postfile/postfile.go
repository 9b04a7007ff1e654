// Package postfile loads YAML post descriptions for the CLI.
//
// A post file carries the fields the generator needs:
//
//	title: A Study of X
//	authors: J. Doe, A. Nother
//	abstract: Short summary.
//	body: |
//	  Results were good.
//
//	  ![chart](chart.png)
//	attachments:
//	  - attachments/chart.png
//	attachmentBaseURL: https://files.example.com/posts/42/
//
// The body may instead reference a markdown file via bodyFile, resolved
// relative to the post file's directory.
package postfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

// Sentinel errors for post file operations.
var (
	ErrPostNotFound      = errors.New("post file not found")
	ErrPostParse         = errors.New("failed to parse post file")
	ErrBodyConflict      = errors.New("body and bodyFile are mutually exclusive")
	ErrFieldTooLong      = errors.New("field exceeds maximum length")
	ErrInvalidAttachment = errors.New("invalid attachment entry")
)

// Field length limits, matching what the surrounding application accepts.
const (
	MaxTitleLength    = 300
	MaxAuthorsLength  = 500
	MaxAbstractLength = 10_000
	MaxBodyLength     = 1 << 20 // 1 MiB of markdown
	MaxURLLength      = 2048    // browser limit
	MaxAttachments    = 100
)

// Post is the parsed post description.
type Post struct {
	Title             string   `yaml:"title"`
	Authors           string   `yaml:"authors"`
	Abstract          string   `yaml:"abstract"`
	Body              string   `yaml:"body"`
	BodyFile          string   `yaml:"bodyFile"`
	Attachments       []string `yaml:"attachments"`
	AttachmentBaseURL string   `yaml:"attachmentBaseURL"`
}

// Load reads, parses and validates a post file. A bodyFile reference is
// read into Body before validation, so callers always see the final
// markdown in Body.
func Load(path string) (*Post, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrPostNotFound, path)
		}
		return nil, fmt.Errorf("reading post file: %w", err)
	}

	var post Post
	if err := yaml.Unmarshal(data, &post); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPostParse, err)
	}

	if post.BodyFile != "" {
		if post.Body != "" {
			return nil, ErrBodyConflict
		}
		bodyPath := post.BodyFile
		if !filepath.IsAbs(bodyPath) {
			bodyPath = filepath.Join(filepath.Dir(path), bodyPath)
		}
		body, err := os.ReadFile(bodyPath) // #nosec G304 -- user-provided path
		if err != nil {
			return nil, fmt.Errorf("reading body file %q: %w", post.BodyFile, err)
		}
		post.Body = string(body)
	}

	if err := post.Validate(); err != nil {
		return nil, err
	}
	return &post, nil
}

// Validate checks field lengths against the configured limits.
func (p *Post) Validate() error {
	checks := []struct {
		name  string
		value string
		max   int
	}{
		{"title", p.Title, MaxTitleLength},
		{"authors", p.Authors, MaxAuthorsLength},
		{"abstract", p.Abstract, MaxAbstractLength},
		{"body", p.Body, MaxBodyLength},
		{"attachmentBaseURL", p.AttachmentBaseURL, MaxURLLength},
	}
	for _, c := range checks {
		if len(c.value) > c.max {
			return fmt.Errorf("%w: %s (%d > %d)", ErrFieldTooLong, c.name, len(c.value), c.max)
		}
	}

	if len(p.Attachments) > MaxAttachments {
		return fmt.Errorf("%w: attachments (%d > %d)", ErrFieldTooLong, len(p.Attachments), MaxAttachments)
	}
	for i, a := range p.Attachments {
		if strings.TrimSpace(a) == "" {
			return fmt.Errorf("%w: attachments[%d] is blank", ErrInvalidAttachment, i)
		}
	}
	return nil
}
