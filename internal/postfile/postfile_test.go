package postfile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "post.yaml", `
title: A Study of X
authors: J. Doe
abstract: Short summary.
body: |
  Results were good.

  ![chart](chart.png)
attachments:
  - attachments/chart.png
attachmentBaseURL: https://files.example.com/posts/42/
`)

	post, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if post.Title != "A Study of X" {
		t.Errorf("Title = %q", post.Title)
	}
	if post.Authors != "J. Doe" {
		t.Errorf("Authors = %q", post.Authors)
	}
	if !strings.Contains(post.Body, "![chart](chart.png)") {
		t.Errorf("Body = %q", post.Body)
	}
	if len(post.Attachments) != 1 || post.Attachments[0] != "attachments/chart.png" {
		t.Errorf("Attachments = %v", post.Attachments)
	}
	if post.AttachmentBaseURL != "https://files.example.com/posts/42/" {
		t.Errorf("AttachmentBaseURL = %q", post.AttachmentBaseURL)
	}
}

func TestLoadBodyFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "body.md", "# Heading\n\nBody from file.\n")
	path := writeFile(t, dir, "post.yaml", `
title: External Body
bodyFile: body.md
`)

	post, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !strings.Contains(post.Body, "Body from file.") {
		t.Errorf("Body = %q, want contents of body.md", post.Body)
	}
}

func TestLoadBodyFileMissing(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "post.yaml", `
title: X
bodyFile: nope.md
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for missing body file")
	}
}

func TestLoadBodyConflict(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "post.yaml", `
title: X
body: inline
bodyFile: body.md
`)

	_, err := Load(path)
	if !errors.Is(err, ErrBodyConflict) {
		t.Errorf("Load() error = %v, want ErrBodyConflict", err)
	}
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, ErrPostNotFound) {
		t.Errorf("Load() error = %v, want ErrPostNotFound", err)
	}
}

func TestLoadParseError(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "post.yaml", "title: [unclosed\n")

	_, err := Load(path)
	if !errors.Is(err, ErrPostParse) {
		t.Errorf("Load() error = %v, want ErrPostParse", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		post    Post
		wantErr error
	}{
		{
			name: "valid post",
			post: Post{Title: "T", Body: "B"},
		},
		{
			name:    "title too long",
			post:    Post{Title: strings.Repeat("a", MaxTitleLength+1)},
			wantErr: ErrFieldTooLong,
		},
		{
			name:    "authors too long",
			post:    Post{Authors: strings.Repeat("a", MaxAuthorsLength+1)},
			wantErr: ErrFieldTooLong,
		},
		{
			name:    "abstract too long",
			post:    Post{Abstract: strings.Repeat("a", MaxAbstractLength+1)},
			wantErr: ErrFieldTooLong,
		},
		{
			name:    "base URL too long",
			post:    Post{AttachmentBaseURL: "https://" + strings.Repeat("a", MaxURLLength)},
			wantErr: ErrFieldTooLong,
		},
		{
			name:    "too many attachments",
			post:    Post{Attachments: make([]string, MaxAttachments+1)},
			wantErr: ErrFieldTooLong,
		},
		{
			name:    "blank attachment entry",
			post:    Post{Attachments: []string{"ok.png", "  "}},
			wantErr: ErrInvalidAttachment,
		},
		{
			name: "limits are inclusive",
			post: Post{Title: strings.Repeat("a", MaxTitleLength)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.post.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
