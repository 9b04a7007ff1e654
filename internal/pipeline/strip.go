package pipeline

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// Stripper flattens markdown into an ordered list of content items,
// discarding formatting but preserving paragraph boundaries. Headings,
// blockquote interiors, list items and code-block bodies all survive as
// plain prose; link labels replace their links; image references become
// dedicated items so the surrounding text is split at each occurrence.
type Stripper struct {
	md goldmark.Markdown
}

// NewStripper creates a Stripper backed by a goldmark parser with GFM
// extensions (needed so strikethrough delimiters parse and vanish).
func NewStripper() *Stripper {
	return &Stripper{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
	}
}

// StripFields strips each non-blank field in order and concatenates the
// results, inserting a separator item between the content of consecutive
// fields. Blank fields contribute nothing.
func (s *Stripper) StripFields(fields ...string) []ContentItem {
	var items []ContentItem
	for _, field := range fields {
		if strings.TrimSpace(field) == "" {
			continue
		}
		if len(items) > 0 {
			items = append(items, Separator())
		}
		items = append(items, s.Strip(field)...)
	}
	return items
}

// Strip parses one markdown string and flattens it into content items.
func (s *Stripper) Strip(source string) []ContentItem {
	src := []byte(source)
	doc := s.md.Parser().Parse(text.NewReader(src))

	var items []ContentItem
	var para strings.Builder

	flush := func() {
		if t := strings.TrimSpace(para.String()); t != "" {
			items = append(items, TextItem(t))
		}
		para.Reset()
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Image:
			if !entering {
				return ast.WalkContinue, nil
			}
			flush()
			item := ImageItem(
				strings.TrimSpace(inlineText(node, src)),
				strings.TrimSpace(string(node.Destination)),
			)
			if item.Source == "" {
				// No fetchable reference; degrade to the label text.
				items = append(items, TextItem(item.Label()))
			} else {
				items = append(items, item)
			}
			return ast.WalkSkipChildren, nil

		case *ast.Text:
			if entering {
				para.Write(node.Segment.Value(src))
				if node.SoftLineBreak() || node.HardLineBreak() {
					para.WriteByte('\n')
				}
			}

		case *ast.String:
			if entering {
				para.Write(node.Value)
			}

		case *ast.AutoLink:
			if entering {
				para.Write(node.URL(src))
			}
			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock:
			if entering {
				writeRawLines(&para, node.Lines(), src)
				flush()
			}
			return ast.WalkSkipChildren, nil

		case *ast.CodeBlock:
			if entering {
				writeRawLines(&para, node.Lines(), src)
				flush()
			}
			return ast.WalkSkipChildren, nil

		default:
			// Leaving any other block node ends the current prose block.
			if !entering && n.Type() == ast.TypeBlock {
				flush()
			}
		}
		return ast.WalkContinue, nil
	})

	flush()
	return items
}

// inlineText collects the plain text beneath an inline node, e.g. the alt
// text of an image or the label of a link.
func inlineText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

// writeRawLines appends a code block's interior verbatim.
func writeRawLines(b *strings.Builder, lines *text.Segments, src []byte) {
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(src))
	}
}
