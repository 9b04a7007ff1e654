package pipeline

import "strings"

// MaxLineWidth is the character budget for one wrapped line at the fixed
// font size on a standard page. Width comparisons are pure character
// counts, not font metrics; keep it that way for reproducibility.
const MaxLineWidth = 92

// LayoutKind discriminates LayoutItem variants.
type LayoutKind int

// LayoutItem variants.
const (
	LayoutLine LayoutKind = iota
	LayoutImage
)

// LayoutItem is a content item fitted to the page model: either one
// wrapped text line (empty string for paragraph spacing) or an image
// block with an optional caption.
type LayoutItem struct {
	Kind    LayoutKind
	Line    string
	Image   *ResolvedImage
	Caption string
}

// LineItem returns a wrapped text line layout item.
func LineItem(line string) LayoutItem {
	return LayoutItem{Kind: LayoutLine, Line: line}
}

// ImageBlock returns an image layout item with its caption.
func ImageBlock(img *ResolvedImage, caption string) LayoutItem {
	return LayoutItem{Kind: LayoutImage, Image: img, Caption: caption}
}

// WrapText wraps prose into lines of at most maxChars characters.
// Paragraphs (blank-line separated) keep a single blank line between
// them; single newlines inside a paragraph start a new line without a
// blank. Words are never split mid-word, so a single word longer than the
// budget occupies its own over-long line. Leading and trailing blank
// lines are trimmed.
func WrapText(text string, maxChars int) []string {
	var out []string

	for _, paragraph := range splitParagraphs(text) {
		for _, rawLine := range strings.Split(paragraph, "\n") {
			line := strings.TrimRight(rawLine, " \t")
			if strings.TrimSpace(line) == "" {
				out = append(out, "")
				continue
			}

			current := ""
			for _, word := range strings.Fields(line) {
				switch {
				case current == "":
					current = word
				case len(current)+1+len(word) <= maxChars:
					current += " " + word
				default:
					out = append(out, current)
					current = word
				}
			}
			if current != "" {
				out = append(out, current)
			}
		}
		out = append(out, "")
	}

	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	for len(out) > 0 && out[0] == "" {
		out = out[1:]
	}
	return out
}

// splitParagraphs splits text on runs of blank lines.
func splitParagraphs(text string) []string {
	var paragraphs []string
	var current []string

	flush := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, "\n"))
			current = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return paragraphs
}

// BuildLayout merges content items and their hydrated images into the
// compositor's input. images maps each item's raw source reference to its
// transcoded form; references missing from the map (resolution misses or
// transcode failures) degrade to a text line carrying the item's label.
// Runs of blank lines collapse to one, and leading/trailing blanks are
// trimmed so the document never opens or closes with dead space.
func BuildLayout(items []ContentItem, images map[string]*ResolvedImage, maxChars int) []LayoutItem {
	var out []LayoutItem

	appendBlank := func() {
		if len(out) > 0 && !isBlankLine(out[len(out)-1]) {
			out = append(out, LineItem(""))
		}
	}

	for _, item := range items {
		switch item.Kind {
		case KindText:
			if strings.TrimSpace(item.Text) == "" {
				appendBlank()
				continue
			}
			for _, line := range WrapText(item.Text, maxChars) {
				if line == "" {
					appendBlank()
					continue
				}
				out = append(out, LineItem(line))
			}
			appendBlank()

		case KindImage:
			img := images[item.Source]
			if img == nil {
				for _, line := range WrapText(item.Label(), maxChars) {
					out = append(out, LineItem(line))
				}
				appendBlank()
				continue
			}
			out = append(out, ImageBlock(img, item.Alt))
		}
	}

	for len(out) > 0 && isBlankLine(out[len(out)-1]) {
		out = out[:len(out)-1]
	}
	return out
}

func isBlankLine(item LayoutItem) bool {
	return item.Kind == LayoutLine && item.Line == ""
}
