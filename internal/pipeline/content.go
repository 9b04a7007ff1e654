package pipeline

// ItemKind discriminates ContentItem variants.
type ItemKind int

// ContentItem variants.
const (
	KindText ItemKind = iota
	KindImage
)

// FallbackImageLabel replaces an image whose reference carries no usable
// alt text when the image itself cannot be shown.
const FallbackImageLabel = "Image"

// ContentItem is one unit of stripped post content: either a prose block
// or an image reference. The layout and serialization stages switch on
// Kind and handle both variants.
type ContentItem struct {
	Kind ItemKind

	// Text holds the prose for KindText. An empty Text marks a separator
	// between two source strings (rendered as a blank line).
	Text string

	// Alt and Source describe a KindImage reference.
	Alt    string
	Source string
}

// TextItem returns a prose content item.
func TextItem(text string) ContentItem {
	return ContentItem{Kind: KindText, Text: text}
}

// ImageItem returns an image reference content item.
func ImageItem(alt, source string) ContentItem {
	return ContentItem{Kind: KindImage, Alt: alt, Source: source}
}

// Separator returns the empty text item inserted between the content of
// two different source strings, so pagination shows a visual break.
func Separator() ContentItem {
	return ContentItem{Kind: KindText}
}

// Label returns the text shown in place of an unavailable image:
// the alt text when present, otherwise FallbackImageLabel.
func (c ContentItem) Label() string {
	if c.Alt != "" {
		return c.Alt
	}
	return FallbackImageLabel
}
