package pdf

import (
	"strings"

	"github.com/alnah/go-postpdf/internal/pipeline"
)

// Page geometry in points. US Letter, one-inch margins.
const (
	PageWidth  = 612.0
	PageHeight = 792.0
	Margin     = 72.0
	LineHeight = 14.0
	FontSize   = 12.0
	ImageGap   = 12.0
)

// OpKind discriminates Operation variants.
type OpKind int

// Operation variants.
const (
	OpText OpKind = iota
	OpImage
)

// Operation is a single drawing instruction on one page. Coordinates are
// in document units with the origin at the bottom-left corner.
type Operation struct {
	Kind OpKind

	// OpText fields. Y is the text baseline.
	Text string

	// OpImage fields. X, Y is the lower-left corner of the placed image.
	Image         *pipeline.ResolvedImage
	Width, Height float64

	X, Y float64
}

// Page is an ordered list of drawing operations.
type Page struct {
	Ops []Operation
}

// Compose packs layout items into pages top-down. The vertical cursor
// starts at the top margin; a new page begins whenever the next item
// would cross the bottom margin and the current page already has content.
// Blank lines consume vertical space but emit no operation. Images are
// scaled down (never up) to fit the printable area, preserving aspect
// ratio, and their caption follows as one text line. At least one page is
// always produced, even for empty input.
func Compose(items []pipeline.LayoutItem) []Page {
	const (
		top    = PageHeight - Margin
		bottom = Margin
		maxW   = PageWidth - 2*Margin
		maxH   = PageHeight - 2*Margin
	)

	var pages []Page
	current := Page{}
	y := float64(top)

	breakPage := func() {
		pages = append(pages, current)
		current = Page{}
		y = top
	}

	placeLine := func(line string) {
		if y-LineHeight < bottom && len(current.Ops) > 0 {
			breakPage()
		}
		if strings.TrimSpace(line) != "" {
			current.Ops = append(current.Ops, Operation{
				Kind: OpText,
				Text: line,
				X:    Margin,
				Y:    y,
			})
		}
		y -= LineHeight
	}

	for _, item := range items {
		switch item.Kind {
		case pipeline.LayoutLine:
			placeLine(item.Line)

		case pipeline.LayoutImage:
			img := item.Image
			if img == nil || img.Width <= 0 || img.Height <= 0 {
				continue
			}
			w, h := fitWithin(float64(img.Width), float64(img.Height), maxW, maxH)
			if y-h < bottom && len(current.Ops) > 0 {
				breakPage()
			}
			current.Ops = append(current.Ops, Operation{
				Kind:   OpImage,
				Image:  img,
				X:      Margin,
				Y:      y - h,
				Width:  w,
				Height: h,
			})
			y -= h + ImageGap
			if item.Caption != "" {
				placeLine(item.Caption)
			}
		}
	}

	pages = append(pages, current)
	return pages
}

// fitWithin scales (w, h) down to fit (maxW, maxH), preserving aspect
// ratio. Images smaller than the box keep their natural size.
func fitWithin(w, h, maxW, maxH float64) (float64, float64) {
	scale := 1.0
	if s := maxW / w; s < scale {
		scale = s
	}
	if s := maxH / h; s < scale {
		scale = s
	}
	return w * scale, h * scale
}
