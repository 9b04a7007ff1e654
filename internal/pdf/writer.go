package pdf

import (
	"fmt"
	"strings"

	"github.com/alnah/go-postpdf/internal/pipeline"
)

// Fixed low object ids. Every document carries exactly one of each.
const (
	catalogID = 1
	pagesID   = 2
	fontID    = 3
)

// WriteDocument serializes composed pages into a complete PDF buffer.
// Ids are assigned in a fixed order: catalog, page tree, font, one id per
// distinct image in first-appearance order, then a page/content pair per
// page. The returned buffer is self-contained; on error no buffer is
// returned at all.
func WriteDocument(pages []Page) ([]byte, error) {
	if len(pages) == 0 {
		pages = []Page{{}}
	}

	// Name table for distinct images, deduplicated by source identity.
	imageIDs := make(map[string]int)
	names := make(map[string]string)
	var images []*pipeline.ResolvedImage

	nextID := fontID + 1
	for _, page := range pages {
		for _, op := range page.Ops {
			if op.Kind != OpImage {
				continue
			}
			if _, ok := imageIDs[op.Image.Source]; ok {
				continue
			}
			imageIDs[op.Image.Source] = nextID
			names[op.Image.Source] = fmt.Sprintf("Im%d", nextID)
			images = append(images, op.Image)
			nextID++
		}
	}

	pageIDs := make([]int, len(pages))
	contentIDs := make([]int, len(pages))
	for i := range pages {
		pageIDs[i] = nextID
		contentIDs[i] = nextID + 1
		nextID += 2
	}

	var b Builder

	kids := make([]string, len(pages))
	for i, id := range pageIDs {
		kids[i] = fmt.Sprintf("%d 0 R", id)
	}
	b.AddDict(catalogID, fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R >>", pagesID))
	b.AddDict(pagesID, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>",
		strings.Join(kids, " "), len(pages)))
	b.AddDict(fontID, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	for _, img := range images {
		entries := fmt.Sprintf(
			"/Type /XObject /Subtype /Image /Width %d /Height %d /ColorSpace /DeviceRGB /BitsPerComponent 8 /Filter /DCTDecode",
			img.Width, img.Height)
		b.AddStream(imageIDs[img.Source], entries, img.Data)
	}

	for i, page := range pages {
		b.AddDict(pageIDs[i], fmt.Sprintf(
			"<< /Type /Page /Parent %d 0 R /MediaBox [0 0 %s %s] /Contents %d 0 R /Resources %s >>",
			pagesID, num(PageWidth), num(PageHeight), contentIDs[i],
			resourceDict(page, imageIDs, names)))
		b.AddStream(contentIDs[i], "", contentStream(page.Ops, names))
	}

	return b.Finalize(catalogID)
}

// resourceDict enumerates the font and the images drawn on one page.
func resourceDict(page Page, imageIDs map[string]int, names map[string]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<< /Font << /F1 %d 0 R >>", fontID)

	used := make(map[int]string) // object id -> name, for stable ordering
	var order []int
	for _, op := range page.Ops {
		if op.Kind != OpImage {
			continue
		}
		id := imageIDs[op.Image.Source]
		if _, ok := used[id]; ok {
			continue
		}
		used[id] = names[op.Image.Source]
		order = append(order, id)
	}
	if len(order) > 0 {
		b.WriteString(" /XObject <<")
		for _, id := range order {
			fmt.Fprintf(&b, " /%s %d 0 R", used[id], id)
		}
		b.WriteString(" >>")
	}

	b.WriteString(" >>")
	return b.String()
}
