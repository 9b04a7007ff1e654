package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
)

// Sentinel errors for serialization. Both are fatal to the build.
var (
	ErrObjectTable = errors.New("object table corrupted")
	ErrTooLarge    = errors.New("document too large")
)

// maxOffset is the largest byte offset representable in a 10-digit
// cross-reference entry.
const maxOffset = 9999999999

// header is the fixed version header, the first bytes of every buffer.
const header = "%PDF-1.4\n"

// Object is one numbered PDF object. Body holds everything between the
// "N 0 obj" and "endobj" markers.
type Object struct {
	ID   int
	Body []byte
}

// Builder accumulates typed objects and assembles the final buffer in one
// pass, computing byte offsets as objects are concatenated. Content is
// pure data until Finalize, so object bodies can be tested without
// touching offset arithmetic.
type Builder struct {
	objects []Object
}

// AddDict appends a dictionary object. dict must be the full dictionary
// text, including the << >> delimiters.
func (b *Builder) AddDict(id int, dict string) {
	b.objects = append(b.objects, Object{ID: id, Body: []byte(dict)})
}

// AddStream appends a stream object. entries holds the dictionary entries
// other than /Length, without delimiters; pass "" for a bare stream.
func (b *Builder) AddStream(id int, entries string, data []byte) {
	var body bytes.Buffer
	if entries != "" {
		fmt.Fprintf(&body, "<< %s /Length %d >>\nstream\n", entries, len(data))
	} else {
		fmt.Fprintf(&body, "<< /Length %d >>\nstream\n", len(data))
	}
	body.Write(data)
	body.WriteString("\nendstream")
	b.objects = append(b.objects, Object{ID: id, Body: body.Bytes()})
}

// Objects returns the accumulated objects in insertion order.
func (b *Builder) Objects() []Object {
	return b.objects
}

// Finalize validates the object table, concatenates the header and all
// objects in id order, and appends the cross-reference table and trailer
// referencing rootID. Object ids must be exactly 1..N with no gaps or
// duplicates; each xref entry records the exact offset of its object's
// first byte.
func (b *Builder) Finalize(rootID int) ([]byte, error) {
	n := len(b.objects)
	if n == 0 {
		return nil, fmt.Errorf("%w: no objects", ErrObjectTable)
	}

	objects := make([]Object, n)
	copy(objects, b.objects)
	sort.Slice(objects, func(i, j int) bool { return objects[i].ID < objects[j].ID })

	for i, obj := range objects {
		if obj.ID != i+1 {
			return nil, fmt.Errorf("%w: want id %d, have %d", ErrObjectTable, i+1, obj.ID)
		}
	}
	if rootID < 1 || rootID > n {
		return nil, fmt.Errorf("%w: root id %d out of range", ErrObjectTable, rootID)
	}

	var buf bytes.Buffer
	buf.WriteString(header)

	offsets := make([]int, n+1) // slot 0 is the reserved free entry
	for i, obj := range objects {
		offsets[i+1] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n", obj.ID)
		buf.Write(obj.Body)
		buf.WriteString("\nendobj\n")
	}

	xrefStart := buf.Len()
	if xrefStart > maxOffset {
		return nil, fmt.Errorf("%w: %d bytes before xref", ErrTooLarge, xrefStart)
	}

	fmt.Fprintf(&buf, "xref\n0 %d\n", n+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets[1:] {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}

	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root %d 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		n+1, rootID, xrefStart)

	return buf.Bytes(), nil
}
