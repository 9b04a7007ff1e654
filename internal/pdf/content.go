package pdf

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// toASCII replaces every byte outside the safe subset (TAB, LF, CR and
// printable ASCII) with '?'. Content streams use the built-in Helvetica
// face with the standard encoding, so nothing wider survives anyway.
func toASCII(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			b.WriteRune(r)
		case r >= 0x20 && r <= 0x7e:
			b.WriteRune(r)
		default:
			b.WriteByte('?')
		}
	}
	return b.String()
}

// escapeString escapes the literal string delimiters and the escape
// character itself.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "(", `\(`)
	s = strings.ReplaceAll(s, ")", `\)`)
	return s
}

// sanitizeText prepares arbitrary text for a text-show operator payload.
// ASCII folding runs first so the escapes it adds survive.
func sanitizeText(s string) string {
	return escapeString(toASCII(s))
}

// num formats a coordinate for a content stream: two decimals, trailing
// zeros trimmed.
func num(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}

// contentStream translates one page's operations into stream bytes:
// a text object per line, a scale-and-place transform per image. names
// maps an image source to its resource name in the page dictionary.
func contentStream(ops []Operation, names map[string]string) []byte {
	var b bytes.Buffer
	for _, op := range ops {
		switch op.Kind {
		case OpText:
			fmt.Fprintf(&b, "BT\n/F1 %s Tf\n%s %s Td\n(%s) Tj\nET\n",
				num(FontSize), num(op.X), num(op.Y), sanitizeText(op.Text))
		case OpImage:
			fmt.Fprintf(&b, "q\n%s 0 0 %s %s %s cm\n/%s Do\nQ\n",
				num(op.Width), num(op.Height), num(op.X), num(op.Y),
				names[op.Image.Source])
		}
	}
	return b.Bytes()
}
