// Package pdf composes layout items into fixed-geometry pages and
// serializes them as a PDF 1.4 byte buffer: catalog, page tree, one
// built-in Helvetica face, DCTDecode image objects, per-page content
// streams, a byte-exact cross-reference table and a trailer.
//
// Objects are built as typed records first; offsets are computed in a
// single finalization pass, keeping object content testable without
// offset arithmetic. This package has no recoverable-error branch: any
// failure here is fatal to the build and no partial buffer escapes.
package pdf
