package postpdf

import "errors"

// Sentinel errors for library operations.
var (
	// ErrPDFGeneration indicates the serializer could not produce a valid
	// document. No partial buffer is ever returned alongside it.
	ErrPDFGeneration = errors.New("PDF generation failed")
)
