package main

import (
	"errors"
	"os"

	postpdf "github.com/alnah/go-postpdf"
	"github.com/alnah/go-postpdf/internal/postfile"
)

// Exit codes for postpdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, custom < 126.
const (
	ExitSuccess  = 0 // successful generation
	ExitGeneral  = 1 // general/unexpected error
	ExitUsage    = 2 // invalid flags, post file, or validation
	ExitIO       = 3 // file not found, permission denied
	ExitGenerate = 4 // serializer failure
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use
// fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Generation errors (exit 4)
	if errors.Is(err, postpdf.ErrPDFGeneration) {
		return ExitGenerate
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, postfile.ErrPostNotFound) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWritePDF) {
		return ExitIO
	}

	// Usage/validation errors (exit 2)
	if errors.Is(err, ErrInvalidFlag) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, postfile.ErrPostParse) ||
		errors.Is(err, postfile.ErrBodyConflict) ||
		errors.Is(err, postfile.ErrFieldTooLong) ||
		errors.Is(err, postfile.ErrInvalidAttachment) {
		return ExitUsage
	}

	return ExitGeneral
}
