package models

import "errors"

// Sentinel errors shared by every pipeline stage. Wrap with fmt.Errorf("%w")
// and test with errors.Is.
var (
	ErrUnsupportedFormat  = errors.New("unsupported format")
	ErrEmptyContent       = errors.New("extracted content too short to be a menu")
	ErrFileTooLarge       = errors.New("file exceeds maximum size")
	ErrServiceUnavailable = errors.New("extraction service unavailable")
	ErrMalformedResponse  = errors.New("malformed extraction response")
	ErrEnrichmentFailed   = errors.New("enrichment failed")
	ErrNoItems            = errors.New("no menu items extracted")
)
