package types

import (
	"errors"
	"fmt"
)

// Error taxonomy for the scan pipeline.
//
// FetchError and ParseError are swallowed at the crawler boundary and
// degrade the crawl to zero surfaces. OracleError is swallowed per
// enrichment call and replaced with fallback text. Anything else that
// escapes a stage drives the scan to the failed state.
var (
	ErrNotFound   = errors.New("record not found")
	ErrValidation = errors.New("validation failed")
)

// FetchError means the target could not be fetched (network error or
// non-2xx response). Never fatal to a scan.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError means the target body could not be parsed as markup.
// Treated the same as a fetch failure.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// OracleError means a text-generation call failed. Only the affected
// field falls back to the fixed text, the scan keeps going.
type OracleError struct {
	Persona string
	Err     error
}

func (e *OracleError) Error() string {
	return fmt.Sprintf("oracle call (%s persona): %v", e.Persona, e.Err)
}

func (e *OracleError) Unwrap() error { return e.Err }

// OrchestrationError wraps any unclassified failure that escapes the
// stage-local catches. It is fatal to the scan it belongs to.
type OrchestrationError struct {
	ScanID string
	Stage  string
	Err    error
}

func (e *OrchestrationError) Error() string {
	return fmt.Sprintf("scan %s failed in %s: %v", e.ScanID, e.Stage, e.Err)
}

func (e *OrchestrationError) Unwrap() error { return e.Err }
