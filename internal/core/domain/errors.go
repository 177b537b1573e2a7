package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates no converter handles a document format.
	ErrUnsupportedType = errors.New("unsupported type")

	// Ingestion Errors.

	// ErrManifestUnavailable indicates the manifest could not be fetched,
	// could not be parsed, or listed no identifiers.
	ErrManifestUnavailable = errors.New("manifest unavailable")

	// ErrFetchFailed indicates the bytes for one identifier could not be fetched.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrConversionFailed indicates the converter rejected a document.
	ErrConversionFailed = errors.New("conversion failed")

	// ErrEmptyDocument indicates a document had no bytes or no extractable text.
	ErrEmptyDocument = errors.New("empty document")
)

// FailureKind classifies why one identifier failed to ingest.
type FailureKind string

// Failure kinds.
const (
	// FailureFetch is a network, status or read failure.
	FailureFetch FailureKind = "fetch_failed"

	// FailureConversion is a converter error or an unsupported format.
	FailureConversion FailureKind = "conversion_failed"

	// FailureEmpty is a zero-length file or a blank extracted body.
	FailureEmpty FailureKind = "empty_document"
)

// Sentinel returns the sentinel error matching the kind.
func (k FailureKind) Sentinel() error {
	switch k {
	case FailureFetch:
		return ErrFetchFailed
	case FailureConversion:
		return ErrConversionFailed
	case FailureEmpty:
		return ErrEmptyDocument
	default:
		return ErrInvalidInput
	}
}

// IngestFailure records the failure of a single identifier.
// It matches both its kind's sentinel and the underlying cause with errors.Is.
type IngestFailure struct {
	// Identifier is the manifest entry that failed.
	Identifier string

	// Kind classifies the failure.
	Kind FailureKind

	// Err is the underlying cause.
	Err error
}

// NewIngestFailure creates a failure for identifier.
func NewIngestFailure(identifier string, kind FailureKind, err error) *IngestFailure {
	return &IngestFailure{Identifier: identifier, Kind: kind, Err: err}
}

// Error implements error.
func (f *IngestFailure) Error() string {
	if f.Err == nil {
		return fmt.Sprintf("%s: %s", f.Identifier, f.Kind.Sentinel())
	}
	return fmt.Sprintf("%s: %s: %v", f.Identifier, f.Kind.Sentinel(), f.Err)
}

// Unwrap exposes the sentinel and the cause.
func (f *IngestFailure) Unwrap() []error {
	if f.Err == nil {
		return []error{f.Kind.Sentinel()}
	}
	return []error{f.Kind.Sentinel(), f.Err}
}

// Reason returns a short human-readable reason.
func (f *IngestFailure) Reason() string {
	if f.Err == nil {
		return f.Kind.Sentinel().Error()
	}
	return f.Err.Error()
}
