package domain

import (
	"path"
	"strings"
	"time"
)

// Format identifies the source format a converter handled.
type Format string

// Supported document formats.
const (
	// FormatDocx is a word-processing (Office Open XML) document.
	FormatDocx Format = "docx"

	// FormatMarkdown is a markdown document.
	FormatMarkdown Format = "markdown"

	// FormatHTML is an HTML document.
	FormatHTML Format = "html"

	// FormatText is plain text.
	FormatText Format = "text"
)

// FormatFromIdentifier guesses the format from a filename extension.
// Unknown extensions return an empty Format.
func FormatFromIdentifier(identifier string) Format {
	switch strings.ToLower(path.Ext(identifier)) {
	case ".docx":
		return FormatDocx
	case ".md", ".markdown":
		return FormatMarkdown
	case ".html", ".htm":
		return FormatHTML
	case ".txt", ".text":
		return FormatText
	default:
		return ""
	}
}

// DateSource records where a document's date was derived from.
type DateSource string

// Date sources, in the order they are tried.
const (
	// DateFromBody means a long-form date was found in the body text.
	DateFromBody DateSource = "body"

	// DateFromIdentifier means an ISO date was found in the identifier.
	DateFromIdentifier DateSource = "identifier"

	// DateDefault means no date was found and the ingestion date was used.
	DateDefault DateSource = "default"
)

// Document represents one newsletter issue after ingestion.
// Documents are values: a Collection hands out copies and nothing
// mutates a Document once the pipeline has built it.
type Document struct {
	// ID is unique within a Collection, derived from the identifier.
	ID string

	// Title is the heuristically derived, never empty title.
	Title string

	// Date is used for ordering and display. It is not guaranteed accurate.
	Date time.Time

	// DateSource records how Date was derived.
	DateSource DateSource

	// Excerpt is a bounded preview of the body, never empty.
	Excerpt string

	// Content is the full body, markup or plain text depending on ContentIsMarkup.
	Content string

	// ContentIsMarkup is true when Content holds normalised HTML.
	ContentIsMarkup bool

	// RawText is the plain-text rendition of the body used for search.
	RawText string

	// SourceRef is the originating identifier (filename).
	SourceRef string

	// Format is the format of the source document.
	Format Format

	// IsPlaceholder marks a stub synthesised for a failed identifier.
	IsPlaceholder bool

	// Warnings holds converter and heuristic warnings.
	Warnings []string

	// IngestedAt is when the pipeline built this document.
	IngestedAt time.Time
}

// Clone returns a copy that shares no mutable state with d.
func (d Document) Clone() Document {
	if d.Warnings != nil {
		d.Warnings = append([]string(nil), d.Warnings...)
	}
	return d
}
