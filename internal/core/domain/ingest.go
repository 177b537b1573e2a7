package domain

import (
	"fmt"
	"time"
)

// IngestResult is the outcome of one ingestion run.
// A run always produces a Collection, possibly empty.
type IngestResult struct {
	// RunID identifies the run in logs.
	RunID string

	// Collection holds the ingested documents, date descending.
	Collection *Collection

	// Failures lists identifiers that failed, in manifest order.
	Failures []IngestFailure

	// ManifestErr is set when the manifest was unavailable.
	ManifestErr error

	// Total is the number of identifiers the run attempted.
	Total int

	// Duration is the wall-clock time of the run.
	Duration time.Duration
}

// FailureCount returns the number of failed identifiers.
func (r *IngestResult) FailureCount() int {
	if r == nil {
		return 0
	}
	return len(r.Failures)
}

// Empty reports whether the run produced no documents.
func (r *IngestResult) Empty() bool {
	return r == nil || r.Collection.Len() == 0
}

// Status summarises the result for display.
func (r *IngestResult) Status() ArchiveStatus {
	if r == nil {
		return ArchiveStatus{Empty: true}
	}
	return ArchiveStatus{
		RunID:        r.RunID,
		Total:        r.Collection.Len(),
		Placeholders: r.Collection.Placeholders(),
		Failures:     len(r.Failures),
		ManifestErr:  r.ManifestErr,
		Empty:        r.Empty(),
	}
}

// ArchiveStatus is a diagnostic snapshot of the archive.
type ArchiveStatus struct {
	// RunID of the ingestion that produced the current collection.
	RunID string

	// Total is the number of documents, placeholders included.
	Total int

	// Placeholders is the number of placeholder documents.
	Placeholders int

	// Failures is the number of identifiers that failed.
	Failures int

	// ManifestErr is set when the manifest was unavailable.
	ManifestErr error

	// Empty is true when there is nothing to show.
	Empty bool
}

// Reason explains in one line why the archive has nothing to show.
func (s ArchiveStatus) Reason() string {
	if s.ManifestErr != nil {
		return fmt.Sprintf("no newsletters: %v", s.ManifestErr)
	}
	if s.Failures > 0 {
		return fmt.Sprintf("no newsletters: all %d files failed to ingest", s.Failures)
	}
	return "no newsletters found"
}

// Remediation lists what an operator can do about an empty archive.
func (s ArchiveStatus) Remediation() []string {
	if s.ManifestErr != nil {
		return []string{
			"Check that the manifest exists at the configured source (source.location, source.manifest).",
			`The manifest must be JSON of the form {"files": ["issue.docx", ...]} with at least one entry.`,
			"Run `newsletter config get source.location` to see where it is being read from.",
		}
	}
	if s.Failures > 0 {
		return []string{
			"Every file listed in the manifest failed to load.",
			"Run `newsletter ingest` to see the reason for each file.",
			"Check that the files exist under source.content_dir and are .docx, .md, .html or .txt.",
		}
	}
	return []string{
		"Add newsletter files to the content directory and list them in the manifest.",
		"Then reload (ctrl+r in the browser) or run `newsletter ingest`.",
	}
}
