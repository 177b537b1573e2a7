package driven

import "context"

// ManifestSource lists the identifiers to ingest.
type ManifestSource interface {
	// Load fetches and parses the manifest once.
	// Any failure, including an empty list, wraps domain.ErrManifestUnavailable.
	Load(ctx context.Context) ([]string, error)
}

// ByteFetcher retrieves the raw bytes for one identifier.
// Implementations may apply their own timeout or rate limit.
type ByteFetcher interface {
	// Fetch returns the bytes stored at {content-base}/{identifier}.
	Fetch(ctx context.Context, identifier string) ([]byte, error)
}

// Source is an archive location that provides both the manifest and content.
type Source interface {
	ManifestSource
	ByteFetcher

	// Location returns a display string for the source.
	Location() string
}

// ChangeWatcher reports changes to a source's content.
// Only local sources support watching.
type ChangeWatcher interface {
	// Watch emits a value whenever content changes, until ctx is cancelled.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
