package driven

import "github.com/zmcado0/femme-futures-coop/internal/core/domain"

// CollectionStore holds the current collection for the session.
// The pipeline writes a whole collection at once; readers never see a
// partially built collection.
type CollectionStore interface {
	// Current returns the current collection. It is never nil.
	Current() *domain.Collection

	// Replace swaps in a new collection and its ingestion result.
	Replace(result *domain.IngestResult)

	// LastResult returns the result that produced the current collection.
	LastResult() *domain.IngestResult
}
