package driving

import (
	"context"

	"github.com/zmcado0/femme-futures-coop/internal/core/domain"
)

// ArchiveService gives presentation adapters read access to the collection.
type ArchiveService interface {
	// All returns every document, date descending.
	All(ctx context.Context) []domain.Document

	// Get returns a document by ID or domain.ErrNotFound.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// Filter returns documents whose title, excerpt or text contain query.
	Filter(ctx context.Context, query string) []domain.Document

	// Search filters and paginates, adding highlight snippets.
	Search(ctx context.Context, query string, opts domain.SearchOptions) []domain.SearchResult

	// Status returns diagnostics about the current collection.
	Status(ctx context.Context) domain.ArchiveStatus

	// Reload runs a fresh ingestion and replaces the collection.
	Reload(ctx context.Context) (*domain.IngestResult, error)
}
