package driving

import (
	"context"

	"github.com/zmcado0/femme-futures-coop/internal/core/domain"
)

// Ingester runs the ingestion pipeline.
type Ingester interface {
	// Ingest loads the manifest and ingests every listed identifier.
	// Per-identifier and manifest failures are reported in the result, never as an error.
	Ingest(ctx context.Context) (*domain.IngestResult, error)

	// IngestIdentifiers ingests the given identifiers without loading the manifest.
	IngestIdentifiers(ctx context.Context, identifiers []string) (*domain.IngestResult, error)
}
