package tui

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/zmcado0/femme-futures-coop/internal/adapters/driven/storage/memory"
	"github.com/zmcado0/femme-futures-coop/internal/core/domain"
	"github.com/zmcado0/femme-futures-coop/internal/core/services"
)

// stubIngester returns a fixed result and counts runs.
type stubIngester struct {
	docs []domain.Document
	err  error
	runs atomic.Int32
}

func (s *stubIngester) Ingest(_ context.Context) (*domain.IngestResult, error) {
	s.runs.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return &domain.IngestResult{
		RunID:      "run",
		Collection: domain.NewCollection(s.docs),
		Total:      len(s.docs),
	}, nil
}

func (s *stubIngester) IngestIdentifiers(ctx context.Context, _ []string) (*domain.IngestResult, error) {
	return s.Ingest(ctx)
}

// newArchive returns an archive service already holding docs.
func newArchive(docs ...domain.Document) (*services.ArchiveService, *stubIngester) {
	store := memory.NewCollectionStore()
	ingester := &stubIngester{docs: docs}
	store.Replace(&domain.IngestResult{RunID: "initial", Collection: domain.NewCollection(docs), Total: len(docs)})
	return services.NewArchiveService(store, ingester), ingester
}

func issue(id, title string, month time.Month, body string) domain.Document {
	return domain.Document{
		ID:        id,
		Title:     title,
		Date:      time.Date(2025, month, 1, 0, 0, 0, 0, time.UTC),
		Excerpt:   body,
		RawText:   body,
		SourceRef: id + ".docx",
		Format:    domain.FormatDocx,
	}
}

func sampleDocs() []domain.Document {
	return []domain.Document{
		issue("spring", "Spring Issue", time.March, "Seed swap on Saturday at the garden."),
		issue("summer", "Summer Issue", time.June, "Potluck in the park and garden tours."),
		issue("winter", "Winter Issue", time.January, "Knitting circle meets on Tuesdays."),
	}
}
