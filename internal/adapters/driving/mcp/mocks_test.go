package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/zmcado0/femme-futures-coop/internal/core/domain"
	"github.com/zmcado0/femme-futures-coop/internal/core/services"
)

// mockArchiveService serves a fixed collection through the real filter.
type mockArchiveService struct {
	collection *domain.Collection
	status     *domain.ArchiveStatus
}

func newMockArchive(docs ...domain.Document) *mockArchiveService {
	return &mockArchiveService{collection: domain.NewCollection(docs)}
}

func (m *mockArchiveService) All(_ context.Context) []domain.Document {
	return m.collection.All()
}

func (m *mockArchiveService) Get(_ context.Context, id string) (*domain.Document, error) {
	doc, ok := m.collection.Get(id)
	if !ok {
		return nil, fmt.Errorf("newsletter %q: %w", id, domain.ErrNotFound)
	}
	return &doc, nil
}

func (m *mockArchiveService) Filter(_ context.Context, query string) []domain.Document {
	return services.Filter(m.collection, query)
}

func (m *mockArchiveService) Search(ctx context.Context, query string, opts domain.SearchOptions) []domain.SearchResult {
	matches := m.Filter(ctx, query)
	start := min(opts.Offset, len(matches))
	matches = matches[start:]
	if opts.Limit > 0 && len(matches) > opts.Limit {
		matches = matches[:opts.Limit]
	}
	results := make([]domain.SearchResult, len(matches))
	for i := range matches {
		results[i] = domain.SearchResult{Document: matches[i], Highlights: services.Highlights(matches[i].RawText, query)}
	}
	return results
}

func (m *mockArchiveService) Status(_ context.Context) domain.ArchiveStatus {
	if m.status != nil {
		return *m.status
	}
	return domain.ArchiveStatus{Total: m.collection.Len(), Empty: m.collection.Len() == 0}
}

func (m *mockArchiveService) Reload(_ context.Context) (*domain.IngestResult, error) {
	return &domain.IngestResult{Collection: m.collection}, nil
}

func issue(id, title string, month time.Month, body string) domain.Document {
	return domain.Document{
		ID:              id,
		Title:           title,
		Date:            time.Date(2025, month, 1, 0, 0, 0, 0, time.UTC),
		Excerpt:         body,
		Content:         "<p>" + body + "</p>",
		ContentIsMarkup: true,
		RawText:         body,
		SourceRef:       id + ".docx",
		Format:          domain.FormatDocx,
	}
}

func sampleArchive() *mockArchiveService {
	return newMockArchive(
		issue("spring", "Spring Issue", time.March, "Seed swap on Saturday at the garden."),
		issue("summer", "Summer Issue", time.June, "Potluck in the park and garden tours."),
		issue("winter", "Winter Issue", time.January, "Annual meeting and budget vote."),
	)
}
