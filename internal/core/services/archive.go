package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/zmcado0/femme-futures-coop/internal/core/domain"
	"github.com/zmcado0/femme-futures-coop/internal/core/ports/driven"
	"github.com/zmcado0/femme-futures-coop/internal/core/ports/driving"
	"github.com/zmcado0/femme-futures-coop/internal/logger"
)

// Ensure ArchiveService implements the interface.
var _ driving.ArchiveService = (*ArchiveService)(nil)

const (
	maxHighlights    = 3
	highlightContext = 40
)

// ArchiveService exposes the current collection to presentation adapters.
// Reads go straight to the store; Reload replaces the whole collection.
type ArchiveService struct {
	store    driven.CollectionStore
	ingester driving.Ingester

	// reloadMu serialises reloads so two watchers never race on Replace.
	reloadMu sync.Mutex
}

// NewArchiveService creates a new archive service.
// The ingester is optional - if nil, Reload returns an error.
func NewArchiveService(store driven.CollectionStore, ingester driving.Ingester) *ArchiveService {
	return &ArchiveService{
		store:    store,
		ingester: ingester,
	}
}

// All returns every document, date descending.
func (s *ArchiveService) All(_ context.Context) []domain.Document {
	return s.store.Current().All()
}

// Get returns a document by ID.
func (s *ArchiveService) Get(_ context.Context, id string) (*domain.Document, error) {
	doc, ok := s.store.Current().Get(id)
	if !ok {
		return nil, fmt.Errorf("newsletter %q: %w", id, domain.ErrNotFound)
	}
	return &doc, nil
}

// Filter returns documents whose title, excerpt or text contain query.
func (s *ArchiveService) Filter(_ context.Context, query string) []domain.Document {
	return Filter(s.store.Current(), query)
}

// Search filters the collection, paginates, and attaches highlight snippets
// taken from the body text.
func (s *ArchiveService) Search(_ context.Context, query string, opts domain.SearchOptions) []domain.SearchResult {
	matches := Filter(s.store.Current(), query)

	if opts.Offset > 0 {
		if opts.Offset >= len(matches) {
			return []domain.SearchResult{}
		}
		matches = matches[opts.Offset:]
	}
	if opts.Limit > 0 && len(matches) > opts.Limit {
		matches = matches[:opts.Limit]
	}

	results := make([]domain.SearchResult, len(matches))
	for i := range matches {
		results[i] = domain.SearchResult{
			Document:   matches[i],
			Highlights: Highlights(matches[i].RawText, query),
		}
	}
	return results
}

// Status returns diagnostics about the current collection.
func (s *ArchiveService) Status(_ context.Context) domain.ArchiveStatus {
	if result := s.store.LastResult(); result != nil {
		return result.Status()
	}
	c := s.store.Current()
	return domain.ArchiveStatus{
		Total:        c.Len(),
		Placeholders: c.Placeholders(),
		Empty:        c.Len() == 0,
	}
}

// Reload runs a fresh ingestion and swaps in its collection.
func (s *ArchiveService) Reload(ctx context.Context) (*domain.IngestResult, error) {
	if s.ingester == nil {
		return nil, errors.New("reload: ingester not configured")
	}

	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	result, err := s.ingester.Ingest(ctx)
	if err != nil {
		return nil, fmt.Errorf("reload: %w", err)
	}
	s.store.Replace(result)
	logger.Debug("Collection replaced: %d documents (run %s)", result.Collection.Len(), result.RunID)
	return result, nil
}

// Filter returns the documents in c whose Title, Excerpt or RawText contain
// query, ignoring case. An empty query returns every document in order;
// any other query, whitespace included, is matched literally.
// Each call scans the whole collection.
func Filter(c *domain.Collection, query string) []domain.Document {
	all := c.All()
	if query == "" {
		return all
	}
	q := strings.ToLower(query)

	matches := make([]domain.Document, 0, len(all))
	for i := range all {
		if matchesQuery(&all[i], q) {
			matches = append(matches, all[i])
		}
	}
	return matches
}

func matchesQuery(doc *domain.Document, lowered string) bool {
	return strings.Contains(strings.ToLower(doc.Title), lowered) ||
		strings.Contains(strings.ToLower(doc.Excerpt), lowered) ||
		strings.Contains(strings.ToLower(doc.RawText), lowered)
}

// Highlights returns up to three snippets of text around occurrences of query.
func Highlights(text, query string) []string {
	query = strings.TrimSpace(query)
	if query == "" || text == "" {
		return nil
	}

	re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(query))
	if err != nil {
		return nil
	}

	var snippets []string
	for _, loc := range re.FindAllStringIndex(text, maxHighlights) {
		snippets = append(snippets, snippet(text, loc[0], loc[1]))
	}
	return snippets
}

func snippet(text string, start, end int) string {
	from := max(0, start-highlightContext)
	to := min(len(text), end+highlightContext)

	// Move to rune boundaries.
	for from > 0 && !utf8.RuneStart(text[from]) {
		from--
	}
	for to < len(text) && !utf8.RuneStart(text[to]) {
		to++
	}

	s := strings.Join(strings.Fields(text[from:to]), " ")
	if from > 0 {
		s = ellipsis + s
	}
	if to < len(text) {
		s += ellipsis
	}
	return s
}
