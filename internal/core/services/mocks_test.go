package services

import (
	"context"
	"errors"
	"path"
	"strings"
	"sync"

	"github.com/zmcado0/femme-futures-coop/internal/core/domain"
	"github.com/zmcado0/femme-futures-coop/internal/core/ports/driven"
)

// --- Mock implementations shared by the service tests ---

// mockManifest implements driven.ManifestSource.
type mockManifest struct {
	files []string
	err   error
}

func (m *mockManifest) Load(_ context.Context) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return append([]string(nil), m.files...), nil
}

// mockFetcher implements driven.ByteFetcher from an in-memory map.
// Identifiers in errs fail; identifiers missing from both maps fail too.
type mockFetcher struct {
	files map[string][]byte
	errs  map[string]error

	// onFetch, if set, runs before each fetch returns.
	onFetch func(identifier string)
}

func (m *mockFetcher) Fetch(_ context.Context, identifier string) ([]byte, error) {
	if m.onFetch != nil {
		m.onFetch(identifier)
	}
	if err, ok := m.errs[identifier]; ok {
		return nil, err
	}
	data, ok := m.files[identifier]
	if !ok {
		return nil, errors.New("404 Not Found")
	}
	return data, nil
}

// mockRegistry implements driven.ConverterRegistry. It treats the bytes as
// plain text and wraps each non-blank line in a paragraph.
type mockRegistry struct {
	convertErr map[string]error
	panicOn    string

	mu    sync.Mutex
	calls []string
}

func (r *mockRegistry) Convert(
	_ context.Context,
	raw *domain.RawDocument,
	markup bool,
	_ domain.ConvertOptions,
) (*domain.Conversion, error) {
	r.mu.Lock()
	r.calls = append(r.calls, raw.Identifier)
	r.mu.Unlock()

	if raw.Identifier == r.panicOn {
		panic("corrupt archive")
	}
	if err, ok := r.convertErr[raw.Identifier]; ok {
		return nil, err
	}
	if path.Ext(raw.Identifier) == ".bin" {
		return nil, domain.ErrUnsupportedType
	}

	text := string(raw.Content)
	conv := &domain.Conversion{Text: text, Format: domain.FormatText}
	if markup {
		var b strings.Builder
		for _, line := range strings.Split(text, "\n") {
			if strings.TrimSpace(line) != "" {
				b.WriteString("<p>" + strings.TrimSpace(line) + "</p>")
			}
		}
		conv.HTML = b.String()
	}
	return conv, nil
}

func (r *mockRegistry) Register(_ driven.Converter) {}

func (r *mockRegistry) SupportedExtensions() []string {
	return []string{".txt", ".docx"}
}

// mockPipeline implements driven.MarkupPipeline.
type mockPipeline struct {
	suffix string
	err    error
}

func (p *mockPipeline) Process(_ context.Context, html string) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	return html + p.suffix, nil
}

// mockCollectionStore implements driven.CollectionStore.
type mockCollectionStore struct {
	mu     sync.RWMutex
	result *domain.IngestResult
}

func newMockCollectionStore(docs ...domain.Document) *mockCollectionStore {
	if len(docs) == 0 {
		return &mockCollectionStore{}
	}
	return &mockCollectionStore{result: &domain.IngestResult{Collection: domain.NewCollection(docs)}}
}

func (s *mockCollectionStore) Current() *domain.Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.result == nil {
		return domain.EmptyCollection()
	}
	return s.result.Collection
}

func (s *mockCollectionStore) Replace(result *domain.IngestResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = result
}

func (s *mockCollectionStore) LastResult() *domain.IngestResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

// mockConfigStore implements driven.ConfigStore over a map.
type mockConfigStore struct {
	values map[string]any
	setErr error
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{values: make(map[string]any)}
}

func (s *mockConfigStore) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *mockConfigStore) GetString(key string) string {
	v, _ := s.values[key].(string)
	return v
}

func (s *mockConfigStore) GetInt(key string) int {
	v, _ := s.values[key].(int)
	return v
}

func (s *mockConfigStore) GetBool(key string) bool {
	v, _ := s.values[key].(bool)
	return v
}

func (s *mockConfigStore) GetStringSlice(key string) []string {
	v, _ := s.values[key].([]string)
	return v
}

func (s *mockConfigStore) Set(key string, value any) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.values[key] = value
	return nil
}

func (s *mockConfigStore) Save() error { return nil }
func (s *mockConfigStore) Load() error { return nil }
func (s *mockConfigStore) Path() string {
	return "/tmp/newsletter/config.toml"
}
