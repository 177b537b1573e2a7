package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zmcado0/femme-futures-coop/internal/core/domain"
)

var testNow = time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)

func newTestIngestService(
	manifest *mockManifest,
	fetcher *mockFetcher,
	registry *mockRegistry,
	settings domain.Settings,
) *IngestService {
	svc := NewIngestService(manifest, fetcher, registry, nil, settings)
	svc.SetClock(func() time.Time { return testNow })
	return svc
}

func docIDs(c *domain.Collection) []string {
	ids := make([]string, 0, c.Len())
	for _, d := range c.All() {
		ids = append(ids, d.ID)
	}
	return ids
}

func TestIngestService_ExampleScenario(t *testing.T) {
	manifest := &mockManifest{files: []string{"2024-08-22 Update.docx", "Welcome.docx"}}
	fetcher := &mockFetcher{files: map[string][]byte{
		"2024-08-22 Update.docx": []byte("Femme Futures Summer Update\nPublished August 22, 2024\n" +
			"Our members planted forty new fruit trees across the neighbourhood this season."),
		"Welcome.docx": []byte("Welcome to the Cooperative\n" +
			"This first letter introduces the people and projects behind the cooperative."),
	}}
	svc := newTestIngestService(manifest, fetcher, &mockRegistry{}, domain.DefaultSettings())

	result, err := svc.Ingest(context.Background())

	require.NoError(t, err)
	require.NoError(t, result.ManifestErr)
	require.Equal(t, 2, result.Collection.Len())
	assert.Equal(t, 2, result.Total)
	assert.Empty(t, result.Failures)
	assert.NotEmpty(t, result.RunID)

	docs := result.Collection.All()

	// Welcome has no date so it defaults to the ingestion day, which is later.
	assert.Equal(t, "Welcome", docs[0].ID)
	assert.Equal(t, domain.DateDefault, docs[0].DateSource)
	assert.Equal(t, Day(testNow), docs[0].Date)

	assert.Equal(t, "2024-08-22 Update", docs[1].ID)
	assert.Equal(t, "Femme Futures Summer Update", docs[1].Title)
	assert.Equal(t, domain.DateFromBody, docs[1].DateSource)
	assert.Equal(t, time.Date(2024, 8, 22, 0, 0, 0, 0, time.UTC), docs[1].Date)

	for _, d := range docs {
		assert.LessOrEqual(t, len([]rune(d.Excerpt)), 200)
		assert.NotEmpty(t, d.Title)
		assert.True(t, d.ContentIsMarkup)
		assert.Equal(t, testNow, d.IngestedAt)
	}
}

func TestIngestService_SortedByDateDescending(t *testing.T) {
	files := map[string][]byte{
		"a.docx":            []byte("January 5, 2023 newsletter body text"),
		"b.docx":            []byte("October 1, 2024 newsletter body text"),
		"c.docx":            []byte("no date at all in this body"),
		"2022-06-01 d.docx": []byte("dated by filename only"),
		"e.docx":            []byte("October 1, 2024 second on the same day"),
	}
	ids := []string{"a.docx", "b.docx", "c.docx", "2022-06-01 d.docx", "e.docx"}
	svc := newTestIngestService(&mockManifest{files: ids}, &mockFetcher{files: files}, &mockRegistry{}, domain.DefaultSettings())

	result, err := svc.Ingest(context.Background())
	require.NoError(t, err)

	docs := result.Collection.All()
	require.Len(t, docs, 5)
	assert.True(t, sort.SliceIsSorted(docs, func(i, j int) bool { return docs[i].Date.After(docs[j].Date) }))
	assert.Equal(t, []string{"c", "b", "e", "a", "2022-06-01 d"}, docIDs(result.Collection))
}

func TestIngestService_FailureIsolation(t *testing.T) {
	manifest := &mockManifest{files: []string{"one.txt", "two.txt", "three.txt"}}
	fetcher := &mockFetcher{
		files: map[string][]byte{
			"one.txt":   []byte("The first newsletter of the season"),
			"three.txt": []byte("The third newsletter of the season"),
		},
		errs: map[string]error{"two.txt": errors.New("connection reset")},
	}
	svc := newTestIngestService(manifest, fetcher, &mockRegistry{}, domain.DefaultSettings())

	result, err := svc.Ingest(context.Background())

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"one", "three"}, docIDs(result.Collection))
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "two.txt", result.Failures[0].Identifier)
	assert.Equal(t, domain.FailureFetch, result.Failures[0].Kind)
	assert.ErrorIs(t, &result.Failures[0], domain.ErrFetchFailed)
	assert.Equal(t, 0, result.Collection.Placeholders())
}

func TestIngestService_FailureKinds(t *testing.T) {
	manifest := &mockManifest{files: []string{"missing.txt", "zero.txt", "blank.txt", "bad.txt", "image.bin", "ok.txt"}}
	fetcher := &mockFetcher{files: map[string][]byte{
		"zero.txt":  {},
		"blank.txt": []byte("   \n\t\n"),
		"bad.txt":   []byte("whatever"),
		"image.bin": []byte{0x89, 0x50},
		"ok.txt":    []byte("A perfectly fine newsletter"),
	}}
	registry := &mockRegistry{convertErr: map[string]error{"bad.txt": errors.New("not a zip file")}}
	svc := newTestIngestService(manifest, fetcher, registry, domain.DefaultSettings())

	result, err := svc.Ingest(context.Background())
	require.NoError(t, err)

	kinds := make(map[string]domain.FailureKind)
	for _, f := range result.Failures {
		kinds[f.Identifier] = f.Kind
	}
	assert.Equal(t, map[string]domain.FailureKind{
		"missing.txt": domain.FailureFetch,
		"zero.txt":    domain.FailureEmpty,
		"blank.txt":   domain.FailureEmpty,
		"bad.txt":     domain.FailureConversion,
		"image.bin":   domain.FailureConversion,
	}, kinds)

	// Failures are reported in manifest order.
	order := make([]string, len(result.Failures))
	for i, f := range result.Failures {
		order[i] = f.Identifier
	}
	assert.Equal(t, []string{"missing.txt", "zero.txt", "blank.txt", "bad.txt", "image.bin"}, order)

	assert.Equal(t, []string{"ok"}, docIDs(result.Collection))
	assert.Equal(t, 5, result.FailureCount())
}

func TestIngestService_PlaceholderPolicy(t *testing.T) {
	manifest := &mockManifest{files: []string{"good.txt", "broken-issue.txt"}}
	fetcher := &mockFetcher{
		files: map[string][]byte{"good.txt": []byte("A good newsletter body")},
		errs:  map[string]error{"broken-issue.txt": errors.New("HTTP 404")},
	}

	t.Run("placeholder", func(t *testing.T) {
		settings := domain.DefaultSettings()
		settings.Ingest.FailurePolicy = domain.FailurePolicyPlaceholder
		svc := newTestIngestService(manifest, fetcher, &mockRegistry{}, settings)

		result, err := svc.Ingest(context.Background())
		require.NoError(t, err)

		require.Equal(t, 2, result.Collection.Len())
		assert.Equal(t, 1, result.Collection.Placeholders())

		doc, ok := result.Collection.Get("broken-issue")
		require.True(t, ok)
		assert.True(t, doc.IsPlaceholder)
		assert.Equal(t, "Broken Issue", doc.Title)
		assert.Equal(t, "Could not load broken-issue.txt: HTTP 404", doc.Excerpt)
		assert.Equal(t, "broken-issue.txt", doc.SourceRef)
		assert.Equal(t, domain.DateDefault, doc.DateSource)
		assert.Len(t, result.Failures, 1)
	})

	t.Run("drop", func(t *testing.T) {
		svc := newTestIngestService(manifest, fetcher, &mockRegistry{}, domain.DefaultSettings())

		result, err := svc.Ingest(context.Background())
		require.NoError(t, err)

		assert.Equal(t, []string{"good"}, docIDs(result.Collection))
		assert.Equal(t, 0, result.Collection.Placeholders())
		assert.Len(t, result.Failures, 1)
	})

	t.Run("tolerant forces placeholder", func(t *testing.T) {
		settings := domain.DefaultSettings()
		settings.Ingest.Tolerant = true
		svc := newTestIngestService(manifest, fetcher, &mockRegistry{}, settings)

		result, err := svc.Ingest(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 1, result.Collection.Placeholders())
	})
}

func TestIngestService_ManifestUnavailable(t *testing.T) {
	tests := []struct {
		name     string
		manifest *mockManifest
	}{
		{"load error", &mockManifest{err: errors.New("open manifest.json: no such file")}},
		{"wrapped error", &mockManifest{err: domain.ErrManifestUnavailable}},
		{"empty list", &mockManifest{files: []string{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestIngestService(tt.manifest, &mockFetcher{}, &mockRegistry{}, domain.DefaultSettings())

			result, err := svc.Ingest(context.Background())

			require.NoError(t, err)
			require.NotNil(t, result.Collection)
			assert.Equal(t, 0, result.Collection.Len())
			assert.ErrorIs(t, result.ManifestErr, domain.ErrManifestUnavailable)
			assert.True(t, result.Empty())
			assert.True(t, result.Status().Empty)
		})
	}
}

func TestIngestService_MissingDependencies(t *testing.T) {
	svc := NewIngestService(nil, nil, nil, nil, domain.DefaultSettings())

	_, err := svc.Ingest(context.Background())
	assert.Error(t, err)

	_, err = svc.IngestIdentifiers(context.Background(), []string{"a.txt"})
	assert.Error(t, err)
}

func TestIngestService_UniqueIDs(t *testing.T) {
	ids := []string{"issue.docx", "issue.md", "archive/issue.txt", ".docx", "issue-2.txt"}
	files := map[string][]byte{}
	for _, id := range ids {
		files[id] = []byte("body of " + id)
	}
	svc := newTestIngestService(nil, &mockFetcher{files: files}, &mockRegistry{}, domain.DefaultSettings())

	result, err := svc.IngestIdentifiers(context.Background(), ids)
	require.NoError(t, err)

	byRef := make(map[string]string)
	for _, d := range result.Collection.All() {
		byRef[d.SourceRef] = d.ID
	}
	assert.Equal(t, map[string]string{
		"issue.docx":        "issue",
		"issue.md":          "issue-2",
		"archive/issue.txt": "issue-3",
		".docx":             "doc-4",
		"issue-2.txt":       "issue-2-2",
	}, byRef)
}

func TestIngestService_FanOut(t *testing.T) {
	ids := []string{"a.txt", "b.txt", "c.txt", "d.txt"}
	files := map[string][]byte{}
	for _, id := range ids {
		files[id] = []byte("newsletter " + id)
	}

	// Every fetch blocks until all of them have started, which only
	// completes if the fetches run concurrently.
	var started atomic.Int32
	allStarted := make(chan struct{})
	fetcher := &mockFetcher{files: files, onFetch: func(string) {
		if started.Add(1) == int32(len(ids)) {
			close(allStarted)
		}
		select {
		case <-allStarted:
		case <-time.After(2 * time.Second):
		}
	}}
	svc := newTestIngestService(nil, fetcher, &mockRegistry{}, domain.DefaultSettings())

	begin := time.Now()
	result, err := svc.IngestIdentifiers(context.Background(), ids)

	require.NoError(t, err)
	assert.Equal(t, 4, result.Collection.Len())
	assert.Less(t, time.Since(begin), 2*time.Second)
}

func TestIngestService_MaxConcurrency(t *testing.T) {
	ids := []string{"a.txt", "b.txt", "c.txt", "d.txt", "e.txt", "f.txt"}
	files := map[string][]byte{}
	for _, id := range ids {
		files[id] = []byte("newsletter " + id)
	}

	var mu sync.Mutex
	inFlight, peak := 0, 0
	fetcher := &mockFetcher{files: files, onFetch: func(string) {
		mu.Lock()
		inFlight++
		peak = max(peak, inFlight)
		mu.Unlock()

		time.Sleep(5 * time.Millisecond)

		mu.Lock()
		inFlight--
		mu.Unlock()
	}}

	settings := domain.DefaultSettings()
	settings.Ingest.MaxConcurrency = 2
	svc := newTestIngestService(nil, fetcher, &mockRegistry{}, settings)

	result, err := svc.IngestIdentifiers(context.Background(), ids)

	require.NoError(t, err)
	assert.Equal(t, 6, result.Collection.Len())
	assert.LessOrEqual(t, peak, 2)
}

func TestIngestService_TextMode(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.Ingest.Mode = domain.ContentModeText
	body := "Harvest Festival Announcement " + strings.Repeat("and more ", 12)
	fetcher := &mockFetcher{files: map[string][]byte{"fest.txt": []byte(body)}}
	svc := newTestIngestService(nil, fetcher, &mockRegistry{}, settings)

	result, err := svc.IngestIdentifiers(context.Background(), []string{"fest.txt"})
	require.NoError(t, err)

	doc, ok := result.Collection.Get("fest")
	require.True(t, ok)
	assert.False(t, doc.ContentIsMarkup)
	assert.Equal(t, body, doc.Content)
	assert.Equal(t, body, doc.RawText)
	assert.LessOrEqual(t, len([]rune(doc.Title)), 100)
}

func TestIngestService_MarkupPipeline(t *testing.T) {
	fetcher := &mockFetcher{files: map[string][]byte{"a.txt": []byte("Newsletter body line")}}

	t.Run("applied", func(t *testing.T) {
		svc := NewIngestService(nil, fetcher, &mockRegistry{}, &mockPipeline{suffix: "<!-- normalised -->"}, domain.DefaultSettings())

		result, err := svc.IngestIdentifiers(context.Background(), []string{"a.txt"})
		require.NoError(t, err)

		doc, _ := result.Collection.Get("a")
		assert.Equal(t, "<p>Newsletter body line</p><!-- normalised -->", doc.Content)
		assert.Equal(t, "Newsletter body line", doc.RawText)
	})

	t.Run("error keeps converter markup", func(t *testing.T) {
		svc := NewIngestService(nil, fetcher, &mockRegistry{}, &mockPipeline{err: errors.New("bad markup")}, domain.DefaultSettings())

		result, err := svc.IngestIdentifiers(context.Background(), []string{"a.txt"})
		require.NoError(t, err)

		doc, _ := result.Collection.Get("a")
		assert.Equal(t, "<p>Newsletter body line</p>", doc.Content)
		require.NotEmpty(t, doc.Warnings)
		assert.Contains(t, doc.Warnings[len(doc.Warnings)-1], "bad markup")
	})
}

func TestIngestService_DatePolicyWarn(t *testing.T) {
	fetcher := &mockFetcher{files: map[string][]byte{"a.txt": []byte("Undated newsletter body")}}

	silent := newTestIngestService(nil, fetcher, &mockRegistry{}, domain.DefaultSettings())
	result, err := silent.IngestIdentifiers(context.Background(), []string{"a.txt"})
	require.NoError(t, err)
	doc, _ := result.Collection.Get("a")
	assert.Empty(t, doc.Warnings)

	settings := domain.DefaultSettings()
	settings.Heuristics.DatePolicy = domain.DatePolicyWarn
	warn := newTestIngestService(nil, fetcher, &mockRegistry{}, settings)
	result, err = warn.IngestIdentifiers(context.Background(), []string{"a.txt"})
	require.NoError(t, err)
	doc, _ = result.Collection.Get("a")
	require.Len(t, doc.Warnings, 1)
	assert.Contains(t, doc.Warnings[0], "no date found")
}

func TestIngestService_ConverterPanicIsContained(t *testing.T) {
	fetcher := &mockFetcher{files: map[string][]byte{
		"bad.docx":  []byte("boom"),
		"good.docx": []byte("A fine newsletter body"),
	}}
	registry := &mockRegistry{panicOn: "bad.docx"}
	svc := newTestIngestService(nil, fetcher, registry, domain.DefaultSettings())

	result, err := svc.IngestIdentifiers(context.Background(), []string{"bad.docx", "good.docx"})

	require.NoError(t, err)
	assert.Equal(t, []string{"good"}, docIDs(result.Collection))
	require.Len(t, result.Failures, 1)
	assert.ErrorIs(t, &result.Failures[0], domain.ErrConversionFailed)
}
