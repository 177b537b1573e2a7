package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zmcado0/femme-futures-coop/internal/core/domain"
	"github.com/zmcado0/femme-futures-coop/internal/core/ports/driven"
	"github.com/zmcado0/femme-futures-coop/internal/core/ports/driving"
	"github.com/zmcado0/femme-futures-coop/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.Ingester = (*IngestService)(nil)

// errNoIdentifiers is wrapped into ErrManifestUnavailable for an empty manifest.
var errNoIdentifiers = errors.New("manifest lists no files")

// IngestService runs the ingestion pipeline: manifest, fetch, convert,
// derive, normalise. Every identifier is processed in its own goroutine and
// the run completes once all of them have settled.
type IngestService struct {
	manifest driven.ManifestSource
	fetcher  driven.ByteFetcher
	registry driven.ConverterRegistry
	pipeline driven.MarkupPipeline
	settings domain.Settings
	now      func() time.Time
}

// NewIngestService creates a new ingestion service.
// The pipeline is optional - if nil, converter markup is stored as produced.
func NewIngestService(
	manifest driven.ManifestSource,
	fetcher driven.ByteFetcher,
	registry driven.ConverterRegistry,
	pipeline driven.MarkupPipeline,
	settings domain.Settings,
) *IngestService {
	return &IngestService{
		manifest: manifest,
		fetcher:  fetcher,
		registry: registry,
		pipeline: pipeline,
		settings: settings,
		now:      time.Now,
	}
}

// SetClock replaces the clock used for ingestion timestamps and default dates.
func (s *IngestService) SetClock(now func() time.Time) {
	s.now = now
}

// Ingest loads the manifest and ingests every identifier it lists.
// A missing, malformed or empty manifest yields an empty collection with
// ManifestErr set.
func (s *IngestService) Ingest(ctx context.Context) (*domain.IngestResult, error) {
	if s.manifest == nil {
		return nil, errors.New("ingest: manifest source not configured")
	}

	start := s.now()
	runID := uuid.New().String()

	logger.Section("Ingest")
	identifiers, err := s.manifest.Load(ctx)
	if err == nil && len(identifiers) == 0 {
		err = errNoIdentifiers
	}
	if err != nil {
		if !errors.Is(err, domain.ErrManifestUnavailable) {
			err = fmt.Errorf("%w: %w", domain.ErrManifestUnavailable, err)
		}
		logger.Warn("%v", err)
		return &domain.IngestResult{
			RunID:       runID,
			Collection:  domain.EmptyCollection(),
			ManifestErr: err,
			Duration:    s.now().Sub(start),
		}, nil
	}

	return s.run(ctx, runID, start, identifiers)
}

// IngestIdentifiers ingests the given identifiers without loading the manifest.
func (s *IngestService) IngestIdentifiers(ctx context.Context, identifiers []string) (*domain.IngestResult, error) {
	return s.run(ctx, uuid.New().String(), s.now(), identifiers)
}

// outcome is the settled state of one identifier.
type outcome struct {
	doc     *domain.Document
	failure *domain.IngestFailure
}

func (s *IngestService) run(
	ctx context.Context,
	runID string,
	start time.Time,
	identifiers []string,
) (*domain.IngestResult, error) {
	if s.fetcher == nil || s.registry == nil {
		return nil, errors.New("ingest: fetcher and converter registry are required")
	}

	ingestedAt := start
	outcomes := make([]outcome, len(identifiers))

	var sem chan struct{}
	if n := s.settings.Ingest.MaxConcurrency; n > 0 {
		sem = make(chan struct{}, n)
	}

	var wg sync.WaitGroup
	for i, identifier := range identifiers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if sem != nil {
				sem <- struct{}{}
				defer func() { <-sem }()
			}
			outcomes[i] = s.ingestOne(ctx, identifier, ingestedAt)
		}()
	}
	wg.Wait()

	policy := s.settings.Ingest.EffectivePolicy()
	ids := newIDAssigner()
	docs := make([]domain.Document, 0, len(identifiers))
	var failures []domain.IngestFailure

	for i, o := range outcomes {
		if o.failure != nil {
			failures = append(failures, *o.failure)
			logger.Event(ctx, slog.LevelWarn, "ingest failed",
				"run", runID, "identifier", o.failure.Identifier, "kind", string(o.failure.Kind), "err", o.failure.Reason())
			if policy != domain.FailurePolicyPlaceholder {
				continue
			}
			o.doc = s.placeholder(o.failure, ingestedAt)
		}
		o.doc.ID = ids.assign(identifiers[i], i)
		docs = append(docs, *o.doc)
	}

	result := &domain.IngestResult{
		RunID:      runID,
		Collection: domain.NewCollection(docs),
		Failures:   failures,
		Total:      len(identifiers),
		Duration:   s.now().Sub(start),
	}

	logger.Info("Ingested %d of %d files (%d failed) in %s",
		len(identifiers)-len(failures), len(identifiers), len(failures), result.Duration)
	return result, nil
}

// ingestOne fetches, converts and derives one document. It never panics
// outward: a converter panic is reported as a conversion failure.
func (s *IngestService) ingestOne(ctx context.Context, identifier string, ingestedAt time.Time) (out outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = outcome{failure: domain.NewIngestFailure(identifier, domain.FailureConversion,
				fmt.Errorf("converter panic: %v", r))}
		}
	}()

	logger.Debug("Fetching %s", identifier)
	data, err := s.fetcher.Fetch(ctx, identifier)
	if err != nil {
		return outcome{failure: domain.NewIngestFailure(identifier, domain.FailureFetch, err)}
	}
	if len(data) == 0 {
		return outcome{failure: domain.NewIngestFailure(identifier, domain.FailureEmpty, errors.New("zero-length file"))}
	}

	markup := s.settings.Ingest.Mode != domain.ContentModeText
	raw := &domain.RawDocument{Identifier: identifier, Content: data}
	conv, err := s.registry.Convert(ctx, raw, markup, s.settings.Ingest.ConvertOptions())
	if err != nil {
		return outcome{failure: domain.NewIngestFailure(identifier, domain.FailureConversion, err)}
	}
	if strings.TrimSpace(conv.Text) == "" {
		return outcome{failure: domain.NewIngestFailure(identifier, domain.FailureEmpty, errors.New("no extractable text"))}
	}

	doc := s.buildDocument(ctx, identifier, conv, ingestedAt)
	return outcome{doc: &doc}
}

func (s *IngestService) buildDocument(
	ctx context.Context,
	identifier string,
	conv *domain.Conversion,
	ingestedAt time.Time,
) domain.Document {
	h := s.settings.Heuristics
	textMode := s.settings.Ingest.Mode == domain.ContentModeText

	doc := domain.Document{
		Title:      DeriveTitle(conv.Text, identifier, h, textMode),
		Excerpt:    DeriveExcerpt(conv.Text, h),
		RawText:    conv.Text,
		SourceRef:  identifier,
		Format:     conv.Format,
		Warnings:   append([]string(nil), conv.Warnings...),
		IngestedAt: ingestedAt,
	}

	doc.Date, doc.DateSource = DeriveDate(conv.Text, identifier, Day(ingestedAt))
	if doc.DateSource == domain.DateDefault && h.DatePolicy == domain.DatePolicyWarn {
		warning := "no date found; using ingestion date"
		doc.Warnings = append(doc.Warnings, warning)
		logger.Warn("%s: %s", identifier, warning)
	}

	if textMode || conv.HTML == "" {
		doc.Content = conv.Text
		return doc
	}

	doc.Content = conv.HTML
	doc.ContentIsMarkup = true
	if s.pipeline != nil {
		processed, err := s.pipeline.Process(ctx, conv.HTML)
		if err != nil {
			doc.Warnings = append(doc.Warnings, fmt.Sprintf("markup normalisation skipped: %v", err))
			logger.Warn("%s: markup normalisation failed: %v", identifier, err)
		} else {
			doc.Content = processed
		}
	}
	return doc
}

// placeholder synthesises a stand-in document for a failed identifier.
func (s *IngestService) placeholder(failure *domain.IngestFailure, ingestedAt time.Time) *domain.Document {
	message := fmt.Sprintf("Could not load %s: %s", failure.Identifier, failure.Reason())
	return &domain.Document{
		Title:         TitleFromIdentifier(failure.Identifier),
		Date:          Day(ingestedAt),
		DateSource:    domain.DateDefault,
		Excerpt:       truncate(message, s.settings.Heuristics.ExcerptLimit),
		Content:       message,
		RawText:       message,
		SourceRef:     failure.Identifier,
		Format:        domain.FormatFromIdentifier(failure.Identifier),
		IsPlaceholder: true,
		Warnings:      []string{string(failure.Kind)},
		IngestedAt:    ingestedAt,
	}
}

// idAssigner hands out unique document IDs within one run.
type idAssigner struct {
	used map[string]bool
}

func newIDAssigner() *idAssigner {
	return &idAssigner{used: make(map[string]bool)}
}

// assign derives an ID from identifier's base name. Repeats get -2, -3, ...
// An identifier with no usable name gets doc-<position>.
func (a *idAssigner) assign(identifier string, position int) string {
	base := strings.TrimSpace(stripExtension(baseName(identifier)))
	if base == "" {
		base = "doc-" + strconv.Itoa(position+1)
	}

	id := base
	for n := 2; a.used[id]; n++ {
		id = base + "-" + strconv.Itoa(n)
	}
	a.used[id] = true
	return id
}

func baseName(identifier string) string {
	identifier = strings.ReplaceAll(identifier, "\\", "/")
	if i := strings.LastIndex(identifier, "/"); i >= 0 {
		return identifier[i+1:]
	}
	return identifier
}
