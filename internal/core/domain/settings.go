package domain

import (
	"errors"
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// FailurePolicy decides what happens to an identifier that fails to ingest.
type FailurePolicy string

// Available failure policies.
const (
	// FailurePolicyDrop omits failed identifiers from the collection.
	FailurePolicyDrop FailurePolicy = "drop"

	// FailurePolicyPlaceholder synthesises a placeholder document.
	FailurePolicyPlaceholder FailurePolicy = "placeholder"
)

// IsValid returns true if the policy is recognised.
func (p FailurePolicy) IsValid() bool {
	switch p {
	case FailurePolicyDrop, FailurePolicyPlaceholder:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p FailurePolicy) String() string {
	return string(p)
}

// Description returns a human-readable description of the policy.
func (p FailurePolicy) Description() string {
	switch p {
	case FailurePolicyDrop:
		return "Drop (failed files are omitted)"
	case FailurePolicyPlaceholder:
		return "Placeholder (failed files show as stubs)"
	default:
		return unknownDescription
	}
}

// ContentMode selects what a document's Content holds.
type ContentMode string

// Available content modes.
const (
	// ContentModeMarkup stores normalised HTML from the converter.
	ContentModeMarkup ContentMode = "markup"

	// ContentModeText stores plain text.
	ContentModeText ContentMode = "text"
)

// IsValid returns true if the mode is recognised.
func (m ContentMode) IsValid() bool {
	return m == ContentModeMarkup || m == ContentModeText
}

// DatePolicy decides how a missing or unparsable date is reported.
type DatePolicy string

// Available date policies.
const (
	// DatePolicySilent falls back to the ingestion date without comment.
	DatePolicySilent DatePolicy = "silent"

	// DatePolicyWarn falls back to the ingestion date and records a warning.
	DatePolicyWarn DatePolicy = "warn"
)

// IsValid returns true if the policy is recognised.
func (p DatePolicy) IsValid() bool {
	return p == DatePolicySilent || p == DatePolicyWarn
}

// Default heuristic values.
const (
	DefaultTitleMinLen         = 10
	DefaultTitleMaxLen         = 150
	DefaultTitleLimit          = 100
	DefaultExcerptOnlyTitleMin = 1
	DefaultExcerptOnlyTitleMax = 100
	DefaultExcerptMinLen       = 50
	DefaultExcerptMaxLen       = 300
	DefaultExcerptLimit        = 200
	DefaultExcerptFallback     = "Click to read this newsletter..."
	DefaultTitleFallback       = "Untitled Newsletter"
)

// HeuristicSettings bounds the title, excerpt and date heuristics.
// Length ranges are half-open: [Min, Max).
type HeuristicSettings struct {
	// TitleMinLen and TitleMaxLen bound a qualifying title line.
	TitleMinLen int
	TitleMaxLen int

	// TitleLimit truncates titles in text mode.
	TitleLimit int

	// ExcerptOnly switches title bounds to the excerpt-only range.
	ExcerptOnly bool

	// ExcerptOnlyTitleMin and ExcerptOnlyTitleMax bound titles in excerpt-only mode.
	ExcerptOnlyTitleMin int
	ExcerptOnlyTitleMax int

	// ExcerptMinLen and ExcerptMaxLen bound a qualifying excerpt line.
	ExcerptMinLen int
	ExcerptMaxLen int

	// ExcerptLimit truncates excerpts, ellipsis included.
	ExcerptLimit int

	// ExcerptFallback is used when no excerpt can be derived.
	ExcerptFallback string

	// DatePolicy controls reporting of defaulted dates.
	DatePolicy DatePolicy
}

// TitleBounds returns the active title length range.
func (h HeuristicSettings) TitleBounds() (minLen, maxLen int) {
	if h.ExcerptOnly {
		return h.ExcerptOnlyTitleMin, h.ExcerptOnlyTitleMax
	}
	return h.TitleMinLen, h.TitleMaxLen
}

// SourceSettings locates the manifest and content.
type SourceSettings struct {
	// Location is an http(s) base URL or a local directory.
	Location string

	// ManifestPath is the manifest path relative to Location.
	ManifestPath string

	// ContentDir is the content folder relative to Location.
	ContentDir string

	// Timeout bounds each fetch. Zero means no timeout.
	Timeout time.Duration

	// RateLimit caps fetches per second. Zero means unlimited.
	RateLimit float64
}

// IngestSettings configures the ingestion pipeline.
type IngestSettings struct {
	// FailurePolicy decides what happens to failed identifiers.
	FailurePolicy FailurePolicy

	// Tolerant is the manual mode: failures always become placeholders.
	Tolerant bool

	// Mode selects markup or plain-text content.
	Mode ContentMode

	// MaxConcurrency caps in-flight identifiers. Zero means all at once.
	MaxConcurrency int

	// Transforms lists markup transforms by name, in order.
	Transforms []string

	// StyleMap overrides the converter style mapping.
	StyleMap map[string]string

	// InlineImages embeds images as data URIs.
	InlineImages bool
}

// EffectivePolicy returns the policy after applying tolerant mode.
func (s IngestSettings) EffectivePolicy() FailurePolicy {
	if s.Tolerant {
		return FailurePolicyPlaceholder
	}
	if !s.FailurePolicy.IsValid() {
		return FailurePolicyDrop
	}
	return s.FailurePolicy
}

// ConvertOptions returns the converter options for these settings.
func (s IngestSettings) ConvertOptions() ConvertOptions {
	styles := DefaultStyleMap()
	for k, v := range s.StyleMap {
		styles[k] = v
	}
	return ConvertOptions{StyleMap: styles, InlineImages: s.InlineImages}
}

// Settings is the complete application configuration.
type Settings struct {
	Source     SourceSettings
	Ingest     IngestSettings
	Heuristics HeuristicSettings
}

// DefaultHeuristicSettings returns the standard heuristic bounds.
func DefaultHeuristicSettings() HeuristicSettings {
	return HeuristicSettings{
		TitleMinLen:         DefaultTitleMinLen,
		TitleMaxLen:         DefaultTitleMaxLen,
		TitleLimit:          DefaultTitleLimit,
		ExcerptOnlyTitleMin: DefaultExcerptOnlyTitleMin,
		ExcerptOnlyTitleMax: DefaultExcerptOnlyTitleMax,
		ExcerptMinLen:       DefaultExcerptMinLen,
		ExcerptMaxLen:       DefaultExcerptMaxLen,
		ExcerptLimit:        DefaultExcerptLimit,
		ExcerptFallback:     DefaultExcerptFallback,
		DatePolicy:          DatePolicySilent,
	}
}

// DefaultSettings returns settings with all defaults applied.
func DefaultSettings() Settings {
	return Settings{
		Source: SourceSettings{
			Location:     ".",
			ManifestPath: "newsletters/manifest.json",
			ContentDir:   "newsletters",
		},
		Ingest: IngestSettings{
			FailurePolicy: FailurePolicyDrop,
			Mode:          ContentModeMarkup,
			InlineImages:  true,
		},
		Heuristics: DefaultHeuristicSettings(),
	}
}

// Validate checks settings for values the pipeline cannot use.
func (s Settings) Validate() error {
	var errs []error

	if s.Source.Location == "" {
		errs = append(errs, errors.New("source location is required"))
	}
	if s.Source.ManifestPath == "" {
		errs = append(errs, errors.New("manifest path is required"))
	}
	if s.Source.Timeout < 0 {
		errs = append(errs, errors.New("fetch timeout must not be negative"))
	}
	if s.Source.RateLimit < 0 {
		errs = append(errs, errors.New("fetch rate limit must not be negative"))
	}
	if !s.Ingest.FailurePolicy.IsValid() {
		errs = append(errs, fmt.Errorf("unknown failure policy %q", s.Ingest.FailurePolicy))
	}
	if !s.Ingest.Mode.IsValid() {
		errs = append(errs, fmt.Errorf("unknown content mode %q", s.Ingest.Mode))
	}
	if s.Ingest.MaxConcurrency < 0 {
		errs = append(errs, errors.New("max concurrency must not be negative"))
	}

	h := s.Heuristics
	if h.TitleMinLen < 0 || h.TitleMaxLen <= h.TitleMinLen {
		errs = append(errs, fmt.Errorf("invalid title bounds [%d, %d)", h.TitleMinLen, h.TitleMaxLen))
	}
	if h.ExcerptOnlyTitleMin < 0 || h.ExcerptOnlyTitleMax <= h.ExcerptOnlyTitleMin {
		errs = append(errs, fmt.Errorf("invalid excerpt-only title bounds [%d, %d)",
			h.ExcerptOnlyTitleMin, h.ExcerptOnlyTitleMax))
	}
	if h.ExcerptMinLen < 0 || h.ExcerptMaxLen <= h.ExcerptMinLen {
		errs = append(errs, fmt.Errorf("invalid excerpt bounds [%d, %d)", h.ExcerptMinLen, h.ExcerptMaxLen))
	}
	if h.ExcerptLimit < 4 {
		errs = append(errs, errors.New("excerpt limit must be at least 4"))
	}
	if h.TitleLimit < 1 {
		errs = append(errs, errors.New("title limit must be positive"))
	}
	if h.ExcerptFallback == "" {
		errs = append(errs, errors.New("excerpt fallback must not be empty"))
	}
	if !h.DatePolicy.IsValid() {
		errs = append(errs, fmt.Errorf("unknown date policy %q", h.DatePolicy))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidInput, errors.Join(errs...))
	}
	return nil
}
