package services

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/zmcado0/femme-futures-coop/internal/core/domain"
	"github.com/zmcado0/femme-futures-coop/internal/core/ports/driven"
	"github.com/zmcado0/femme-futures-coop/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// valueKind is the storage type of a configuration key.
type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindBool
	kindFloat
	kindDuration
	kindList
)

// settingKey binds a config key and its environment variable to a field.
type settingKey struct {
	name  string
	env   string
	kind  valueKind
	apply func(s *domain.Settings, v any)
}

// settingKeys lists every recognised configuration key.
var settingKeys = []settingKey{
	{"source.location", "NEWSLETTER_SOURCE", kindString, func(s *domain.Settings, v any) {
		s.Source.Location = v.(string)
	}},
	{"source.manifest", "NEWSLETTER_MANIFEST", kindString, func(s *domain.Settings, v any) {
		s.Source.ManifestPath = v.(string)
	}},
	{"source.content_dir", "NEWSLETTER_CONTENT_DIR", kindString, func(s *domain.Settings, v any) {
		s.Source.ContentDir = v.(string)
	}},
	{"fetch.timeout", "NEWSLETTER_FETCH_TIMEOUT", kindDuration, func(s *domain.Settings, v any) {
		s.Source.Timeout = v.(time.Duration)
	}},
	{"fetch.rate_limit", "NEWSLETTER_FETCH_RATE_LIMIT", kindFloat, func(s *domain.Settings, v any) {
		s.Source.RateLimit = v.(float64)
	}},
	{"ingest.failure_policy", "NEWSLETTER_FAILURE_POLICY", kindString, func(s *domain.Settings, v any) {
		s.Ingest.FailurePolicy = domain.FailurePolicy(v.(string))
	}},
	{"ingest.tolerant", "NEWSLETTER_TOLERANT", kindBool, func(s *domain.Settings, v any) {
		s.Ingest.Tolerant = v.(bool)
	}},
	{"ingest.mode", "NEWSLETTER_MODE", kindString, func(s *domain.Settings, v any) {
		s.Ingest.Mode = domain.ContentMode(v.(string))
	}},
	{"ingest.max_concurrency", "NEWSLETTER_MAX_CONCURRENCY", kindInt, func(s *domain.Settings, v any) {
		s.Ingest.MaxConcurrency = v.(int)
	}},
	{"markup.transforms", "NEWSLETTER_TRANSFORMS", kindList, func(s *domain.Settings, v any) {
		s.Ingest.Transforms = v.([]string)
	}},
	{"markup.styles", "NEWSLETTER_STYLES", kindList, func(s *domain.Settings, v any) {
		s.Ingest.StyleMap = parseStyleMap(v.([]string))
	}},
	{"markup.inline_images", "NEWSLETTER_INLINE_IMAGES", kindBool, func(s *domain.Settings, v any) {
		s.Ingest.InlineImages = v.(bool)
	}},
	{"heuristics.title_min", "", kindInt, func(s *domain.Settings, v any) {
		s.Heuristics.TitleMinLen = v.(int)
	}},
	{"heuristics.title_max", "", kindInt, func(s *domain.Settings, v any) {
		s.Heuristics.TitleMaxLen = v.(int)
	}},
	{"heuristics.title_limit", "", kindInt, func(s *domain.Settings, v any) {
		s.Heuristics.TitleLimit = v.(int)
	}},
	{"heuristics.excerpt_only", "NEWSLETTER_EXCERPT_ONLY", kindBool, func(s *domain.Settings, v any) {
		s.Heuristics.ExcerptOnly = v.(bool)
	}},
	{"heuristics.excerpt_min", "", kindInt, func(s *domain.Settings, v any) {
		s.Heuristics.ExcerptMinLen = v.(int)
	}},
	{"heuristics.excerpt_max", "", kindInt, func(s *domain.Settings, v any) {
		s.Heuristics.ExcerptMaxLen = v.(int)
	}},
	{"heuristics.excerpt_limit", "", kindInt, func(s *domain.Settings, v any) {
		s.Heuristics.ExcerptLimit = v.(int)
	}},
	{"heuristics.excerpt_fallback", "", kindString, func(s *domain.Settings, v any) {
		s.Heuristics.ExcerptFallback = v.(string)
	}},
	{"heuristics.date_policy", "NEWSLETTER_DATE_POLICY", kindString, func(s *domain.Settings, v any) {
		s.Heuristics.DatePolicy = domain.DatePolicy(v.(string))
	}},
}

// settingGetters reads each key back out of resolved settings.
var settingGetters = map[string]func(domain.Settings) any{
	"source.location":             func(s domain.Settings) any { return s.Source.Location },
	"source.manifest":             func(s domain.Settings) any { return s.Source.ManifestPath },
	"source.content_dir":          func(s domain.Settings) any { return s.Source.ContentDir },
	"fetch.timeout":               func(s domain.Settings) any { return s.Source.Timeout },
	"fetch.rate_limit":            func(s domain.Settings) any { return s.Source.RateLimit },
	"ingest.failure_policy":       func(s domain.Settings) any { return string(s.Ingest.FailurePolicy) },
	"ingest.tolerant":             func(s domain.Settings) any { return s.Ingest.Tolerant },
	"ingest.mode":                 func(s domain.Settings) any { return string(s.Ingest.Mode) },
	"ingest.max_concurrency":      func(s domain.Settings) any { return s.Ingest.MaxConcurrency },
	"markup.transforms":           func(s domain.Settings) any { return s.Ingest.Transforms },
	"markup.styles":               func(s domain.Settings) any { return styleEntries(s.Ingest.StyleMap) },
	"markup.inline_images":        func(s domain.Settings) any { return s.Ingest.InlineImages },
	"heuristics.title_min":        func(s domain.Settings) any { return s.Heuristics.TitleMinLen },
	"heuristics.title_max":        func(s domain.Settings) any { return s.Heuristics.TitleMaxLen },
	"heuristics.title_limit":      func(s domain.Settings) any { return s.Heuristics.TitleLimit },
	"heuristics.excerpt_only":     func(s domain.Settings) any { return s.Heuristics.ExcerptOnly },
	"heuristics.excerpt_min":      func(s domain.Settings) any { return s.Heuristics.ExcerptMinLen },
	"heuristics.excerpt_max":      func(s domain.Settings) any { return s.Heuristics.ExcerptMaxLen },
	"heuristics.excerpt_limit":    func(s domain.Settings) any { return s.Heuristics.ExcerptLimit },
	"heuristics.excerpt_fallback": func(s domain.Settings) any { return s.Heuristics.ExcerptFallback },
	"heuristics.date_policy":      func(s domain.Settings) any { return string(s.Heuristics.DatePolicy) },
}

// SettingsService resolves settings from defaults, the config store and the
// environment, in increasing order of precedence.
type SettingsService struct {
	configStore driven.ConfigStore
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service reading the process environment.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		lookupEnv:   os.LookupEnv,
	}
}

// SetEnvLookup replaces the environment lookup. Pass nil to ignore the environment.
func (s *SettingsService) SetEnvLookup(lookup func(string) (string, bool)) {
	if lookup == nil {
		lookup = func(string) (string, bool) { return "", false }
	}
	s.lookupEnv = lookup
}

// Get returns the effective settings. Stored values of the wrong type are
// ignored; the combined result must pass domain validation.
func (s *SettingsService) Get() (domain.Settings, error) {
	settings := domain.DefaultSettings()

	for _, k := range settingKeys {
		if s.configStore != nil {
			if raw, ok := s.configStore.Get(k.name); ok {
				if v, err := convertValue(k.kind, raw); err == nil {
					k.apply(&settings, v)
				}
			}
		}
		if k.env == "" {
			continue
		}
		if raw, ok := s.lookupEnv(k.env); ok && raw != "" {
			v, err := convertValue(k.kind, raw)
			if err != nil {
				return settings, fmt.Errorf("%s: %w", k.env, err)
			}
			k.apply(&settings, v)
		}
	}

	if err := settings.Validate(); err != nil {
		return settings, err
	}
	return settings, nil
}

// Set parses value for key, checks the result is valid, and stores it.
func (s *SettingsService) Set(key, value string) error {
	k, ok := lookupKey(key)
	if !ok {
		return fmt.Errorf("%w: unknown config key %q", domain.ErrInvalidInput, key)
	}

	v, err := convertValue(k.kind, value)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
	}

	current, _ := s.Get()
	k.apply(&current, v)
	if err := current.Validate(); err != nil {
		return err
	}

	if err := s.configStore.Set(key, storedValue(k.kind, v)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns every recognised configuration key, sorted.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingKeys))
	for i, k := range settingKeys {
		keys[i] = k.name
	}
	sort.Strings(keys)
	return keys
}

// EnvVar returns the environment variable that overrides key, if any.
func EnvVar(key string) string {
	if k, ok := lookupKey(key); ok {
		return k.env
	}
	return ""
}

// Value returns the effective value of key, formatted as it would be
// passed to Set.
func (s *SettingsService) Value(key string) (string, error) {
	if _, ok := lookupKey(key); !ok {
		return "", fmt.Errorf("%w: unknown config key %q", domain.ErrInvalidInput, key)
	}
	settings, err := s.Get()
	if err != nil {
		return "", err
	}
	return formatValue(settingGetters[key](settings)), nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

func lookupKey(name string) (settingKey, bool) {
	for _, k := range settingKeys {
		if k.name == name {
			return k, true
		}
	}
	return settingKey{}, false
}

// convertValue normalises a stored TOML value or a string from the
// environment or command line into the kind's Go type.
//
//nolint:gocyclo // One case per kind and source type.
func convertValue(kind valueKind, raw any) (any, error) {
	str, isString := raw.(string)

	switch kind {
	case kindString:
		if !isString {
			return nil, fmt.Errorf("expected string, got %T", raw)
		}
		return strings.TrimSpace(str), nil

	case kindInt:
		switch v := raw.(type) {
		case int64:
			return int(v), nil
		case int:
			return v, nil
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return nil, fmt.Errorf("expected integer: %w", err)
			}
			return n, nil
		}

	case kindBool:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return nil, fmt.Errorf("expected true or false: %w", err)
			}
			return b, nil
		}

	case kindFloat:
		switch v := raw.(type) {
		case float64:
			return v, nil
		case int64:
			return float64(v), nil
		case int:
			return float64(v), nil
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return nil, fmt.Errorf("expected number: %w", err)
			}
			return f, nil
		}

	case kindDuration:
		if isString {
			d, err := time.ParseDuration(strings.TrimSpace(str))
			if err != nil {
				return nil, fmt.Errorf("expected duration such as 10s: %w", err)
			}
			return d, nil
		}

	case kindList:
		switch v := raw.(type) {
		case string:
			return splitList(v), nil
		case []string:
			return v, nil
		case []any:
			out := make([]string, 0, len(v))
			for _, item := range v {
				if s, ok := item.(string); ok {
					out = append(out, s)
				}
			}
			return out, nil
		}
	}

	return nil, fmt.Errorf("unexpected value type %T", raw)
}

// storedValue converts a parsed value to the form written to the config file.
func storedValue(kind valueKind, v any) any {
	if kind == kindDuration {
		return v.(time.Duration).String()
	}
	return v
}

// formatValue renders a setting value in the form Set accepts.
func formatValue(v any) string {
	switch v := v.(type) {
	case []string:
		return strings.Join(v, ",")
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case time.Duration:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// styleEntries turns a style map back into sorted "name=target" entries.
func styleEntries(styles map[string]string) []string {
	entries := make([]string, 0, len(styles))
	for name, target := range styles {
		entries = append(entries, name+"="+target)
	}
	sort.Strings(entries)
	return entries
}

// splitList splits a comma-separated list, dropping blank items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// parseStyleMap parses "Style Name=element.class" entries.
func parseStyleMap(entries []string) map[string]string {
	styles := make(map[string]string, len(entries))
	for _, entry := range entries {
		name, target, ok := strings.Cut(entry, "=")
		name, target = strings.TrimSpace(name), strings.TrimSpace(target)
		if !ok || name == "" || target == "" {
			continue
		}
		styles[name] = target
	}
	return styles
}
