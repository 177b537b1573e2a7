package converters

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/zmcado0/femme-futures-coop/internal/converters/docx"
	"github.com/zmcado0/femme-futures-coop/internal/converters/html"
	"github.com/zmcado0/femme-futures-coop/internal/converters/markdown"
	"github.com/zmcado0/femme-futures-coop/internal/converters/plaintext"
	"github.com/zmcado0/femme-futures-coop/internal/core/domain"
	"github.com/zmcado0/femme-futures-coop/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ConverterRegistry = (*Registry)(nil)

// Registry selects a Converter by the identifier's file extension.
// It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	byExt map[string]driven.Converter
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byExt: make(map[string]driven.Converter)}
}

// NewDefaultRegistry creates a registry with all built-in converters.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

// RegisterDefaults registers the built-in converters.
func RegisterDefaults(r driven.ConverterRegistry) {
	r.Register(docx.New())
	r.Register(markdown.New())
	r.Register(html.New())
	r.Register(plaintext.New())
}

// Register adds a converter. A later converter replaces an earlier one
// for any extension both claim.
func (r *Registry) Register(c driven.Converter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range c.SupportedExtensions() {
		r.byExt[strings.ToLower(ext)] = c
	}
}

// Lookup returns the converter for identifier.
func (r *Registry) Lookup(identifier string) (driven.Converter, error) {
	ext := strings.ToLower(path.Ext(identifier))

	r.mu.RLock()
	c, ok := r.byExt[ext]
	r.mu.RUnlock()

	if !ok {
		if ext == "" {
			return nil, fmt.Errorf("%w: %s has no extension", domain.ErrUnsupportedType, identifier)
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, ext)
	}
	return c, nil
}

// Convert extracts text, and markup when requested, from raw.
func (r *Registry) Convert(
	ctx context.Context, raw *domain.RawDocument, markup bool, opts domain.ConvertOptions,
) (*domain.Conversion, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	c, err := r.Lookup(raw.Identifier)
	if err != nil {
		return nil, err
	}

	text, err := c.ExtractText(ctx, raw.Content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.Name(), err)
	}

	conv := &domain.Conversion{Text: text, Format: c.Format()}
	if !markup {
		return conv, nil
	}

	m, err := c.ExtractMarkup(ctx, raw.Content, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.Name(), err)
	}
	conv.HTML = m.HTML
	conv.Warnings = m.Warnings
	return conv, nil
}

// SupportedExtensions returns all registered extensions, sorted.
func (r *Registry) SupportedExtensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
