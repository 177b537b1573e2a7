package plaintext

import (
	"context"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/zmcado0/femme-futures-coop/internal/core/domain"
	"github.com/zmcado0/femme-futures-coop/internal/core/ports/driven"
)

// Ensure Converter implements the interface.
var _ driven.Converter = (*Converter)(nil)

// Converter handles plain text documents.
type Converter struct{}

// New creates a new plain text converter.
func New() *Converter {
	return &Converter{}
}

// Name returns the converter name.
func (c *Converter) Name() string {
	return "plaintext"
}

// Format returns the document format.
func (c *Converter) Format() domain.Format {
	return domain.FormatText
}

// SupportedExtensions returns the extensions this converter handles.
func (c *Converter) SupportedExtensions() []string {
	return []string{".txt", ".text"}
}

// ExtractText returns the content with line endings normalised.
func (c *Converter) ExtractText(_ context.Context, data []byte) (string, error) {
	return normalise(data)
}

// ExtractMarkup wraps each blank-line separated block in a <p>, with
// single newlines inside a block rendered as <br />.
func (c *Converter) ExtractMarkup(_ context.Context, data []byte, _ domain.ConvertOptions) (*domain.Markup, error) {
	text, err := normalise(data)
	if err != nil {
		return nil, err
	}

	var paragraphs []string
	for _, block := range strings.Split(text, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		escaped := strings.ReplaceAll(html.EscapeString(block), "\n", "<br />")
		paragraphs = append(paragraphs, "<p>"+escaped+"</p>")
	}
	return &domain.Markup{HTML: strings.Join(paragraphs, "\n")}, nil
}

func normalise(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", domain.ErrInvalidInput
	}
	text := strings.TrimPrefix(string(data), "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.TrimSpace(text), nil
}
