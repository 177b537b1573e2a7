package markdown

import (
	"bytes"
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	htmlconv "github.com/zmcado0/femme-futures-coop/internal/converters/html"
	"github.com/zmcado0/femme-futures-coop/internal/core/domain"
	"github.com/zmcado0/femme-futures-coop/internal/core/ports/driven"
)

// Ensure Converter implements the interface.
var _ driven.Converter = (*Converter)(nil)

// Converter handles markdown documents. Markdown is rendered to HTML with
// goldmark and then handed to the HTML converter, so both formats share
// one text extraction and sanitising pass.
type Converter struct {
	md   goldmark.Markdown
	html *htmlconv.Converter
}

// New creates a new markdown converter.
func New() *Converter {
	return &Converter{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(gmhtml.WithXHTML()),
		),
		html: htmlconv.New(),
	}
}

// Name returns the converter name.
func (c *Converter) Name() string {
	return "markdown"
}

// Format returns the document format.
func (c *Converter) Format() domain.Format {
	return domain.FormatMarkdown
}

// SupportedExtensions returns the extensions this converter handles.
func (c *Converter) SupportedExtensions() []string {
	return []string{".md", ".markdown"}
}

// ExtractText returns the document text with markdown syntax removed.
func (c *Converter) ExtractText(ctx context.Context, data []byte) (string, error) {
	rendered, err := c.render(data)
	if err != nil {
		return "", err
	}
	return c.html.ExtractText(ctx, rendered)
}

// ExtractMarkup returns the rendered HTML fragment. Raw HTML in the
// source is omitted by the renderer.
func (c *Converter) ExtractMarkup(ctx context.Context, data []byte, opts domain.ConvertOptions) (*domain.Markup, error) {
	rendered, err := c.render(data)
	if err != nil {
		return nil, err
	}
	return c.html.ExtractMarkup(ctx, rendered, opts)
}

func (c *Converter) render(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.md.Convert(data, &buf); err != nil {
		return nil, fmt.Errorf("%w: render markdown: %v", domain.ErrInvalidInput, err)
	}
	return buf.Bytes(), nil
}
