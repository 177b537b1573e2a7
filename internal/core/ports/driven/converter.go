package driven

import (
	"context"

	"github.com/zmcado0/femme-futures-coop/internal/core/domain"
)

// Converter turns raw document bytes into text and markup.
// Each converter handles a set of file extensions (e.g., .docx, .md).
type Converter interface {
	// Name returns the converter name for logging.
	Name() string

	// Format returns the document format the converter handles.
	Format() domain.Format

	// SupportedExtensions returns lower-case extensions including the dot.
	SupportedExtensions() []string

	// ExtractText returns the plain-text body.
	ExtractText(ctx context.Context, data []byte) (string, error)

	// ExtractMarkup returns the HTML body and any conversion warnings.
	ExtractMarkup(ctx context.Context, data []byte, opts domain.ConvertOptions) (*domain.Markup, error)
}
