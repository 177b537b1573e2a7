package driven

import (
	"context"

	"github.com/zmcado0/femme-futures-coop/internal/core/domain"
)

// ConverterRegistry selects the appropriate converter for a document.
// Selection is by the identifier's file extension.
type ConverterRegistry interface {
	// Convert runs the matching converter. With markup false only text is extracted.
	Convert(ctx context.Context, raw *domain.RawDocument, markup bool, opts domain.ConvertOptions) (*domain.Conversion, error)

	// Register adds a converter to the registry.
	Register(converter Converter)

	// SupportedExtensions returns all extensions that can be converted.
	SupportedExtensions() []string
}
