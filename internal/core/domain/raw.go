package domain

// RawDocument represents opaque bytes fetched for one identifier.
// It is the fetcher's output before conversion.
type RawDocument struct {
	// Identifier is the manifest entry (filename) the bytes belong to.
	Identifier string

	// Content is the raw bytes.
	Content []byte
}

// ConvertOptions configures markup extraction.
type ConvertOptions struct {
	// StyleMap maps a source paragraph style name to an output element,
	// optionally with a class: "h1", "h1.title", "p.center".
	StyleMap map[string]string

	// InlineImages embeds images as self-contained data URIs.
	// When false, images are dropped and a warning is recorded.
	InlineImages bool
}

// DefaultStyleMap returns the style mapping used when none is configured.
func DefaultStyleMap() map[string]string {
	return map[string]string{
		"Title":         "h1.title",
		"Subtitle":      "h2.subtitle",
		"Heading 1":     "h1",
		"Heading 2":     "h2",
		"Heading 3":     "h3",
		"Heading 4":     "h4",
		"Quote":         "blockquote",
		"Intense Quote": "blockquote.intense",
		"Normal":        "p",
	}
}

// Markup is structured output from a converter.
type Markup struct {
	// HTML is the extracted markup fragment.
	HTML string

	// Warnings are non-fatal conversion messages.
	Warnings []string
}

// Conversion is the combined converter output for one document.
type Conversion struct {
	// Text is the plain-text body.
	Text string

	// HTML is the markup body; empty in text mode.
	HTML string

	// Warnings are non-fatal conversion messages.
	Warnings []string

	// Format is the format the converter handled.
	Format Format
}
