package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/zmcado0/femme-futures-coop/internal/core/domain"
	"github.com/zmcado0/femme-futures-coop/internal/core/ports/driven"
)

// Ensure Converter implements the interface.
var _ driven.Converter = (*Converter)(nil)

const (
	documentPart = "word/document.xml"
	stylesPart   = "word/styles.xml"
	relsPart     = "word/_rels/document.xml.rels"
)

// Converter handles DOCX (Office Open XML) documents.
type Converter struct{}

// New creates a new DOCX converter.
func New() *Converter {
	return &Converter{}
}

// Name returns the converter name.
func (c *Converter) Name() string {
	return "docx"
}

// Format returns the document format.
func (c *Converter) Format() domain.Format {
	return domain.FormatDocx
}

// SupportedExtensions returns the extensions this converter handles.
func (c *Converter) SupportedExtensions() []string {
	return []string{".docx"}
}

// ExtractText returns the document text, one line per paragraph.
func (c *Converter) ExtractText(_ context.Context, data []byte) (string, error) {
	doc, err := open(data)
	if err != nil {
		return "", err
	}
	return renderText(doc.paragraphs), nil
}

// ExtractMarkup returns the document as an HTML fragment. Paragraph styles
// are resolved to display names through word/styles.xml and mapped with
// opts.StyleMap.
func (c *Converter) ExtractMarkup(_ context.Context, data []byte, opts domain.ConvertOptions) (*domain.Markup, error) {
	doc, err := open(data)
	if err != nil {
		return nil, err
	}

	r := newRenderer(doc, opts)
	return &domain.Markup{HTML: r.render(), Warnings: r.warnings}, nil
}

// archive is a parsed DOCX package.
type archive struct {
	zip        *zip.Reader
	paragraphs []paragraph
	styleNames map[string]string
	rels       map[string]relationship
}

func open(data []byte) (*archive, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: not a docx archive: %v", domain.ErrInvalidInput, err)
	}

	content, err := readPart(reader, documentPart)
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, fmt.Errorf("%w: missing %s", domain.ErrInvalidInput, documentPart)
	}

	paragraphs, err := parseDocument(content)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", domain.ErrInvalidInput, documentPart, err)
	}

	p := &archive{
		zip:        reader,
		paragraphs: paragraphs,
		styleNames: map[string]string{},
		rels:       map[string]relationship{},
	}

	// Styles and relationships are optional; a document without them
	// still converts, falling back to style IDs and dropping images.
	if styles, err := readPart(reader, stylesPart); err == nil && styles != nil {
		p.styleNames = parseStyles(styles)
	}
	if rels, err := readPart(reader, relsPart); err == nil && rels != nil {
		p.rels = parseRelationships(rels)
	}

	return p, nil
}

// readPart returns the named archive member, or nil if it does not exist.
func readPart(reader *zip.Reader, name string) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: open %s: %v", domain.ErrInvalidInput, name, err)
		}
		defer rc.Close()

		content, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", domain.ErrInvalidInput, name, err)
		}
		return content, nil
	}
	return nil, nil
}

// stylesXML is the subset of word/styles.xml we need.
type stylesXML struct {
	Styles []struct {
		ID   string `xml:"styleId,attr"`
		Name struct {
			Val string `xml:"val,attr"`
		} `xml:"name"`
	} `xml:"style"`
}

// parseStyles maps style IDs ("Heading1") to display names ("heading 1").
func parseStyles(content []byte) map[string]string {
	var doc stylesXML
	names := make(map[string]string)
	if err := xml.Unmarshal(content, &doc); err != nil {
		return names
	}
	for _, s := range doc.Styles {
		if s.ID != "" && s.Name.Val != "" {
			names[s.ID] = s.Name.Val
		}
	}
	return names
}

// relationship is one entry of word/_rels/document.xml.rels.
type relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

func parseRelationships(content []byte) map[string]relationship {
	var doc struct {
		Relationships []relationship `xml:"Relationship"`
	}
	rels := make(map[string]relationship)
	if err := xml.Unmarshal(content, &doc); err != nil {
		return rels
	}
	for _, r := range doc.Relationships {
		rels[r.ID] = r
	}
	return rels
}
