package html

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/zmcado0/femme-futures-coop/internal/core/domain"
	"github.com/zmcado0/femme-futures-coop/internal/core/ports/driven"
)

// Ensure Converter implements the interface.
var _ driven.Converter = (*Converter)(nil)

// nonContent lists elements removed before extraction.
const nonContent = "head, script, style, noscript, svg, template, iframe, object, embed"

// blockElements start and end a line in extracted text.
var blockElements = map[string]bool{
	"p": true, "div": true, "hr": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "pre": true, "table": true, "section": true,
	"article": true, "header": true, "footer": true, "ul": true, "ol": true,
	"figure": true, "figcaption": true, "dt": true, "dd": true,
}

var multiSpaces = regexp.MustCompile(`[ \t\p{Zs}]+`)

// Converter handles HTML documents.
type Converter struct{}

// New creates a new HTML converter.
func New() *Converter {
	return &Converter{}
}

// Name returns the converter name.
func (c *Converter) Name() string {
	return "html"
}

// Format returns the document format.
func (c *Converter) Format() domain.Format {
	return domain.FormatHTML
}

// SupportedExtensions returns the extensions this converter handles.
func (c *Converter) SupportedExtensions() []string {
	return []string{".html", ".htm"}
}

// ExtractText returns the readable body text, one line per block element.
func (c *Converter) ExtractText(_ context.Context, data []byte) (string, error) {
	doc, err := parse(data)
	if err != nil {
		return "", err
	}
	return Text(doc.Find("body")), nil
}

// ExtractMarkup returns the inner HTML of the body with non-content
// elements, event handler attributes and script links removed.
func (c *Converter) ExtractMarkup(_ context.Context, data []byte, opts domain.ConvertOptions) (*domain.Markup, error) {
	doc, err := parse(data)
	if err != nil {
		return nil, err
	}

	var warnings []string
	body := doc.Find("body")
	sanitise(body)

	if images := body.Find("img"); images.Length() > 0 && !opts.InlineImages {
		images.Remove()
		warnings = append(warnings, "images dropped: inline images are disabled")
	}

	out, err := body.Html()
	if err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return &domain.Markup{HTML: strings.TrimSpace(out), Warnings: warnings}, nil
}

func parse(data []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: parse html: %v", domain.ErrInvalidInput, err)
	}
	doc.Find(nonContent).Remove()
	return doc, nil
}

// sanitise strips attributes that could run script.
func sanitise(sel *goquery.Selection) {
	sel.Find("*").Each(func(_ int, el *goquery.Selection) {
		var unsafe []string
		for _, a := range el.Nodes[0].Attr {
			name := strings.ToLower(a.Key)
			value := strings.ToLower(strings.TrimSpace(a.Val))
			if strings.HasPrefix(name, "on") ||
				((name == "href" || name == "src") && strings.HasPrefix(value, "javascript:")) {
				unsafe = append(unsafe, a.Key)
			}
		}
		for _, key := range unsafe {
			el.RemoveAttr(key)
		}
	})
}

// Text flattens a selection to text. Block elements and <br> break lines;
// runs of spaces collapse and blank lines are dropped.
func Text(sel *goquery.Selection) string {
	var b strings.Builder
	for i := range sel.Nodes {
		writeText(&b, sel.Eq(i), false)
	}

	lines := strings.Split(b.String(), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(multiSpaces.ReplaceAllString(line, " "))
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// writeText appends the text under sel. Source newlines are kept only
// inside <pre>.
func writeText(b *strings.Builder, sel *goquery.Selection, pre bool) {
	sel.Contents().Each(func(_ int, child *goquery.Selection) {
		name := goquery.NodeName(child)
		switch {
		case name == "#text":
			text := child.Text()
			if !pre {
				text = strings.ReplaceAll(text, "\n", " ")
			}
			b.WriteString(text)
		case name == "#comment":
		case name == "br":
			b.WriteByte('\n')
		case blockElements[name]:
			b.WriteByte('\n')
			writeText(b, child, pre || name == "pre")
			b.WriteByte('\n')
		default:
			writeText(b, child, pre)
		}
	})
}
