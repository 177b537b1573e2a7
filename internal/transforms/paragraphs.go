package transforms

import (
	"context"

	"github.com/PuerkitoBio/goquery"
)

// EmptyParagraphs removes <p> elements that hold neither text nor media.
type EmptyParagraphs struct{}

// NewEmptyParagraphs creates the empty-paragraphs transform.
func NewEmptyParagraphs() *EmptyParagraphs {
	return &EmptyParagraphs{}
}

// Name returns the transform name.
func (t *EmptyParagraphs) Name() string { return EmptyParagraphsName }

// Apply strips empty paragraphs.
func (t *EmptyParagraphs) Apply(_ context.Context, html string) (string, error) {
	return editDOM(html, func(body *goquery.Selection) bool {
		empty := body.Find("p").FilterFunction(func(_ int, p *goquery.Selection) bool {
			return visibleText(p) == "" && p.Find(mediaSelector).Length() == 0
		})
		if empty.Length() == 0 {
			return false
		}
		empty.Remove()
		return true
	})
}
