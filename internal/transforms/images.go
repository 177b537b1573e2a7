package transforms

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// imageBlock is the wrapper added around bare images.
const imageBlock = `<div class="image-block center"></div>`

// flowContainers may hold block content, so an image directly inside one
// can be wrapped without breaking a paragraph.
var flowContainers = map[string]bool{
	"body": true, "div": true, "blockquote": true, "li": true, "td": true, "th": true,
	"section": true, "article": true, "header": true, "footer": true, "main": true, "aside": true,
}

// CenterImages wraps bare images in <div class="image-block center">.
// A paragraph holding only images becomes the wrapper itself. Images
// already alone in a div or figure, and images inline with text, are
// left alone.
type CenterImages struct{}

// NewCenterImages creates the center-images transform.
func NewCenterImages() *CenterImages {
	return &CenterImages{}
}

// Name returns the transform name.
func (t *CenterImages) Name() string { return CenterImagesName }

// Apply wraps bare images.
func (t *CenterImages) Apply(_ context.Context, html string) (string, error) {
	return editDOM(html, func(body *goquery.Selection) bool {
		changed := false

		body.Find("p").Each(func(_ int, p *goquery.Selection) {
			if !imageOnly(p) {
				return
			}
			inner, err := p.Html()
			if err != nil {
				return
			}
			p.ReplaceWithHtml(`<div class="image-block center">` + inner + `</div>`)
			changed = true
		})

		body.Find("img").Each(func(_ int, img *goquery.Selection) {
			unit := img
			if a := img.Parent(); goquery.NodeName(a) == "a" && imageOnly(a) && a.Find("img").Length() == 1 {
				unit = a
			}

			parent := unit.Parent()
			name := goquery.NodeName(parent)
			if (name == "div" || name == "figure" || name == "picture") && imageOnly(parent) {
				return
			}
			if !flowContainers[name] || inlineWithText(unit) {
				return
			}
			unit.WrapHtml(imageBlock)
			changed = true
		})

		return changed
	})
}

// blockElements start a new line of their own, so text inside them does
// not share a line with a sibling image.
var blockElements = map[string]bool{
	"p": true, "div": true, "blockquote": true, "ul": true, "ol": true, "li": true,
	"table": true, "figure": true, "pre": true, "hr": true, "section": true, "article": true,
	"header": true, "footer": true, "aside": true, "main": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// inlineWithText reports whether unit shares its line with text: a
// non-blank text node or an inline element holding text among its siblings.
func inlineWithText(unit *goquery.Selection) bool {
	node := unit.Get(0)
	inline := false
	unit.Parent().Contents().EachWithBreak(func(_ int, sib *goquery.Selection) bool {
		if sib.Get(0) == node {
			return true
		}
		switch name := goquery.NodeName(sib); {
		case name == "#text":
			inline = strings.TrimSpace(strings.ReplaceAll(sib.Text(), "\u00a0", " ")) != ""
		case !blockElements[name]:
			inline = visibleText(sib) != ""
		}
		return !inline
	})
	return inline
}

// imageOnly reports whether sel holds images and nothing else but
// whitespace, allowing images wrapped in links.
func imageOnly(sel *goquery.Selection) bool {
	if visibleText(sel) != "" || sel.Find("img").Length() == 0 {
		return false
	}
	only := true
	sel.Children().EachWithBreak(func(_ int, child *goquery.Selection) bool {
		switch goquery.NodeName(child) {
		case "img", "br":
		case "a":
			only = imageOnly(child)
		default:
			only = false
		}
		return only
	})
	return only
}
