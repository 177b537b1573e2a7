package transforms

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// editDOM parses the fragment, lets edit modify the body and renders it
// again. When edit reports no change the input is returned untouched so
// that a no-op transform never reformats markup.
func editDOM(html string, edit func(body *goquery.Selection) bool) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse markup: %w", err)
	}

	body := doc.Find("body")
	if !edit(body) {
		return html, nil
	}

	out, err := body.Html()
	if err != nil {
		return "", fmt.Errorf("render markup: %w", err)
	}
	return out, nil
}

// visibleText returns the trimmed text of sel with non-breaking spaces
// treated as spaces.
func visibleText(sel *goquery.Selection) string {
	return strings.TrimSpace(strings.ReplaceAll(sel.Text(), "\u00a0", " "))
}

// addClass appends class to sel's class list, rewriting the attribute with
// single spaces between names.
func addClass(sel *goquery.Selection, class string) {
	classes := strings.Fields(sel.AttrOr("class", ""))
	for _, c := range classes {
		if c == class {
			return
		}
	}
	sel.SetAttr("class", strings.Join(append(classes, class), " "))
}

// runeLen counts characters rather than bytes.
func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// mediaSelector matches elements that count as content without text.
const mediaSelector = "img, svg, video, audio, iframe, object, embed, picture"
