package transforms

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

var (
	// Three or more blank lines.
	blankLineRun = regexp.MustCompile(`\n(?:[ \t\r]*\n){3,}`)

	// Three or more consecutive line breaks.
	breakRun = regexp.MustCompile(`(?i)(?:<br\s*/?>\s*){3,}`)

	// Whitespace between the end of one block and the start of the next.
	blockGap = regexp.MustCompile(
		`(?i)(</(?:p|h[1-6]|blockquote|div|ul|ol|pre|table|figure)>)\s*(<(?:p|h[1-6]|blockquote|div|ul|ol|pre|table|figure)[\s>])`)

	// Whitespace just inside paragraph and heading tags.
	openPadding  = regexp.MustCompile(`(?i)(<(?:p|h[1-6])(?:\s[^>]*)?>)[ \t\r\n]+`)
	closePadding = regexp.MustCompile(`(?i)[ \t\r\n]+(</(?:p|h[1-6])>)`)

	// Elements whose whitespace is content.
	preformatted = regexp.MustCompile(`(?is)<pre\b.*?</pre\s*>|<textarea\b.*?</textarea\s*>`)
)

// outsidePreformatted applies edit to html with every <pre> and <textarea>
// element replaced by an empty stand-in of the same tag, then puts the
// original elements back.
func outsidePreformatted(html string, edit func(string) string) string {
	var kept []string
	var stands []string
	masked := preformatted.ReplaceAllStringFunc(html, func(m string) string {
		tag := "pre"
		if strings.HasPrefix(strings.ToLower(m), "<textarea") {
			tag = "textarea"
		}
		stand := fmt.Sprintf("<%s>\x00%d\x00</%s>", tag, len(kept), tag)
		kept = append(kept, m)
		stands = append(stands, stand)
		return stand
	})
	if len(kept) == 0 {
		return edit(html)
	}

	out := edit(masked)
	for i, stand := range stands {
		out = strings.Replace(out, stand, kept[i], 1)
	}
	return out
}

// BlankLines collapses runs of three or more blank lines, or three or
// more consecutive <br> tags, to a single blank line.
type BlankLines struct{}

// NewBlankLines creates the blank-lines transform.
func NewBlankLines() *BlankLines {
	return &BlankLines{}
}

// Name returns the transform name.
func (t *BlankLines) Name() string { return BlankLinesName }

// Apply collapses blank line runs.
func (t *BlankLines) Apply(_ context.Context, html string) (string, error) {
	return outsidePreformatted(html, func(s string) string {
		s = blankLineRun.ReplaceAllString(s, "\n\n")
		return breakRun.ReplaceAllString(s, "<br /><br />")
	}), nil
}

// BlockSpacing puts exactly one newline between adjacent block elements
// and trims whitespace just inside paragraphs and headings.
type BlockSpacing struct{}

// NewBlockSpacing creates the block-spacing transform.
func NewBlockSpacing() *BlockSpacing {
	return &BlockSpacing{}
}

// Name returns the transform name.
func (t *BlockSpacing) Name() string { return BlockSpacingName }

// Apply normalises spacing at block boundaries.
func (t *BlockSpacing) Apply(_ context.Context, html string) (string, error) {
	html = outsidePreformatted(html, func(s string) string {
		s = blockGap.ReplaceAllString(s, "$1\n$2")
		s = openPadding.ReplaceAllString(s, "$1")
		return closePadding.ReplaceAllString(s, "$1")
	})
	return strings.TrimSpace(html), nil
}
