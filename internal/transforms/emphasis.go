package transforms

import (
	"context"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// Length limits for standalone lines considered for centring.
const (
	maxEmphasisLen  = 80
	maxAllCapsLen   = 40
	maxTitleCaseLen = 60
	maxTitleWords   = 8
)

var (
	// *text* with single asterisks.
	asteriskWrapped = regexp.MustCompile(`^\*[^*\s](?:[^*]*[^*\s])?\*$`)

	// — text — with em or en dashes.
	dashWrapped = regexp.MustCompile(`^[—–]\s*\S.*?\s*[—–]$`)

	// --- text --- with repeated hyphens.
	hyphenWrapped = regexp.MustCompile(`^-{2,}\s*[^-\s].*?\s*-{2,}$`)
)

// minorWords may stay lower case inside a title-cased line.
var minorWords = map[string]bool{
	"a": true, "an": true, "and": true, "as": true, "at": true, "but": true,
	"by": true, "for": true, "from": true, "in": true, "into": true, "of": true,
	"on": true, "or": true, "the": true, "to": true, "with": true,
}

// CenterEmphasis adds class "center" to short standalone paragraphs that
// read as decorative emphasis: text wrapped in single asterisks, em
// dashes or repeated hyphens, short all-caps lines, and short title-cased
// lines without terminal punctuation.
type CenterEmphasis struct{}

// NewCenterEmphasis creates the center-emphasis transform.
func NewCenterEmphasis() *CenterEmphasis {
	return &CenterEmphasis{}
}

// Name returns the transform name.
func (t *CenterEmphasis) Name() string { return CenterEmphasisName }

// Apply marks emphasis lines as centred.
func (t *CenterEmphasis) Apply(_ context.Context, html string) (string, error) {
	return editDOM(html, func(body *goquery.Selection) bool {
		changed := false
		body.Find("p").Each(func(_ int, p *goquery.Selection) {
			if p.HasClass("center") || p.Find("br").Length() > 0 || p.Find(mediaSelector).Length() > 0 {
				return
			}
			if IsEmphasisLine(visibleText(p)) {
				addClass(p, "center")
				changed = true
			}
		})
		return changed
	})
}

// IsEmphasisLine reports whether a single line of text should be centred.
func IsEmphasisLine(line string) bool {
	n := runeLen(line)
	if n == 0 || n > maxEmphasisLen || strings.Contains(line, "\n") {
		return false
	}

	switch {
	case asteriskWrapped.MatchString(line),
		dashWrapped.MatchString(line),
		hyphenWrapped.MatchString(line):
		return true
	case n <= maxAllCapsLen && isAllCaps(line):
		return true
	case n <= maxTitleCaseLen && isTitleCase(line):
		return true
	default:
		return false
	}
}

// isAllCaps requires at least three letters and no lower-case letters.
func isAllCaps(line string) bool {
	letters := 0
	for _, r := range line {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return letters >= 3
}

// isTitleCase requires two to maxTitleWords words, each capitalised
// unless it is a minor word after the first, and no terminal punctuation.
func isTitleCase(line string) bool {
	if last, _ := utf8.DecodeLastRuneInString(line); strings.ContainsRune(".!?:;,", last) {
		return false
	}

	words := strings.Fields(line)
	if len(words) < 2 || len(words) > maxTitleWords {
		return false
	}

	for i, word := range words {
		first := []rune(word)[0]
		if !unicode.IsLetter(first) {
			if unicode.IsDigit(first) || first == '&' {
				continue
			}
			return false
		}
		if unicode.IsUpper(first) {
			continue
		}
		if i > 0 && minorWords[strings.ToLower(word)] {
			continue
		}
		return false
	}
	return true
}
