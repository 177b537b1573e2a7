package services

import (
	"path"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/araddon/dateparse"

	"github.com/zmcado0/femme-futures-coop/internal/core/domain"
)

const ellipsis = "..."

var (
	// enumerationPrefix matches "12. " at the start of a line.
	enumerationPrefix = regexp.MustCompile(`^\d+\.\s+`)

	// leadingNonWord matches bullets, dashes, quotes and other leading symbols.
	leadingNonWord = regexp.MustCompile(`^[^\p{L}\p{N}_]+`)

	// longFormDate matches "August 22, 2024", "Aug 22 2024" and "Sept. 3rd, 2024".
	longFormDate = regexp.MustCompile(`(?i)\b(January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|Jun|Jul|Aug|Sept|Sep|Oct|Nov|Dec)\.?\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})\b`)

	// isoDate matches YYYY-MM-DD.
	isoDate = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`)

	whitespaceRun = regexp.MustCompile(`\s+`)
)

// DeriveTitle returns the first body line whose trimmed length falls within
// the active title bounds, cleaned of enumeration prefixes and leading
// symbols. With bounded set the title is cut to h.TitleLimit runes.
// When no line qualifies the title is derived from identifier.
func DeriveTitle(text, identifier string, h domain.HeuristicSettings, bounded bool) string {
	minLen, maxLen := h.TitleBounds()

	for _, line := range splitLines(text) {
		trimmed := strings.TrimSpace(line)
		n := utf8.RuneCountInString(trimmed)
		if n < minLen || n >= maxLen {
			continue
		}

		title := cleanTitle(trimmed)
		if title == "" {
			continue
		}
		if bounded && h.TitleLimit > 0 {
			title = cutRunes(title, h.TitleLimit)
		}
		return title
	}

	return TitleFromIdentifier(identifier)
}

// TitleFromIdentifier turns "2024-08-22_spring-update.docx" into
// "2024 08 22 Spring Update".
func TitleFromIdentifier(identifier string) string {
	name := stripExtension(path.Base(strings.ReplaceAll(identifier, "\\", "/")))
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	words := strings.Fields(name)
	if len(words) == 0 {
		return domain.DefaultTitleFallback
	}
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// DeriveExcerpt returns a preview of at most h.ExcerptLimit runes.
// It prefers the first line within the excerpt bounds, then lines two to
// four joined, then the start of the whole text, then h.ExcerptFallback.
func DeriveExcerpt(text string, h domain.HeuristicSettings) string {
	lines := splitLines(text)

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		n := utf8.RuneCountInString(trimmed)
		if n >= h.ExcerptMinLen && n < h.ExcerptMaxLen {
			return truncate(trimmed, h.ExcerptLimit)
		}
	}

	var nonBlank []string
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			nonBlank = append(nonBlank, trimmed)
		}
	}
	if len(nonBlank) > 1 {
		end := min(len(nonBlank), 4)
		if joined := strings.Join(nonBlank[1:end], " "); joined != "" {
			return truncate(joined, h.ExcerptLimit)
		}
	}

	if all := strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " ")); all != "" {
		return truncate(all, h.ExcerptLimit)
	}

	if h.ExcerptFallback != "" {
		return h.ExcerptFallback
	}
	return domain.DefaultExcerptFallback
}

// DeriveDate finds a document date. Body text is searched for a long-form
// date first, then the identifier for an ISO date. Matches that do not parse
// are skipped. When nothing parses, fallback is returned with DateDefault.
func DeriveDate(text, identifier string, fallback time.Time) (time.Time, domain.DateSource) {
	for _, m := range longFormDate.FindAllStringSubmatch(text, -1) {
		if t, ok := parseLongFormDate(m[1], m[2], m[3]); ok {
			return t, domain.DateFromBody
		}
	}

	for _, m := range isoDate.FindAllString(identifier, -1) {
		if t, err := time.ParseInLocation("2006-01-02", m, time.UTC); err == nil {
			return t, domain.DateFromIdentifier
		}
	}

	return fallback, domain.DateDefault
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func parseLongFormDate(month, day, year string) (time.Time, bool) {
	if strings.EqualFold(month, "sept") {
		month = "Sep"
	}
	t, err := dateparse.ParseIn(month+" "+day+", "+year, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	// Reject days the month does not have.
	if t.Format("2") != strings.TrimLeft(day, "0") {
		return time.Time{}, false
	}
	return Day(t), true
}

func cleanTitle(line string) string {
	line = enumerationPrefix.ReplaceAllString(line, "")
	line = leadingNonWord.ReplaceAllString(line, "")
	return strings.TrimSpace(line)
}

// truncate cuts s to at most limit runes, ending in an ellipsis when cut.
func truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	if limit <= len(ellipsis) {
		return cutRunes(s, limit)
	}
	return strings.TrimRightFunc(cutRunes(s, limit-len(ellipsis)), unicode.IsSpace) + ellipsis
}

func cutRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimRightFunc(string(r[:n]), unicode.IsSpace)
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

func stripExtension(name string) string {
	return strings.TrimSuffix(name, path.Ext(name))
}
