package transforms

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	maxClusterLineLen = 60
	minClusterSize    = 2
)

var (
	// Label: value
	labelValue = regexp.MustCompile(`^[\p{L}][\p{L}\p{N} .'&/-]{0,30}:\s+\S`)

	emailLike = regexp.MustCompile(`\S+@\S+\.\S+`)
	phoneLike = regexp.MustCompile(`\+?\d[\d\s().-]{6,}\d`)

	// "12 Garden Row", "PO Box 9", "Springfield, IL 62701"
	streetLike = regexp.MustCompile(`(?i)^\d+[a-z]?\s+\p{L}|^p\.?\s?o\.?\s+box\b|,\s*[A-Z]{2}\s+\d{5}(?:-\d{4})?$`)

	// Closing lines of a letter.
	closingLine = regexp.MustCompile(
		`(?i)^(?:sincerely|best|best wishes|warmly|warm regards|cheers|regards|kind regards|` +
			`with love|love|thanks|thank you|in solidarity|yours|yours truly)[,!]?$`)
)

// TightClusters adds class "tight" to runs of consecutive short
// paragraphs that read as an address block, a signature or label: value
// lines. A run needs at least two paragraphs and at least one of them
// must match one of those patterns.
type TightClusters struct{}

// NewTightClusters creates the tight-clusters transform.
func NewTightClusters() *TightClusters {
	return &TightClusters{}
}

// Name returns the transform name.
func (t *TightClusters) Name() string { return TightClustersName }

// Apply marks clustered paragraphs.
func (t *TightClusters) Apply(_ context.Context, html string) (string, error) {
	return editDOM(html, func(body *goquery.Selection) bool {
		changed := false

		parents := body.Find("p").Parent()
		parents.Each(func(_ int, parent *goquery.Selection) {
			var run []*goquery.Selection
			flush := func() {
				if markCluster(run) {
					changed = true
				}
				run = run[:0]
			}

			parent.Children().Each(func(_ int, child *goquery.Selection) {
				if goquery.NodeName(child) == "p" && clusterCandidate(child) {
					run = append(run, child)
					return
				}
				flush()
			})
			flush()
		})

		return changed
	})
}

func markCluster(run []*goquery.Selection) bool {
	if len(run) < minClusterSize {
		return false
	}

	anchored := false
	for _, p := range run {
		if isClusterLine(visibleText(p)) {
			anchored = true
			break
		}
	}
	if !anchored {
		return false
	}

	changed := false
	for _, p := range run {
		if !p.HasClass("tight") {
			addClass(p, "tight")
			changed = true
		}
	}
	return changed
}

// clusterCandidate accepts short single-line paragraphs that do not end
// a sentence, plus any short line matching a cluster pattern.
func clusterCandidate(p *goquery.Selection) bool {
	if p.Find(mediaSelector).Length() > 0 {
		return false
	}
	text := visibleText(p)
	n := runeLen(text)
	if n == 0 || n > maxClusterLineLen || strings.Contains(text, "\n") {
		return false
	}
	if isClusterLine(text) {
		return true
	}
	return !strings.ContainsAny(text[len(text)-1:], ".!?")
}

// isClusterLine reports whether a line matches an address, signature or
// label: value pattern.
func isClusterLine(line string) bool {
	return labelValue.MatchString(line) ||
		emailLike.MatchString(line) ||
		phoneLike.MatchString(line) ||
		streetLike.MatchString(line) ||
		closingLine.MatchString(line)
}
