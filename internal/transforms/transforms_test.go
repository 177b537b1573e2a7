package transforms

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zmcado0/femme-futures-coop/internal/core/ports/driven"
)

type fixture struct {
	name string
	in   string
	out  string
}

func runFixtures(t *testing.T, tr driven.MarkupTransform, fixtures []fixture) {
	t.Helper()
	for _, f := range fixtures {
		t.Run(f.name, func(t *testing.T) {
			got, err := tr.Apply(context.Background(), f.in)
			require.NoError(t, err)
			assert.Equal(t, f.out, got)
		})
	}
}

func TestBlankLines(t *testing.T) {
	runFixtures(t, NewBlankLines(), []fixture{
		{
			name: "three blank lines collapse",
			in:   "<p>a</p>\n\n\n\n<p>b</p>",
			out:  "<p>a</p>\n\n<p>b</p>",
		},
		{
			name: "whitespace-only lines count as blank",
			in:   "<p>a</p>\n  \n\t\n \n\n<p>b</p>",
			out:  "<p>a</p>\n\n<p>b</p>",
		},
		{
			name: "preformatted blank lines kept",
			in:   "<p>a</p>\n\n\n\n<pre><code>one\n\n\n\n\ntwo\n</code></pre>",
			out:  "<p>a</p>\n\n<pre><code>one\n\n\n\n\ntwo\n</code></pre>",
		},
		{
			name: "textarea breaks kept",
			in:   "<textarea>x<br><br><br>y</textarea>",
			out:  "<textarea>x<br><br><br>y</textarea>",
		},
		{
			name: "two blank lines kept",
			in:   "<p>a</p>\n\n\n<p>b</p>",
			out:  "<p>a</p>\n\n\n<p>b</p>",
		},
		{
			name: "break runs collapse",
			in:   "<p>a<br><br/><br /><BR>b</p>",
			out:  "<p>a<br /><br />b</p>",
		},
		{
			name: "two breaks kept",
			in:   "<p>a<br /><br />b</p>",
			out:  "<p>a<br /><br />b</p>",
		},
	})
}

func TestBlockSpacing(t *testing.T) {
	runFixtures(t, NewBlockSpacing(), []fixture{
		{
			name: "gaps and padding normalised",
			in:   "<h1> Title </h1>   <p>\n  Body text  </p><p>Next</p>",
			out:  "<h1>Title</h1>\n<p>Body text</p>\n<p>Next</p>",
		},
		{
			name: "attributes preserved",
			in:   `<p class="center">  Hi </p>` + "\n\n" + `<blockquote>q</blockquote>`,
			out:  `<p class="center">Hi</p>` + "\n" + `<blockquote>q</blockquote>`,
		},
		{
			name: "code block spacing untouched",
			in:   "<p>Code:</p>   <pre><code>  a\n\n\n\n  b  </code></pre>",
			out:  "<p>Code:</p>\n<pre><code>  a\n\n\n\n  b  </code></pre>",
		},
		{
			name: "preformatted text untouched",
			in:   "<pre>  code  </pre>",
			out:  "<pre>  code  </pre>",
		},
		{
			name: "inline spacing untouched",
			in:   "<p>one <em>two</em> three</p>",
			out:  "<p>one <em>two</em> three</p>",
		},
		{
			name: "fragment trimmed",
			in:   "\n\n<p>x</p>\n",
			out:  "<p>x</p>",
		},
	})
}

func TestEmptyParagraphs(t *testing.T) {
	runFixtures(t, NewEmptyParagraphs(), []fixture{
		{
			name: "empty paragraphs removed",
			in:   `<p>Keep</p><p></p><p> &nbsp; </p><p><br/></p><p><img src="a.png"/></p>`,
			out:  `<p>Keep</p><p><img src="a.png"/></p>`,
		},
		{
			name: "no change returns input unchanged",
			in:   "<p>One</p>\n<p>Two &amp; three</p>",
			out:  "<p>One</p>\n<p>Two &amp; three</p>",
		},
		{
			name: "empty headings are not paragraphs",
			in:   "<h2></h2><p>x</p>",
			out:  "<h2></h2><p>x</p>",
		},
	})
}

func TestIsEmphasisLine(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"*Save the date*", true},
		{"**bold**", false},
		{"* loose *", false},
		{"— Thank you —", true},
		{"– in brief –", true},
		{"--- Fin ---", true},
		{"-- see you soon --", true},
		{"NEWS FROM THE GARDEN", true},
		{"OK", false},
		{"THIS LINE IS FAR TOO LONG TO BE A SHORT ALL CAPS LINE", false},
		{"Spring Potluck Friday", true},
		{"Notes from the Board", true},
		{"2025 Annual Report", true},
		{"Hello world", false},
		{"Meeting Notes:", false},
		{"This is a sentence.", false},
		{"Welcome", false},
		{"", false},
		{strings.Repeat("*", 1) + strings.Repeat("a", 90) + "*", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, IsEmphasisLine(tt.line))
		})
	}
}

func TestCenterEmphasis(t *testing.T) {
	runFixtures(t, NewCenterEmphasis(), []fixture{
		{
			name: "emphasis lines centred",
			in: `<p>Intro paragraph that is long enough to be a sentence.</p>` +
				`<p>*Save the date*</p><p class="x">NEWS</p>`,
			out: `<p>Intro paragraph that is long enough to be a sentence.</p>` +
				`<p class="center">*Save the date*</p><p class="x center">NEWS</p>`,
		},
		{
			name: "multi-line paragraphs skipped",
			in:   "<p>ALL<br/>CAPS</p>",
			out:  "<p>ALL<br/>CAPS</p>",
		},
		{
			name: "class list kept tidy",
			in:   `<p class=" lead  x ">NEWS</p>`,
			out:  `<p class="lead x center">NEWS</p>`,
		},
		{
			name: "already centred",
			in:   `<p class="center">NEWS</p>`,
			out:  `<p class="center">NEWS</p>`,
		},
		{
			name: "headings ignored",
			in:   "<h2>NEWS</h2>",
			out:  "<h2>NEWS</h2>",
		},
	})
}

func TestCenterImages(t *testing.T) {
	runFixtures(t, NewCenterImages(), []fixture{
		{
			name: "image paragraph becomes wrapper",
			in:   `<p><img src="a.png"/></p>`,
			out:  `<div class="image-block center"><img src="a.png"/></div>`,
		},
		{
			name: "linked image paragraph",
			in:   `<p><a href="https://x.org"><img src="e.png"/></a></p>`,
			out:  `<div class="image-block center"><a href="https://x.org"><img src="e.png"/></a></div>`,
		},
		{
			name: "image in flow container wrapped",
			in:   `<div><p>Text</p><img src="b.png"/></div>`,
			out:  `<div><p>Text</p><div class="image-block center"><img src="b.png"/></div></div>`,
		},
		{
			name: "top-level image wrapped",
			in:   `<img src="f.png"/>`,
			out:  `<div class="image-block center"><img src="f.png"/></div>`,
		},
		{
			name: "inline image left alone",
			in:   `<p>See <img src="c.png"/> here</p>`,
			out:  `<p>See <img src="c.png"/> here</p>`,
		},
		{
			name: "inline image in list item left alone",
			in:   `<ul><li>See <img src="a.png"/> here</li></ul>`,
			out:  `<ul><li>See <img src="a.png"/> here</li></ul>`,
		},
		{
			name: "image beside emphasis in cell left alone",
			in:   `<table><tbody><tr><td><em>Map</em><img src="m.png"/></td></tr></tbody></table>`,
			out:  `<table><tbody><tr><td><em>Map</em><img src="m.png"/></td></tr></tbody></table>`,
		},
		{
			name: "lone image in list item wrapped",
			in:   `<ul><li><img src="g.png"/></li></ul>`,
			out:  `<ul><li><div class="image-block center"><img src="g.png"/></div></li></ul>`,
		},
		{
			name: "figure left alone",
			in:   `<figure><img src="d.png"/></figure>`,
			out:  `<figure><img src="d.png"/></figure>`,
		},
	})
}

func TestTightClusters(t *testing.T) {
	runFixtures(t, NewTightClusters(), []fixture{
		{
			name: "signature block",
			in: "<p>Thanks for reading our newsletter this month.</p>\n<p>Warmly,</p>\n" +
				"<p>The Garden Committee</p>\n<p>Email: garden@example.org</p>\n" +
				"<p>A closing paragraph that ends the letter.</p>",
			out: "<p>Thanks for reading our newsletter this month.</p>\n<p class=\"tight\">Warmly,</p>\n" +
				"<p class=\"tight\">The Garden Committee</p>\n<p class=\"tight\">Email: garden@example.org</p>\n" +
				"<p>A closing paragraph that ends the letter.</p>",
		},
		{
			name: "address block",
			in:   "<p>Femme Futures Co-op</p><p>12 Garden Row</p><p>Springfield, IL 62701</p>",
			out: `<p class="tight">Femme Futures Co-op</p><p class="tight">12 Garden Row</p>` +
				`<p class="tight">Springfield, IL 62701</p>`,
		},
		{
			name: "short lines without a pattern",
			in:   "<p>Spring Fair</p><p>Summer Picnic</p>",
			out:  "<p>Spring Fair</p><p>Summer Picnic</p>",
		},
		{
			name: "single line is not a cluster",
			in:   "<p>Phone: 555-123-4567</p><p>Long sentence here that ends properly.</p>",
			out:  "<p>Phone: 555-123-4567</p><p>Long sentence here that ends properly.</p>",
		},
		{
			name: "heading breaks the run",
			in:   "<p>Hours: 9-5</p><h2>Events</h2><p>Where: Hall</p>",
			out:  "<p>Hours: 9-5</p><h2>Events</h2><p>Where: Hall</p>",
		},
	})
}

func TestDefaultPipeline_PreservesText(t *testing.T) {
	in := strings.Join([]string{
		`<h1 class="title">Spring Issue</h1>`,
		`<p>Welcome back to the cooperative newsletter, friends.</p>`,
		"", "", "", "",
		`<p></p>`,
		`<p>*Save the date*</p>`,
		`<p><img src="data:image/png;base64,AAAA" alt="garden" /></p>`,
		`<p>Warmly,</p>`,
		`<p>The Garden Committee</p>`,
		`<p>Phone: 555 123 4567</p>`,
		"<pre><code>line one\n\n\n\n\nline two\n</code></pre>",
	}, "\n")

	p, err := NewDefaultRegistry().BuildPipeline(nil)
	require.NoError(t, err)

	out, err := p.Process(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, textOf(t, in), textOf(t, out))
	assert.Contains(t, out, `<p class="center">*Save the date*</p>`)
	assert.Contains(t, out, `<div class="image-block center"><img src="data:image/png;base64,AAAA" alt="garden"/></div>`)
	assert.Contains(t, out, `<p class="tight">Warmly,</p>`)
	assert.NotContains(t, out, "<p></p>")
	assert.NotContains(t, out, "</p>\n\n\n")
	assert.Contains(t, out, "<pre><code>line one\n\n\n\n\nline two\n</code></pre>")
	assert.Equal(t, preText(t, in), preText(t, out))

	again, err := p.Process(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

// preText returns the exact text of every preformatted block.
func preText(t *testing.T, html string) []string {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc.Find("pre").Map(func(_ int, s *goquery.Selection) string { return s.Text() })
}

// textOf returns the words of a fragment, ignoring markup and spacing.
func textOf(t *testing.T, html string) string {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return strings.Join(strings.Fields(doc.Text()), " ")
}
