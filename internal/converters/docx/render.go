package docx

import (
	"encoding/base64"
	"fmt"
	"html"
	"mime"
	"path"
	"slices"
	"sort"
	"strings"

	"github.com/zmcado0/femme-futures-coop/internal/core/domain"
)

// blockTags are the elements a style map may target.
var blockTags = map[string]bool{
	"p": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "pre": true, "div": true,
}

// renderer builds the HTML fragment for one document.
type renderer struct {
	doc      *archive
	opts     domain.ConvertOptions
	styles   map[string]string // lower-cased style name -> target
	warnings []string
	warned   map[string]bool
}

func newRenderer(doc *archive, opts domain.ConvertOptions) *renderer {
	names := make([]string, 0, len(opts.StyleMap))
	for name := range opts.StyleMap {
		names = append(names, name)
	}
	sort.Strings(names)

	styles := make(map[string]string, len(names))
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, exists := styles[key]; !exists {
			styles[key] = opts.StyleMap[name]
		}
	}

	return &renderer{doc: doc, opts: opts, styles: styles, warned: make(map[string]bool)}
}

func (r *renderer) warn(key, format string, args ...any) {
	if r.warned[key] {
		return
	}
	r.warned[key] = true
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

// render emits one block element per paragraph, newline separated.
func (r *renderer) render() string {
	var out strings.Builder
	for i := range r.doc.paragraphs {
		if i > 0 {
			out.WriteByte('\n')
		}
		r.renderParagraph(&out, &r.doc.paragraphs[i])
	}
	return out.String()
}

func (r *renderer) renderParagraph(out *strings.Builder, p *paragraph) {
	tag, classes := r.element(p)
	if p.center && !slices.Contains(classes, "center") {
		classes = append(classes, "center")
	}

	out.WriteString("<" + tag)
	if len(classes) > 0 {
		out.WriteString(` class="` + html.EscapeString(strings.Join(classes, " ")) + `"`)
	}
	out.WriteByte('>')
	for _, s := range mergeSegments(p.segments) {
		if s.image != "" {
			r.writeImage(out, s)
			continue
		}
		r.writeText(out, s)
	}
	out.WriteString("</" + tag + ">")
}

// element resolves the paragraph style to a tag and classes.
func (r *renderer) element(p *paragraph) (string, []string) {
	name := "Normal"
	if p.styleID != "" {
		name = p.styleID
		if display, ok := r.doc.styleNames[p.styleID]; ok {
			name = display
		}
	}

	target, ok := r.styles[strings.ToLower(name)]
	if !ok {
		if !strings.EqualFold(name, "Normal") {
			r.warn("style:"+name, "unrecognised paragraph style %q rendered as p", name)
		}
		return "p", nil
	}

	tag, classes := parseTarget(target)
	if !blockTags[tag] {
		r.warn("target:"+target, "style %q maps to unsupported element %q; rendered as p", name, target)
		return "p", classes
	}
	return tag, classes
}

// parseTarget splits "h1.title.wide" into "h1" and ["title", "wide"].
func parseTarget(target string) (string, []string) {
	parts := strings.Split(strings.TrimSpace(target), ".")
	tag := strings.ToLower(parts[0])
	var classes []string
	for _, c := range parts[1:] {
		if c = strings.TrimSpace(c); c != "" {
			classes = append(classes, c)
		}
	}
	return tag, classes
}

func (r *renderer) writeText(out *strings.Builder, s segment) {
	text := strings.ReplaceAll(html.EscapeString(s.text), "\n", "<br />")
	if s.italic {
		text = "<em>" + text + "</em>"
	}
	if s.bold {
		text = "<strong>" + text + "</strong>"
	}
	if href := r.href(s.link); href != "" {
		text = `<a href="` + html.EscapeString(href) + `">` + text + "</a>"
	}
	out.WriteString(text)
}

// href returns the external target of a hyperlink relationship.
func (r *renderer) href(id string) string {
	if id == "" {
		return ""
	}
	rel, ok := r.doc.rels[id]
	if !ok {
		return ""
	}
	target := strings.TrimSpace(rel.Target)
	lower := strings.ToLower(target)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "mailto:") {
		return target
	}
	return ""
}

// writeImage embeds the picture as a data URI, or drops it with a warning.
func (r *renderer) writeImage(out *strings.Builder, s segment) {
	if !r.opts.InlineImages {
		r.warn("noinline", "images dropped: inline images are disabled")
		return
	}

	rel, ok := r.doc.rels[s.image]
	if !ok {
		r.warn("rel:"+s.image, "image %s dropped: relationship not found", s.image)
		return
	}
	if strings.EqualFold(rel.TargetMode, "External") {
		r.warn("ext:"+rel.Target, "linked image %s dropped", rel.Target)
		return
	}

	name := resolvePart(rel.Target)
	data, err := readPart(r.doc.zip, name)
	if err != nil || data == nil {
		r.warn("missing:"+name, "image %s dropped: not found in archive", name)
		return
	}

	contentType := mime.TypeByExtension(path.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	fmt.Fprintf(out, `<img src="data:%s;base64,%s" alt="%s" />`,
		contentType, base64.StdEncoding.EncodeToString(data), html.EscapeString(s.alt))
}

// resolvePart turns a relationship target into an archive member name.
func resolvePart(target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Clean(path.Join("word", target))
}

// mergeSegments joins adjacent text segments with identical formatting.
func mergeSegments(in []segment) []segment {
	out := make([]segment, 0, len(in))
	for _, s := range in {
		if n := len(out); n > 0 && s.image == "" && out[n-1].image == "" &&
			out[n-1].bold == s.bold && out[n-1].italic == s.italic && out[n-1].link == s.link {
			out[n-1].text += s.text
			continue
		}
		out = append(out, s)
	}
	return out
}
