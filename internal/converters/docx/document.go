package docx

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

// segment is a run of uniformly formatted text, or an image.
type segment struct {
	text   string
	bold   bool
	italic bool
	link   string // relationship ID of an enclosing hyperlink
	image  string // relationship ID of an embedded picture
	alt    string
}

// paragraph is one w:p element.
type paragraph struct {
	styleID  string
	center   bool
	segments []segment
}

func (p *paragraph) text() string {
	var b strings.Builder
	for _, s := range p.segments {
		b.WriteString(s.text)
	}
	return b.String()
}

// runState tracks formatting while walking a w:r element.
type runState struct {
	inRun   bool
	inProps bool
	inText  bool
	bold    bool
	italic  bool
}

// parseDocument walks word/document.xml and collects paragraphs in
// document order. Paragraphs nested in text boxes are emitted after the
// paragraph that contains them.
//
//nolint:gocyclo // Token switch over the WordprocessingML elements we use.
func parseDocument(content []byte) ([]paragraph, error) {
	dec := xml.NewDecoder(bytes.NewReader(content))

	var (
		out   []paragraph
		stack []*paragraph
		run   runState
		link  string
		alt   string
	)
	top := func() *paragraph {
		if len(stack) == 0 {
			return nil
		}
		return stack[len(stack)-1]
	}
	add := func(s segment) {
		if p := top(); p != nil {
			p.segments = append(p.segments, s)
		}
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				stack = append(stack, &paragraph{})
			case "pStyle":
				if p := top(); p != nil {
					p.styleID = attr(t, "val")
				}
			case "jc":
				if p := top(); p != nil {
					p.center = attr(t, "val") == "center"
				}
			case "hyperlink":
				link = attr(t, "id")
			case "r":
				run = runState{inRun: true}
			case "rPr":
				run.inProps = run.inRun
			case "b":
				if run.inProps {
					run.bold = toggleOn(t)
				}
			case "i":
				if run.inProps {
					run.italic = toggleOn(t)
				}
			case "t":
				run.inText = run.inRun
			case "tab":
				if run.inRun {
					add(segment{text: "\t"})
				}
			case "br", "cr":
				if run.inRun {
					add(segment{text: "\n"})
				}
			case "docPr":
				alt = attr(t, "descr")
			case "blip":
				add(segment{image: attr(t, "embed"), alt: alt})
			case "imagedata":
				add(segment{image: attr(t, "id"), alt: attr(t, "title")})
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if p := top(); p != nil {
					stack = stack[:len(stack)-1]
					out = append(out, *p)
				}
			case "hyperlink":
				link = ""
			case "r":
				run = runState{}
			case "rPr":
				run.inProps = false
			case "t":
				run.inText = false
			case "drawing", "pict":
				alt = ""
			}

		case xml.CharData:
			if run.inText {
				add(segment{text: string(t), bold: run.bold, italic: run.italic, link: link})
			}
		}
	}

	return out, nil
}

func attr(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// toggleOn reports whether an on/off property such as w:b is enabled.
func toggleOn(el xml.StartElement) bool {
	switch strings.ToLower(attr(el, "val")) {
	case "0", "false", "off", "none":
		return false
	default:
		return true
	}
}

// renderText joins paragraph text with newlines.
func renderText(paragraphs []paragraph) string {
	lines := make([]string, len(paragraphs))
	for i := range paragraphs {
		lines[i] = paragraphs[i].text()
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
