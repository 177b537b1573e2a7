// Package detail provides the single-newsletter reading view.
package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zmcado0/femme-futures-coop/internal/adapters/driving/tui/components/list"
	"github.com/zmcado0/femme-futures-coop/internal/adapters/driving/tui/components/status"
	"github.com/zmcado0/femme-futures-coop/internal/adapters/driving/tui/keymap"
	"github.com/zmcado0/femme-futures-coop/internal/adapters/driving/tui/messages"
	"github.com/zmcado0/femme-futures-coop/internal/adapters/driving/tui/styles"
	"github.com/zmcado0/femme-futures-coop/internal/core/domain"
)

// headerLines is the height of the title block above the viewport.
const headerLines = 3

// View shows one newsletter in a scrollable viewport.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	viewport  viewport.Model
	statusbar *status.Bar

	document *domain.Document
	width    int
	height   int
}

// NewView creates a new detail view.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	bar := status.NewBar(s)
	bar.SetBindings(km.DetailHelp())
	bar.SetState(status.StateReading)

	return &View{
		styles:    s,
		keymap:    km,
		viewport:  viewport.New(80, 20),
		statusbar: bar,
		width:     80,
		height:    24,
	}
}

// SetDocument shows doc from the top.
func (v *View) SetDocument(doc domain.Document) {
	v.document = &doc
	v.viewport.SetContent(v.renderBody())
	v.viewport.GotoTop()
}

// Document returns the newsletter being shown, or nil.
func (v *View) Document() *domain.Document {
	return v.document
}

// Update handles scrolling and leaving the view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if key.Matches(msg, v.keymap.Back) || msg.String() == "q" {
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewBrowse}
			}
		}
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// View renders the detail view.
func (v *View) View() string {
	if v.document == nil {
		return v.styles.Muted.Render("No newsletter selected")
	}

	percent := fmt.Sprintf("%3.f%%", v.viewport.ScrollPercent()*100)
	v.statusbar.SetMessage(percent)

	return lipgloss.JoinVertical(lipgloss.Left,
		v.renderHeader(),
		v.viewport.View(),
		v.statusbar.View(),
	)
}

func (v *View) renderHeader() string {
	doc := v.document
	title := v.styles.Title.Render(list.Truncate(doc.Title, max(v.width-2, 10)))

	meta := []string{doc.Date.Format(list.DateLayout)}
	if doc.DateSource == domain.DateDefault {
		meta[0] += " (undated)"
	}
	if doc.SourceRef != "" {
		meta = append(meta, doc.SourceRef)
	}
	if doc.Format != "" {
		meta = append(meta, string(doc.Format))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		v.styles.Muted.Render(strings.Join(meta, " · ")),
		"",
	)
}

// renderBody wraps the plain text of the newsletter to the view width.
// Warnings are listed after the body.
func (v *View) renderBody() string {
	doc := v.document
	width := max(v.width-2, 20)

	var b strings.Builder
	if doc.IsPlaceholder {
		b.WriteString(v.styles.Warning.Render("This newsletter could not be loaded."))
		b.WriteString("\n\n")
	}

	text := doc.RawText
	if text == "" {
		text = doc.Excerpt
	}
	b.WriteString(lipgloss.NewStyle().Width(width).Render(text))

	if len(doc.Warnings) > 0 {
		b.WriteString("\n\n")
		b.WriteString(v.styles.Subtitle.Render("Warnings"))
		for _, w := range doc.Warnings {
			b.WriteString("\n")
			b.WriteString(v.styles.Warning.Width(width).Render("• " + w))
		}
	}
	return b.String()
}

// SetDimensions resizes the viewport and rewraps the body.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.statusbar.SetWidth(width)
	v.viewport.Width = width
	v.viewport.Height = max(height-headerLines-1, 3)
	if v.document != nil {
		v.viewport.SetContent(v.renderBody())
	}
}

// AtTop reports whether the viewport is scrolled to the top.
func (v *View) AtTop() bool {
	return v.viewport.AtTop()
}
