// Package browse provides the newsletter browser: a live filter box
// over a column of cards.
package browse

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zmcado0/femme-futures-coop/internal/adapters/driving/tui/components/input"
	"github.com/zmcado0/femme-futures-coop/internal/adapters/driving/tui/components/list"
	"github.com/zmcado0/femme-futures-coop/internal/adapters/driving/tui/components/status"
	"github.com/zmcado0/femme-futures-coop/internal/adapters/driving/tui/keymap"
	"github.com/zmcado0/femme-futures-coop/internal/adapters/driving/tui/messages"
	"github.com/zmcado0/femme-futures-coop/internal/adapters/driving/tui/styles"
	"github.com/zmcado0/femme-futures-coop/internal/core/domain"
	"github.com/zmcado0/femme-futures-coop/internal/core/ports/driving"
)

// View is the browse view.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.FilterInput
	list      *list.CardList
	statusbar *status.Bar

	archive driving.ArchiveService
	ctx     context.Context

	archiveStatus domain.ArchiveStatus
	width         int
	height        int

	// focusInput is true while typing into the filter, false while
	// moving through the cards.
	focusInput bool
}

// NewView creates a new browse view.
func NewView(s *styles.Styles, km *keymap.KeyMap, archive driving.ArchiveService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	bar := status.NewBar(s)
	bar.SetBindings(km.BrowseHelp())

	return &View{
		styles:     s,
		keymap:     km,
		input:      input.NewFilterInput(s),
		list:       list.NewCardList(s),
		statusbar:  bar,
		archive:    archive,
		ctx:        context.Background(),
		width:      80,
		height:     24,
		focusInput: true,
	}
}

// WithContext sets the context for archive calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init starts the filter cursor and shows the current collection.
func (v *View) Init() tea.Cmd {
	v.Refresh()
	return v.input.Init()
}

// Refresh re-runs the filter against the archive's current collection.
func (v *View) Refresh() {
	if v.archive == nil {
		return
	}
	v.archiveStatus = v.archive.Status(v.ctx)
	docs := v.archive.Filter(v.ctx, v.input.Value())
	v.list.SetDocuments(docs)
	v.statusbar.SetCounts(len(docs), v.archiveStatus.Total, v.archiveStatus.Failures)
}

// Update handles messages for the browse view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.CollectionReloaded:
		if msg.Err != nil {
			v.SetError(msg.Err)
			return v, nil
		}
		v.statusbar.SetState(status.StateReady)
		v.Refresh()
		return v, nil

	case messages.ErrorOccurred:
		v.SetError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.focusInput {
		//nolint:exhaustive // handling only relevant key types
		switch msg.Type {
		case tea.KeyEsc:
			if v.input.Value() != "" {
				v.input.Reset()
				v.Refresh()
				return v, nil
			}
			v.focusList()
			return v, nil
		case tea.KeyEnter, tea.KeyDown, tea.KeyTab:
			v.focusList()
			return v, nil
		}

		before := v.input.Value()
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		if v.input.Value() != before {
			v.Refresh()
		}
		return v, cmd
	}

	switch {
	case key.Matches(msg, v.keymap.Filter):
		v.focusInput = true
		return v, v.input.Focus()

	case key.Matches(msg, v.keymap.Select):
		doc := v.list.SelectedDocument()
		if doc == nil {
			return v, nil
		}
		selected := *doc
		return v, func() tea.Msg {
			return messages.DocumentSelected{Document: selected}
		}

	case key.Matches(msg, v.keymap.Help):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewHelp}
		}

	case key.Matches(msg, v.keymap.Back):
		if v.input.Value() != "" {
			v.input.Reset()
			v.Refresh()
		}
		return v, nil

	case msg.String() == "q":
		return v, tea.Quit
	}

	v.list, _ = v.list.Update(msg)
	return v, nil
}

func (v *View) focusList() {
	v.focusInput = false
	v.input.Blur()
}

// SetReloading switches the status bar into the reloading state.
func (v *View) SetReloading() {
	v.statusbar.SetState(status.StateReloading)
}

// SetError shows err in the status bar.
func (v *View) SetError(err error) {
	if err == nil {
		return
	}
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// View renders the browse view.
func (v *View) View() string {
	header := v.styles.Title.Render("Newsletter Archive")

	var body string
	if v.archiveStatus.Empty {
		body = v.renderEmpty()
	} else {
		body = v.list.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		v.input.View(),
		"",
		body,
		"",
		v.statusbar.View(),
	)
}

// renderEmpty explains an empty archive and what to do about it.
func (v *View) renderEmpty() string {
	lines := []string{v.styles.Warning.Render(v.archiveStatus.Reason()), ""}
	for _, step := range v.archiveStatus.Remediation() {
		lines = append(lines, v.styles.Normal.Render("• "+step))
	}
	width := max(v.width-6, 30)
	return v.styles.Panel.Width(width).Render(strings.Join(lines, "\n"))
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
	// header, input box (3 lines), two spacers and the status bar
	v.list.SetDimensions(width, max(height-7, 4))
}

// Query returns the current filter text.
func (v *View) Query() string {
	return v.input.Value()
}

// Documents returns the newsletters currently shown.
func (v *View) Documents() []domain.Document {
	return v.list.Documents()
}

// Selected returns the index of the selected card.
func (v *View) Selected() int {
	return v.list.Selected()
}

// InputFocused reports whether keys go to the filter box.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// StatusState returns the status bar state.
func (v *View) StatusState() status.State {
	return v.statusbar.State()
}
