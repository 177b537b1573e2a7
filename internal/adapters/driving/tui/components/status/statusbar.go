// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/zmcado0/femme-futures-coop/internal/adapters/driving/tui/styles"
)

// State represents what the status bar is reporting.
type State string

const (
	StateReady     State = "ready"
	StateReloading State = "reloading"
	StateError     State = "error"
	// StateReading shows the message in place of the counts.
	StateReading State = "reading"
)

// Bar displays the match count, reload state and keybinding hints.
type Bar struct {
	styles   *styles.Styles
	bindings []key.Binding
	state    State
	message  string
	shown    int
	total    int
	failures int
	width    int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Bar{
		styles: s,
		state:  StateReady,
		width:  80,
	}
}

// View renders the status bar.
func (b *Bar) View() string {
	left := b.renderLeft()
	right := b.renderRight()

	inner := b.width - b.styles.StatusBar.GetHorizontalFrameSize()
	padding := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return b.styles.StatusBar.Width(b.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (b *Bar) renderLeft() string {
	switch b.state {
	case StateReloading:
		return b.styles.Muted.Render("Reloading...")
	case StateError:
		if b.message != "" {
			return b.styles.Error.Render("Error: " + b.message)
		}
		return b.styles.Error.Render("Error")
	case StateReading:
		return b.styles.Normal.Render(b.message)
	case StateReady:
	}

	text := fmt.Sprintf("%d of %d newsletters", b.shown, b.total)
	if b.failures > 0 {
		text += b.styles.Warning.Render(fmt.Sprintf(" (%d failed)", b.failures))
	}
	return b.styles.Normal.Render(text)
}

func (b *Bar) renderRight() string {
	hints := make([]string, 0, len(b.bindings))
	for _, kb := range b.bindings {
		h := kb.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return b.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetBindings sets the keybinding hints shown on the right.
func (b *Bar) SetBindings(bindings []key.Binding) {
	b.bindings = bindings
}

// SetState sets the current state.
func (b *Bar) SetState(state State) {
	b.state = state
}

// State returns the current state.
func (b *Bar) State() State {
	return b.state
}

// SetMessage sets the error message.
func (b *Bar) SetMessage(message string) {
	b.message = message
}

// Message returns the current message.
func (b *Bar) Message() string {
	return b.message
}

// SetCounts records how many newsletters are shown out of the total,
// and how many identifiers failed during the last ingestion.
func (b *Bar) SetCounts(shown, total, failures int) {
	b.shown = shown
	b.total = total
	b.failures = failures
}

// SetWidth sets the status bar width.
func (b *Bar) SetWidth(width int) {
	b.width = width
}

// Width returns the current width.
func (b *Bar) Width() int {
	return b.width
}
