// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zmcado0/femme-futures-coop/internal/adapters/driving/tui/styles"
)

// FilterInput wraps a bubbles textinput for the live newsletter filter.
type FilterInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int
}

// NewFilterInput creates a focused filter input.
func NewFilterInput(s *styles.Styles) *FilterInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "Type to filter newsletters..."
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 50

	return &FilterInput{
		textinput: ti,
		styles:    s,
		width:     50,
	}
}

// Init starts the cursor blinking.
func (f *FilterInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (f *FilterInput) Update(msg tea.Msg) (*FilterInput, tea.Cmd) {
	var cmd tea.Cmd
	f.textinput, cmd = f.textinput.Update(msg)
	return f, cmd
}

// View renders the filter box with its label.
func (f *FilterInput) View() string {
	label := f.styles.Title.Render("Filter: ")
	box := f.styles.InputField.Render(f.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, box)
}

// Value returns the current filter text.
func (f *FilterInput) Value() string {
	return f.textinput.Value()
}

// SetValue replaces the filter text.
func (f *FilterInput) SetValue(value string) {
	f.textinput.SetValue(value)
}

// Focus sets focus on the input.
func (f *FilterInput) Focus() tea.Cmd {
	return f.textinput.Focus()
}

// Blur removes focus from the input.
func (f *FilterInput) Blur() {
	f.textinput.Blur()
}

// Focused returns whether the input is focused.
func (f *FilterInput) Focused() bool {
	return f.textinput.Focused()
}

// SetWidth sets the width of the input, label and border included.
func (f *FilterInput) SetWidth(width int) {
	f.width = width
	inputWidth := width - 14
	if inputWidth < 20 {
		inputWidth = 20
	}
	f.textinput.Width = inputWidth
}

// Width returns the current width.
func (f *FilterInput) Width() int {
	return f.width
}

// Reset clears the input.
func (f *FilterInput) Reset() {
	f.textinput.Reset()
}
