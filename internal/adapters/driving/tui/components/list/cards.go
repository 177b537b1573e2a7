// Package list provides list display components for the TUI.
package list

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zmcado0/femme-futures-coop/internal/adapters/driving/tui/styles"
	"github.com/zmcado0/femme-futures-coop/internal/core/domain"
)

// DateLayout is how card dates are shown.
const DateLayout = "January 2, 2006"

// cardHeight is the rendered height of one card, border included.
const cardHeight = 4

// CardList displays newsletters as a navigable column of cards.
type CardList struct {
	docs     []domain.Document
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewCardList creates an empty card list.
func NewCardList(s *styles.Styles) *CardList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &CardList{
		styles: s,
		width:  80,
		height: 20,
	}
}

// Update handles list navigation keys.
func (c *CardList) Update(msg tea.Msg) (*CardList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			c.MoveUp()
		case "down", "j":
			c.MoveDown()
		case "pgup", "ctrl+u":
			c.move(-c.visibleCount())
		case "pgdown", "ctrl+d":
			c.move(c.visibleCount())
		case "home", "g":
			c.selected = 0
		case "end", "G":
			c.move(len(c.docs))
		}
	}
	return c, nil
}

// View renders the cards that fit the current height, keeping the
// selection visible.
func (c *CardList) View() string {
	if len(c.docs) == 0 {
		return c.styles.Muted.Render("No newsletters match")
	}

	visible := c.visibleCount()
	start := 0
	if c.selected >= visible {
		start = c.selected - visible + 1
	}
	end := min(start+visible, len(c.docs))

	cards := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		cards = append(cards, c.renderCard(i, &c.docs[i]))
	}
	return strings.Join(cards, "\n")
}

func (c *CardList) visibleCount() int {
	return max(c.height/cardHeight, 1)
}

func (c *CardList) renderCard(index int, doc *domain.Document) string {
	inner := max(c.width-4, 20)

	date := c.styles.Muted.Render(doc.Date.Format(DateLayout))
	title := Truncate(doc.Title, inner-len(DateLayout)-4)
	var heading string
	if index == c.selected {
		heading = c.styles.Selected.Render(title)
	} else {
		heading = c.styles.Normal.Render(title)
	}
	if doc.IsPlaceholder {
		heading += c.styles.Warning.Render(" [unavailable]")
	}

	excerpt := c.styles.Muted.Render(Truncate(doc.Excerpt, inner))
	body := date + "  " + heading + "\n" + excerpt

	box := c.styles.Card
	if index == c.selected {
		box = c.styles.SelectedCard
	}
	return box.Width(inner + 2).Render(body)
}

// SetDocuments replaces the cards. The selection is kept on the same
// newsletter when it is still present, and clamped otherwise.
func (c *CardList) SetDocuments(docs []domain.Document) {
	var keepID string
	if cur := c.SelectedDocument(); cur != nil {
		keepID = cur.ID
	}

	c.docs = docs
	c.selected = 0
	for i := range docs {
		if docs[i].ID == keepID {
			c.selected = i
			break
		}
	}
}

// Documents returns the current cards.
func (c *CardList) Documents() []domain.Document {
	return c.docs
}

// Len returns the number of cards.
func (c *CardList) Len() int {
	return len(c.docs)
}

// Selected returns the index of the selected card.
func (c *CardList) Selected() int {
	return c.selected
}

// SelectedDocument returns the selected newsletter, or nil if the list is empty.
func (c *CardList) SelectedDocument() *domain.Document {
	if c.selected < 0 || c.selected >= len(c.docs) {
		return nil
	}
	return &c.docs[c.selected]
}

// MoveUp moves selection up.
func (c *CardList) MoveUp() {
	c.move(-1)
}

// MoveDown moves selection down.
func (c *CardList) MoveDown() {
	c.move(1)
}

func (c *CardList) move(delta int) {
	if len(c.docs) == 0 {
		return
	}
	c.selected = min(max(c.selected+delta, 0), len(c.docs)-1)
}

// SetDimensions sets the available width and height.
func (c *CardList) SetDimensions(width, height int) {
	c.width = width
	c.height = height
}

// Truncate shortens s to at most n runes, ending with an ellipsis when cut.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
