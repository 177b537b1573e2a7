package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/zmcado0/femme-futures-coop/internal/core/domain"
)

const (
	cardDateLayout = "January 2, 2006"
	jsonDateLayout = "2006-01-02"
	defaultWidth   = 80
)

var panelStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	Padding(0, 1)

// newsletterJSON is the machine-readable form of a newsletter summary.
type newsletterJSON struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	Excerpt     string   `json:"excerpt"`
	Source      string   `json:"source"`
	Placeholder bool     `json:"placeholder,omitempty"`
	Highlights  []string `json:"highlights,omitempty"`
}

func toJSON(doc *domain.Document, highlights []string) newsletterJSON {
	return newsletterJSON{
		ID:          doc.ID,
		Title:       doc.Title,
		Date:        doc.Date.Format(jsonDateLayout),
		Excerpt:     doc.Excerpt,
		Source:      doc.SourceRef,
		Placeholder: doc.IsPlaceholder,
		Highlights:  highlights,
	}
}

func writeJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// terminalWidth returns the width of stdout, or a default when it is not a terminal.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

// printCard prints one newsletter as a short card.
func printCard(cmd *cobra.Command, doc *domain.Document, snippet string) {
	width := terminalWidth()

	heading := doc.Date.Format(cardDateLayout) + " · " + doc.Title
	if doc.IsPlaceholder {
		heading += " [unavailable]"
	}
	cmd.Println(truncate(heading, width))

	text := doc.Excerpt
	if snippet != "" {
		text = snippet
	}
	cmd.Println("  " + truncate(text, width-2))
	cmd.Printf("  id: %s\n", doc.ID)
}

// printEmptyArchive prints the single explanation shown for an empty archive.
func printEmptyArchive(cmd *cobra.Command, status domain.ArchiveStatus) {
	lines := []string{status.Reason(), ""}
	for _, step := range status.Remediation() {
		lines = append(lines, "• "+step)
	}
	width := min(terminalWidth(), 100) - 4
	cmd.Println(panelStyle.Width(width).Render(strings.Join(lines, "\n")))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	return string(r[:max(n-1, 0)]) + "…"
}
