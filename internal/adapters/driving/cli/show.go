package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zmcado0/femme-futures-coop/internal/core/domain"
)

var showRaw bool

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print one newsletter",
	Long: `Prints the title, date and body of a newsletter. The body is the
normalised HTML when the archive is ingested in markup mode; use --raw for
the plain text instead. IDs are shown by "newsletter list".`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "print plain text instead of markup")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	status, err := loadArchive(ctx)
	if err != nil {
		return err
	}

	doc, err := archiveService.Get(ctx, args[0])
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) && status.Empty {
			printEmptyArchive(cmd, status)
		}
		return err
	}

	cmd.Println(doc.Title)
	cmd.Println(strings.Repeat("=", min(len([]rune(doc.Title)), terminalWidth())))
	meta := doc.Date.Format(cardDateLayout)
	if doc.SourceRef != "" {
		meta += " · " + doc.SourceRef
	}
	cmd.Println(meta)
	cmd.Println()

	body := doc.Content
	if showRaw || !doc.ContentIsMarkup {
		body = doc.RawText
	}
	if body == "" {
		body = doc.Excerpt
	}
	cmd.Println(body)

	if len(doc.Warnings) > 0 {
		cmd.Println()
		cmd.Println("Warnings:")
		for _, w := range doc.Warnings {
			cmd.Printf("  - %s\n", w)
		}
	}
	return nil
}
