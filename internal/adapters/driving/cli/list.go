package cli

import (
	"github.com/spf13/cobra"

	"github.com/zmcado0/femme-futures-coop/internal/core/domain"
)

var (
	listLimit int
	listJSON  bool
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List newsletters, newest first",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

func init() {
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 0, "maximum number of newsletters (0 = all)")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)
	status, err := loadArchive(ctx)
	if err != nil {
		return err
	}

	docs := archiveService.All(ctx)
	if listLimit > 0 && len(docs) > listLimit {
		docs = docs[:listLimit]
	}

	if listJSON {
		out := make([]newsletterJSON, len(docs))
		for i := range docs {
			out[i] = toJSON(&docs[i], nil)
		}
		return writeJSON(cmd, out)
	}

	if status.Empty {
		printEmptyArchive(cmd, status)
		return nil
	}
	printCards(cmd, docs)
	return nil
}

func printCards(cmd *cobra.Command, docs []domain.Document) {
	for i := range docs {
		if i > 0 {
			cmd.Println()
		}
		printCard(cmd, &docs[i], "")
	}
}
