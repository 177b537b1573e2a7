package cli

import (
	"github.com/spf13/cobra"

	"github.com/zmcado0/femme-futures-coop/internal/core/domain"
)

var (
	searchLimit  int
	searchOffset int
	searchJSON   bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search newsletters",
	Long: `Finds newsletters whose title, excerpt or text contain the query,
ignoring case. Results keep the archive order, newest first, and show a
snippet around the first match.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().IntVar(&searchOffset, "offset", 0, "number of results to skip")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]
	ctx := commandContext(cmd)

	status, err := loadArchive(ctx)
	if err != nil {
		return err
	}

	results := archiveService.Search(ctx, query, domain.SearchOptions{
		Limit:  searchLimit,
		Offset: searchOffset,
	})

	if searchJSON {
		out := make([]newsletterJSON, len(results))
		for i := range results {
			out[i] = toJSON(&results[i].Document, results[i].Highlights)
		}
		return writeJSON(cmd, out)
	}

	if status.Empty {
		printEmptyArchive(cmd, status)
		return nil
	}
	return outputSearchResults(cmd, query, results)
}

func outputSearchResults(cmd *cobra.Command, query string, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Printf("No newsletters match %q.\n", query)
		return nil
	}

	cmd.Printf("Results for %q:\n\n", query)
	for i := range results {
		if i > 0 {
			cmd.Println()
		}
		snippet := ""
		if len(results[i].Highlights) > 0 {
			snippet = results[i].Highlights[0]
		}
		printCard(cmd, &results[i].Document, snippet)
	}
	return nil
}
