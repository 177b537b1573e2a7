package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zmcado0/femme-futures-coop/internal/core/domain"
)

var ingestStrict bool

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest the archive and report what happened",
	Long: `Runs the ingestion pipeline once: reads the manifest, fetches and
converts every listed file, and prints a summary with the reason for each
file that failed.

Failures never stop the run. Use --strict to exit non-zero when any file
failed, for example in CI.`,
	Args: cobra.NoArgs,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestStrict, "strict", false, "exit with an error if any file failed")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	if archiveService == nil {
		return errNoArchive
	}

	result, err := archiveService.Reload(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	printIngestSummary(cmd, result)

	if result.Empty() {
		printEmptyArchive(cmd, result.Status())
	}
	if ingestStrict && result.FailureCount() > 0 {
		return fmt.Errorf("%d of %d files failed", result.FailureCount(), result.Total)
	}
	return nil
}

func printIngestSummary(cmd *cobra.Command, result *domain.IngestResult) {
	status := result.Status()
	cmd.Printf("Ingested %d newsletters from %d files in %s\n",
		status.Total-status.Placeholders, result.Total, result.Duration.Round(time.Millisecond))
	if status.Placeholders > 0 {
		cmd.Printf("  %d shown as placeholders\n", status.Placeholders)
	}
	if result.RunID != "" {
		cmd.Printf("  run: %s\n", result.RunID)
	}
	if result.ManifestErr != nil {
		cmd.Printf("  manifest: %v\n", result.ManifestErr)
	}

	if len(result.Failures) == 0 {
		return
	}
	cmd.Println()
	cmd.Printf("Failed (%d):\n", len(result.Failures))
	for i := range result.Failures {
		f := &result.Failures[i]
		cmd.Printf("  ✗ %s: %s\n", f.Identifier, f.Reason())
	}
}
