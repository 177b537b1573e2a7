package cli

import (
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show archive diagnostics",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	status, err := loadArchive(commandContext(cmd))
	if err != nil {
		return err
	}

	cmd.Printf("Run:          %s\n", status.RunID)
	cmd.Printf("Newsletters:  %d\n", status.Total)
	cmd.Printf("Placeholders: %d\n", status.Placeholders)
	cmd.Printf("Failures:     %d\n", status.Failures)
	if status.ManifestErr != nil {
		cmd.Printf("Manifest:     %v\n", status.ManifestErr)
	}
	if status.Empty {
		cmd.Println()
		printEmptyArchive(cmd, status)
	}
	return nil
}
