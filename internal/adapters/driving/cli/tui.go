package cli

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/zmcado0/femme-futures-coop/internal/adapters/driving/tui"
	"github.com/zmcado0/femme-futures-coop/internal/logger"
)

var tuiWatch bool

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive newsletter browser",
	Long: `Launch the interactive terminal browser.

Type to filter the cards as you go, then read a newsletter in full.

Controls:
  type     - Filter newsletters
  enter    - Move to the cards / Read the selected newsletter
  ↑/k, ↓/j - Navigate cards or scroll
  /        - Back to the filter
  ctrl+r   - Reload the archive
  esc      - Clear filter / Back
  ?        - Help
  q        - Quit

With --watch, a local archive is reloaded whenever its files change.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().BoolVarP(&tuiWatch, "watch", "w", false, "reload when local files change")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui needs an interactive terminal; use list or search instead")
	}

	ctx := commandContext(cmd)
	if _, err := loadArchive(ctx); err != nil {
		return err
	}

	changes, err := watchSource(ctx, tuiWatch)
	if err != nil {
		return err
	}

	app, err := tui.NewApp(&tui.Ports{Archive: archiveService})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(ctx).WithChanges(changes)

	// The alternate screen owns the terminal; keep log lines off it.
	logger.SetOutput(io.Discard)
	defer logger.SetOutput(cmd.ErrOrStderr())

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
