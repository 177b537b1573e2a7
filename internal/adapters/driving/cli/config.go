package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zmcado0/femme-futures-coop/internal/core/services"
)

var errNoSettings = errors.New("settings service not configured")

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage settings",
	Long: `View and change settings stored in the config file.

Each key can also be set through an environment variable (shown by
"config keys"), or per run with the matching flag. Flags win over the
environment, which wins over the config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print the effective value of a key",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Store a value in the config file",
	Long: `Stores a value in the config file. Lists are comma separated, for example:

  newsletter config set markup.transforms blank-lines,center-images
  newsletter config set fetch.timeout 15s`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List every setting and its environment variable",
	Args:  cobra.NoArgs,
	RunE:  runConfigKeys,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Println(configPath)
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configKeysCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNoSettings
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Source]")
	cmd.Printf("  Location:    %s\n", settings.Source.Location)
	cmd.Printf("  Manifest:    %s\n", settings.Source.ManifestPath)
	cmd.Printf("  Content dir: %s\n", settings.Source.ContentDir)
	cmd.Printf("  Timeout:     %s\n", orNone(settings.Source.Timeout.String(), settings.Source.Timeout == 0))
	cmd.Printf("  Rate limit:  %s\n", orNone(fmt.Sprintf("%g/s", settings.Source.RateLimit), settings.Source.RateLimit == 0))
	cmd.Println()

	cmd.Println("[Ingest]")
	cmd.Printf("  Failures:    %s\n", settings.Ingest.EffectivePolicy().Description())
	cmd.Printf("  Mode:        %s\n", settings.Ingest.Mode)
	cmd.Printf("  Concurrency: %s\n", orNone(fmt.Sprint(settings.Ingest.MaxConcurrency), settings.Ingest.MaxConcurrency == 0))
	cmd.Println()

	cmd.Println("[Heuristics]")
	minLen, maxLen := settings.Heuristics.TitleBounds()
	cmd.Printf("  Title:       %d-%d characters\n", minLen, maxLen-1)
	cmd.Printf("  Excerpt:     %d-%d characters, cut at %d\n",
		settings.Heuristics.ExcerptMinLen, settings.Heuristics.ExcerptMaxLen-1, settings.Heuristics.ExcerptLimit)
	cmd.Printf("  Dates:       %s\n", settings.Heuristics.DatePolicy)

	if configPath != "" {
		cmd.Println()
		cmd.Printf("Config file: %s\n", configPath)
	}
	return nil
}

// orNone returns "none" when unset is true.
func orNone(value string, unset bool) string {
	if unset {
		return "none"
	}
	return value
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNoSettings
	}
	value, err := settingsService.Value(args[0])
	if err != nil {
		return err
	}
	cmd.Println(value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNoSettings
	}
	if err := settingsService.Set(args[0], args[1]); err != nil {
		return err
	}
	cmd.Printf("%s = %s\n", args[0], args[1])
	return nil
}

func runConfigKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNoSettings
	}
	for _, key := range settingsService.Keys() {
		if env := services.EnvVar(key); env != "" {
			cmd.Printf("  %-30s %s\n", key, env)
		} else {
			cmd.Printf("  %s\n", key)
		}
	}
	return nil
}
