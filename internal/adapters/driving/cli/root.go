// Package cli provides the newsletter command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zmcado0/femme-futures-coop/internal/core/domain"
	"github.com/zmcado0/femme-futures-coop/internal/core/ports/driven"
	"github.com/zmcado0/femme-futures-coop/internal/core/ports/driving"
	"github.com/zmcado0/femme-futures-coop/internal/logger"
)

var (
	version = "dev"

	archiveService  driving.ArchiveService
	settingsService driving.SettingsService
	changeWatcher   driven.ChangeWatcher
	configPath      string
	closeServices   func() error

	builder Builder
	options Options
)

// errNoArchive is returned by commands that need the archive when none was built.
var errNoArchive = errors.New("archive service not configured")

// Options holds the persistent flags that shape how services are built.
type Options struct {
	// ConfigDir overrides the config directory.
	ConfigDir string

	// NoConfig skips the config file and uses defaults plus environment.
	NoConfig bool

	// Source, Manifest and ContentDir override the source settings.
	Source     string
	Manifest   string
	ContentDir string

	// Tolerant turns every failure into a placeholder.
	Tolerant bool

	// Mode overrides the content mode (markup or text).
	Mode string

	// Verbose enables debug logging.
	Verbose bool
}

// Apply overlays the flags that were given onto s.
func (o Options) Apply(s *domain.Settings) {
	if o.Source != "" {
		s.Source.Location = o.Source
	}
	if o.Manifest != "" {
		s.Source.ManifestPath = o.Manifest
	}
	if o.ContentDir != "" {
		s.Source.ContentDir = o.ContentDir
	}
	if o.Tolerant {
		s.Ingest.Tolerant = true
	}
	if o.Mode != "" {
		s.Ingest.Mode = domain.ContentMode(o.Mode)
	}
}

// Services are the ports the commands run against.
type Services struct {
	Archive  driving.ArchiveService
	Settings driving.SettingsService

	// Watcher is set when the source supports change notification.
	Watcher driven.ChangeWatcher

	// ConfigPath is where settings are persisted.
	ConfigPath string

	// Close releases resources held by the services. Optional.
	Close func() error
}

// Builder constructs services from the parsed persistent flags.
type Builder func(ctx context.Context, opts Options) (*Services, error)

// SetBuilder sets the function used to build services before a command runs.
func SetBuilder(b Builder) {
	builder = b
}

// SetServices installs services directly, bypassing the builder.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	archiveService = s.Archive
	settingsService = s.Settings
	changeWatcher = s.Watcher
	configPath = s.ConfigPath
	closeServices = s.Close
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "newsletter",
	Short: "Browse and search a newsletter archive",
	Long: `newsletter ingests a folder of newsletter issues listed in a manifest,
derives a title, date and excerpt for each one, and lets you browse and
search the result from the terminal, an interactive TUI, or an MCP client.

The archive is read from source.location, which may be a local directory
or an http(s) URL. See "newsletter config keys" for every setting.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&options.ConfigDir, "config-dir", "", "config directory (default ~/.newsletter)")
	flags.BoolVar(&options.NoConfig, "no-config", false, "ignore the config file")
	flags.StringVarP(&options.Source, "source", "s", "", "archive location: directory or http(s) URL")
	flags.StringVar(&options.Manifest, "manifest", "", "manifest path relative to the source")
	flags.StringVar(&options.ContentDir, "content-dir", "", "content folder relative to the source")
	flags.BoolVar(&options.Tolerant, "tolerant", false, "show failed files as placeholders")
	flags.StringVar(&options.Mode, "mode", "", "content mode: markup or text")
	flags.BoolVarP(&options.Verbose, "verbose", "v", false, "enable debug logging")
}

// setup builds services unless the command does not need them.
func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(options.Verbose)
	logger.SetOutput(cmd.ErrOrStderr())

	if builder == nil || !needsServices(cmd) {
		return nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	services, err := builder(ctx, options)
	if err != nil {
		return fmt.Errorf("starting: %w", err)
	}
	SetServices(services)
	return nil
}

// needsServices reports whether cmd reads the archive or settings.
func needsServices(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "version", "help", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd, "completion":
			return false
		}
	}
	return true
}

func teardown(_ *cobra.Command, _ []string) error {
	if closeServices == nil {
		return nil
	}
	err := closeServices()
	closeServices = nil
	return err
}

// Execute runs the root command.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx. Command output goes to
// stdout so it can be piped; logs stay on stderr.
func ExecuteContext(ctx context.Context) error {
	rootCmd.SetOut(os.Stdout)
	return rootCmd.ExecuteContext(ctx)
}

// commandContext returns the command's context, or Background when unset.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadArchive makes sure an ingestion has run and returns its status.
func loadArchive(ctx context.Context) (domain.ArchiveStatus, error) {
	if archiveService == nil {
		return domain.ArchiveStatus{}, errNoArchive
	}
	status := archiveService.Status(ctx)
	if status.RunID != "" {
		return status, nil
	}
	if _, err := archiveService.Reload(ctx); err != nil {
		return status, err
	}
	return archiveService.Status(ctx), nil
}
