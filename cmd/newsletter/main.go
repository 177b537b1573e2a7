// Command newsletter ingests a newsletter archive and serves it to the
// terminal, an interactive browser, or MCP clients.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/zmcado0/femme-futures-coop/internal/adapters/driven/config/file"
	"github.com/zmcado0/femme-futures-coop/internal/adapters/driven/source"
	"github.com/zmcado0/femme-futures-coop/internal/adapters/driven/storage/memory"
	"github.com/zmcado0/femme-futures-coop/internal/adapters/driving/cli"
	"github.com/zmcado0/femme-futures-coop/internal/converters"
	"github.com/zmcado0/femme-futures-coop/internal/core/ports/driven"
	"github.com/zmcado0/femme-futures-coop/internal/core/services"
	"github.com/zmcado0/femme-futures-coop/internal/transforms"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	cli.SetVersion(version)
	cli.SetBuilder(build)

	if err := cli.ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}

// build wires the archive from settings, flags and environment.
func build(_ context.Context, opts cli.Options) (*cli.Services, error) {
	configStore, err := openConfigStore(opts)
	if err != nil {
		return nil, err
	}

	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}
	opts.Apply(&settings)
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}

	src, err := source.Open(settings.Source)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}

	pipeline, err := transforms.NewDefaultRegistry().BuildPipeline(settings.Ingest.Transforms)
	if err != nil {
		return nil, fmt.Errorf("markup transforms: %w", err)
	}

	ingester := services.NewIngestService(src, src, converters.NewDefaultRegistry(), pipeline, settings)

	svc := &cli.Services{
		Archive:    services.NewArchiveService(memory.NewCollectionStore(), ingester),
		Settings:   settingsService,
		ConfigPath: configStore.Path(),
	}
	if w, ok := src.(driven.ChangeWatcher); ok {
		svc.Watcher = w
	}
	if c, ok := src.(io.Closer); ok {
		svc.Close = c.Close
	}
	return svc, nil
}

func openConfigStore(opts cli.Options) (driven.ConfigStore, error) {
	if opts.NoConfig {
		return memory.NewConfigStore(nil), nil
	}
	store, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return store, nil
}
