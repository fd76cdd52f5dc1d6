// Command cvemirror mirrors the NVD CVE feed into SQLite and serves
// queries over it.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/cvemirror/internal/adapters/driven/config/file"
	"github.com/custodia-labs/cvemirror/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/cvemirror/internal/adapters/driving/cli"
	"github.com/custodia-labs/cvemirror/internal/adapters/driving/mcp"
	"github.com/custodia-labs/cvemirror/internal/connectors/nvd"
	"github.com/custodia-labs/cvemirror/internal/core/services"
	"github.com/custodia-labs/cvemirror/internal/logger"
	nvdnormaliser "github.com/custodia-labs/cvemirror/internal/normalisers/nvd"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// A missing .env file is normal.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("loading .env: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	mcp.Version = version

	if err := cli.Execute(ctx, build); err != nil {
		stop()
		os.Exit(1)
	}
}

// build wires the driven adapters into the core services.
func build(opts cli.Options) (*cli.Services, error) {
	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	if applied := configStore.ApplyEnv(file.DefaultEnvBindings); len(applied) > 0 {
		logger.Debug("environment overrides: %v", applied)
	}

	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	dataDir := opts.DataDir
	if dataDir == "" {
		dataDir = settings.Storage.DataDir
	}
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, err
	}

	client, err := nvd.NewClient(nvd.Config{
		BaseURL:   settings.Feed.BaseURL,
		APIKey:    settings.Feed.APIKey,
		Timeout:   settings.Feed.Timeout,
		UserAgent: "cvemirror/" + version,
	})
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("creating feed client: %w", err)
	}

	syncEngine := services.NewSyncEngine(
		client,
		nvdnormaliser.New(),
		store.RecordStore(),
		store.SyncRunStore(),
		settings.Feed.PageSize,
	)
	scheduler := services.NewScheduler(settings.Scheduler, store.SchedulerStore(), syncEngine)

	return &cli.Services{
		Sync:      syncEngine,
		Query:     services.NewQueryService(store.RecordStore()),
		Settings:  settingsService,
		Scheduler: scheduler,
		Close:     store.Close,
	}, nil
}
