// Package cli implements the cvemirror command line with cobra.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/cvemirror/internal/core/ports/driving"
	"github.com/custodia-labs/cvemirror/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Global flags.
var (
	verbose   bool
	configDir string
	dataDir   string
)

// Options carries the global flags to the service builder.
type Options struct {
	ConfigDir string
	DataDir   string
	Verbose   bool
}

// Services is the set of driving ports the commands use.
type Services struct {
	Sync      driving.SyncService
	Query     driving.QueryService
	Settings  driving.SettingsService
	Scheduler driving.Scheduler

	// Close releases the resources behind the services.
	Close func() error
}

// Builder constructs services once the global flags are parsed.
type Builder func(opts Options) (*Services, error)

// Services used by the commands. Tests assign these directly.
var (
	syncService      driving.SyncService
	queryService     driving.QueryService
	settingsService  driving.SettingsService
	schedulerService driving.Scheduler
)

var (
	builder  Builder
	closeFns []func() error
)

var rootCmd = &cobra.Command{
	Use:   "cvemirror",
	Short: "Mirror the NVD CVE feed into SQLite and query it",
	Long: `cvemirror keeps a local SQLite copy of the NVD CVE feed and serves
filtered, paginated queries over it from the command line, an HTTP API
and an MCP server.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.cvemirror)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "database directory (default ~/.cvemirror/data)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command. build is called lazily by the commands
// that need services, after flags have been parsed.
func Execute(ctx context.Context, build Builder) error {
	builder = build
	defer closeServices()
	return rootCmd.ExecuteContext(ctx)
}

// ensureServices builds the services on first use. Services already
// assigned are left alone; without a builder it does nothing and each
// command reports the service it is missing.
func ensureServices() error {
	if builder == nil {
		return nil
	}

	svc, err := builder(Options{ConfigDir: configDir, DataDir: dataDir, Verbose: verbose})
	if err != nil {
		return err
	}
	builder = nil

	if syncService == nil {
		syncService = svc.Sync
	}
	if queryService == nil {
		queryService = svc.Query
	}
	if settingsService == nil {
		settingsService = svc.Settings
	}
	if schedulerService == nil {
		schedulerService = svc.Scheduler
	}
	if svc.Close != nil {
		closeFns = append(closeFns, svc.Close)
	}
	return nil
}

func closeServices() {
	for _, fn := range closeFns {
		if err := fn(); err != nil {
			logger.Warn("closing services: %v", err)
		}
	}
	closeFns = nil
}
