package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/cvemirror/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/cvemirror/internal/logger"
)

var (
	serveAddr        string
	serveNoScheduler bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API and run scheduled syncs",
	Long: `Starts the HTTP API and, unless disabled, the scheduler that re-syncs
the feed on its configured interval. Both stop on SIGINT or SIGTERM.

Routes:
  GET  /api/cves          filtered, paginated query
  GET  /api/cves/:id      raw NVD record
  POST /admin/sync        run a full sync
  GET  /admin/sync/runs   sync status and history
  GET  /metrics           Prometheus metrics
  GET  /healthz           liveness`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from settings, :3000)")
	serveCmd.Flags().BoolVar(&serveNoScheduler, "no-scheduler", false, "do not run scheduled syncs")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if queryService == nil {
		return errors.New("query service not configured")
	}

	addr := serveAddr
	if addr == "" && settingsService != nil {
		settings, err := settingsService.Get()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		addr = settings.Server.Addr
	}
	if addr == "" {
		return errors.New("no listen address configured")
	}

	// A long-running server logs at info level with timestamps.
	if !verbose {
		logger.SetLevel(logger.LevelInfo)
	}
	logger.SetTimestamps(true)

	server := httpapi.NewServer(queryService, syncService)

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		return server.Start(ctx, addr)
	})
	if schedulerService != nil && !serveNoScheduler {
		g.Go(func() error {
			return schedulerService.Start(ctx)
		})
		g.Go(func() error {
			<-ctx.Done()
			return schedulerService.Stop()
		})
	}

	cmd.Printf("Serving on %s\n", addr)
	return g.Wait()
}
