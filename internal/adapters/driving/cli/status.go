package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/cvemirror/internal/core/domain"
)

var statusLimit int

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status and recent sync runs",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().IntVarP(&statusLimit, "limit", "n", 5, "number of runs to show")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if syncService == nil {
		return errors.New("sync service not configured")
	}

	ctx := cmd.Context()

	if queryService != nil {
		result, err := queryService.Query(ctx, domain.QueryParams{Limit: "1"})
		if err == nil {
			cmd.Printf("Records: %d\n", result.Total)
		}
	}

	status, err := syncService.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to get sync status: %w", err)
	}
	if status.Running {
		cmd.Printf("Sync: running (offset %d)\n", status.Offset)
	} else {
		cmd.Println("Sync: idle")
	}

	runs, err := syncService.Runs(ctx, statusLimit)
	if err != nil {
		return fmt.Errorf("failed to list sync runs: %w", err)
	}
	if len(runs) == 0 {
		cmd.Println("No sync runs recorded.")
		return nil
	}

	cmd.Println()
	cmd.Println("Recent runs:")
	for i := range runs {
		run := &runs[i]
		line := fmt.Sprintf("  %s  %-9s  %d records", run.StartedAt.Local().Format(time.DateTime), run.Status, run.Processed)
		if d := run.Duration(); d > 0 {
			line += fmt.Sprintf(" in %s", d.Round(time.Second))
		}
		if run.Error != "" {
			line += "  error: " + run.Error
		}
		cmd.Println(line)
	}
	return nil
}
