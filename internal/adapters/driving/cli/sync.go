package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/cvemirror/internal/connectors/nvd"
	"github.com/custodia-labs/cvemirror/internal/core/domain"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Mirror the full CVE feed into the local store",
	Long: `Walks the NVD CVE feed from the first record to the last and upserts
every page into the local SQLite store. Each page is committed on its own,
so an interrupted sync keeps every page written before the failure.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if syncService == nil {
		return errors.New("sync service not configured")
	}

	cmd.Println("Synchronising CVE feed...")

	var processed int
	var total *int
	err := syncService.FullSync(cmd.Context(), func(p domain.SyncProgress) {
		if p.Stage != domain.StageCommitted {
			return
		}
		processed, total = p.Processed, p.Total
		if total != nil {
			cmd.Printf("\rCommitted %d of %d records", processed, *total)
		} else {
			cmd.Printf("\rCommitted %d records", processed)
		}
	})
	if processed > 0 {
		cmd.Println()
	}

	if errors.Is(err, domain.ErrSyncInProgress) {
		return errors.New("a sync is already running")
	}
	if err != nil {
		switch {
		case nvd.IsRateLimited(err):
			cmd.Println("NVD rate limit reached. Set an API key with 'cvemirror settings api-key' to raise it.")
		case nvd.IsTimeout(err):
			cmd.Println("The feed request timed out. Raise it with 'cvemirror settings set feed.timeout 3m'.")
		}
		return fmt.Errorf("sync failed: %w", err)
	}

	cmd.Printf("Sync complete: %d records.\n", processed)
	return nil
}
