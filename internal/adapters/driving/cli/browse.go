package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/cvemirror/internal/adapters/driving/tui"
	"github.com/custodia-labs/cvemirror/internal/core/domain"
)

var browseLimit int

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the mirror in an interactive terminal UI",
	Long: `Opens a full-screen browser over the local mirror. Page with n and p,
filter by CVE ID with /, switch the sort column with s and the direction
with o, and press enter to read a record's full JSON.`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().IntVarP(&browseLimit, "limit", "n", domain.DefaultPageSize, "results per page (max 100)")
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if queryService == nil {
		return errors.New("query service not configured")
	}

	app, err := tui.NewApp(&tui.Ports{Query: queryService}, browseLimit)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	return app.WithContext(cmd.Context()).Run()
}
