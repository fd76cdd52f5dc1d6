package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/cvemirror/internal/core/domain"
)

var showRaw bool

var showCmd = &cobra.Command{
	Use:   "show <cve-id>",
	Short: "Print the stored NVD record for a CVE",
	Long: `Prints the complete feed item stored for a CVE. Output is indented
unless --raw is given, in which case the stored bytes are printed unchanged.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "print the stored bytes unchanged")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if queryService == nil {
		return errors.New("query service not configured")
	}

	id := args[0]
	raw, err := queryService.GetRaw(cmd.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("CVE not found: %s", id)
	}
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}

	if showRaw {
		cmd.Println(string(raw))
		return nil
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		cmd.Println(string(raw))
		return nil
	}
	cmd.Println(buf.String())
	return nil
}
