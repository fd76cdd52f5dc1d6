package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/cvemirror/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Model Context Protocol server over the local CVE mirror.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Serves the local CVE mirror to MCP clients.

Tools:
  query_cves    filter by id, year, score range and modification age
  get_cve       the full NVD record for one CVE
  sync_status   whether a sync is running, and recent runs

Resources:
  cve://<id>    the raw NVD record

The server speaks JSON-RPC over stdio unless --port is given, in which case
it serves the streamable HTTP transport on that port.

Examples:
  cvemirror mcp serve
  cvemirror mcp serve --port 8080`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	if err := ensureServices(); err != nil {
		return err
	}

	ports := &mcp.Ports{
		Query: queryService,
		Sync:  syncService,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if addr, _ := mcp.ListenAddr(port); addr != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
	}
	return server.Serve(cmd.Context(), port)
}
