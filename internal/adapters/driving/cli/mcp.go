package cli

import (
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/zmcado0/femme-futures-coop/internal/adapters/driving/mcp"
	"github.com/zmcado0/femme-futures-coop/internal/core/services"
)

const (
	mcpPortRangeStart = 8080
	mcpPortRangeEnd   = 8180
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can search and
read the newsletter archive.

By default, the server communicates over stdio using JSON-RPC.

Use --port to start an HTTP server instead, or --http to pick the first
free port from 8080.

Tools:     search_newsletters, list_newsletters, get_newsletter
Resources: newsletter://newsletters, newsletter://status,
           newsletter://newsletters/{id}

Examples:
  # Stdio mode (for desktop assistants)
  newsletter mcp serve

  # HTTP mode on a fixed port, reloading when files change
  newsletter mcp serve --port 8080 --watch

Assistant configuration:
  {
    "mcpServers": {
      "newsletter": {
        "command": "/path/to/newsletter",
        "args": ["mcp", "serve", "--source", "/path/to/archive"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().Bool("http", false, "serve HTTP on the first free port from 8080")
	mcpServeCmd.Flags().BoolP("watch", "w", false, "reload when local files change")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	useHTTP, err := cmd.Flags().GetBool("http")
	if err != nil {
		return fmt.Errorf("getting http flag: %w", err)
	}
	watch, err := cmd.Flags().GetBool("watch")
	if err != nil {
		return fmt.Errorf("getting watch flag: %w", err)
	}

	ctx := commandContext(cmd)
	if _, err := loadArchive(ctx); err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{Archive: archiveService})
	if err != nil {
		return err
	}

	changes, err := watchSource(ctx, watch)
	if err != nil {
		return err
	}
	if changes != nil {
		go reloadOnChange(ctx, changes)
	}

	if useHTTP && port == 0 {
		port, err = services.FindAvailablePort("localhost", mcpPortRangeStart, mcpPortRangeEnd)
		if err != nil {
			return err
		}
	}

	if port > 0 {
		addr := net.JoinHostPort("localhost", strconv.Itoa(port))
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}
