// ABOUTME: MCP command running the stdio server for AI agents
// ABOUTME: Exposes merge, discovery, and preview tools over the Model Context Protocol

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/refeed/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server on stdio",
	Long: `Run a Model Context Protocol server over stdio, exposing merge_feeds,
discover_feed, and preview_feed tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server := mcp.NewServer(fetcher)
		if err := server.ServeStdio(); err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
