// ABOUTME: MCP server implementation for refeed
// ABOUTME: Exposes feed merging, discovery, and preview as tools for AI agents

package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/harper/refeed/internal/fetch"
)

// Server wraps the MCP server with the refeed pipeline.
type Server struct {
	mcpServer *server.MCPServer
	fetcher   *fetch.Fetcher
}

// NewServer creates a new MCP server instance backed by fetcher.
func NewServer(fetcher *fetch.Fetcher) *Server {
	s := &Server{fetcher: fetcher}

	s.mcpServer = server.NewMCPServer(
		"refeed",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s.registerTools()

	return s
}

// ServeStdio starts the MCP server on stdio
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// registerTools is implemented in tools.go
