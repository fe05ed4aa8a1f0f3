// ABOUTME: MCP tool definitions and handlers for the merge pipeline
// ABOUTME: Provides tools to merge feeds, discover a feed URL, and preview merged content

package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/refeed/internal/content"
	"github.com/harper/refeed/internal/merge"
	"github.com/harper/refeed/internal/render"
)

// Type definitions for input structures

type MergeFeedsInput struct {
	URLs   []string `json:"urls"`
	Format string   `json:"format,omitempty"`
}

type DiscoverFeedInput struct {
	URL string `json:"url"`
}

type DiscoverFeedOutput struct {
	FeedURL string `json:"feed_url"`
	Title   string `json:"title,omitempty"`
	Items   int    `json:"items"`
}

type PreviewFeedInput struct {
	URLs []string `json:"urls"`
}

func (s *Server) registerTools() {
	s.registerMergeFeedsTool()
	s.registerDiscoverFeedTool()
	s.registerPreviewFeedTool()
}

func (s *Server) registerMergeFeedsTool() {
	tool := mcp.Tool{
		Name:        "merge_feeds",
		Description: "Fetch multiple RSS/Atom/JSON feeds, merge their items sorted by publication date (newest first), and return the combined feed as a serialized document. Sources that fail to load appear as placeholder items at the top rather than failing the merge. Format is 'rss' (default, RSS 2.0 XML) or 'json' (JSON Feed 1.1).",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"urls": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Feed or page URLs to merge. Pages are scanned for an alternate feed link. Example: ['https://example.com/feed.xml', 'https://blog.example.org/']",
				},
				"format": map[string]interface{}{
					"type":        "string",
					"description": "Output format: 'rss' for RSS 2.0 XML (default) or 'json' for JSON Feed 1.1.",
				},
			},
			Required: []string{"urls"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleMergeFeeds)
}

func (s *Server) registerDiscoverFeedTool() {
	tool := mcp.Tool{
		Name:        "discover_feed",
		Description: "Resolve a URL to a machine-readable feed. Accepts a direct feed URL or an HTML page with a <link rel=\"alternate\"> feed reference. Returns the feed URL that was actually fetched, its title, and its item count.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"url": map[string]interface{}{
					"type":        "string",
					"description": "The URL to resolve. Example: 'https://example.com/blog/'",
				},
			},
			Required: []string{"url"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleDiscoverFeed)
}

func (s *Server) registerPreviewFeedTool() {
	tool := mcp.Tool{
		Name:        "preview_feed",
		Description: "Fetch and merge feeds, then return the combined result as a readable Markdown digest instead of a serialized feed document. Useful for summarizing what a set of feeds currently contains.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"urls": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Feed or page URLs to preview.",
				},
			},
			Required: []string{"urls"},
		},
	}
	s.mcpServer.AddTool(tool, s.handlePreviewFeed)
}

func (s *Server) handleMergeFeeds(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input MergeFeedsInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	if len(input.URLs) == 0 {
		return nil, fmt.Errorf("at least one url is required")
	}

	results := s.fetcher.ResolveAll(ctx, input.URLs)
	merged := merge.Merge(results, "")

	switch input.Format {
	case "json", "jsonfeed":
		body, err := render.JSONFeed(merged, "")
		if err != nil {
			return nil, fmt.Errorf("failed to render JSON feed: %w", err)
		}
		return mcp.NewToolResultText(body), nil
	default:
		return mcp.NewToolResultText(render.RSS(merged, "")), nil
	}
}

func (s *Server) handleDiscoverFeed(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input DiscoverFeedInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	if input.URL == "" {
		return nil, fmt.Errorf("url is required")
	}

	result := s.fetcher.Resolve(ctx, input.URL)
	if result.Failed() {
		return nil, fmt.Errorf("no feed found at %s: %s", input.URL, result.Err)
	}

	output := DiscoverFeedOutput{
		FeedURL: result.Feed.FeedURL,
		Title:   result.Feed.Title,
		Items:   len(result.Feed.Items),
	}
	return jsonResult(output)
}

func (s *Server) handlePreviewFeed(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input PreviewFeedInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	if len(input.URLs) == 0 {
		return nil, fmt.Errorf("at least one url is required")
	}

	results := s.fetcher.ResolveAll(ctx, input.URLs)
	merged := merge.Merge(results, "")
	return mcp.NewToolResultText(content.Digest(merged)), nil
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal output: %w", err)
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}
