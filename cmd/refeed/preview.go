// ABOUTME: Preview command rendering the merged feed as Markdown in the terminal
// ABOUTME: Uses glamour for display, falling back to plain markdown when rendering fails

package main

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/harper/refeed/internal/content"
	"github.com/harper/refeed/internal/merge"
)

var previewCmd = &cobra.Command{
	Use:   "preview <url>...",
	Short: "Show the merged feed as readable text",
	Long: `Fetch and merge the given feeds, then render the combined items as
Markdown in the terminal instead of a serialized feed document.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results := fetcher.ResolveAll(cmd.Context(), args)
		merged := merge.Merge(results, "")

		markdown := content.Digest(merged)
		rendered, err := glamour.Render(markdown, "dark")
		if err != nil {
			// Fall back to plain markdown if rendering fails
			fmt.Println(markdown)
			return nil
		}
		fmt.Print(rendered)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
}
