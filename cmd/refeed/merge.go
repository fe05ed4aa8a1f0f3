// ABOUTME: Merge command producing a serialized combined feed on stdout
// ABOUTME: Colored per-source progress goes to stderr so stdout stays a clean document

package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/refeed/internal/merge"
	"github.com/harper/refeed/internal/render"
)

var mergeFormat string

var mergeCmd = &cobra.Command{
	Use:   "merge <url>...",
	Short: "Merge feeds and print the combined document",
	Long: `Fetch every given feed URL, merge the items newest-first, and write the
combined feed to stdout.

Use --format to pick the output: rss (RSS 2.0 XML, default) or json
(JSON Feed 1.1). Page URLs are scanned for an alternate feed link.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()

		results := fetcher.ResolveAll(cmd.Context(), args)
		for _, res := range results {
			if res.Failed() {
				fmt.Fprintf(os.Stderr, "%s %s: %s\n", red("x"), res.URL, res.Err)
				continue
			}
			count := 0
			if res.Feed != nil {
				count = len(res.Feed.Items)
			}
			fmt.Fprintf(os.Stderr, "%s %s (%d items)\n", green("+"), res.URL, count)
		}

		merged := merge.Merge(results, "")

		switch mergeFormat {
		case "json", "jsonfeed":
			body, err := render.JSONFeed(merged, "")
			if err != nil {
				return fmt.Errorf("failed to render JSON feed: %w", err)
			}
			fmt.Println(body)
		case "rss", "":
			fmt.Print(render.RSS(merged, ""))
		default:
			return fmt.Errorf("unknown format: %q (want rss or json)", mergeFormat)
		}
		return nil
	},
}

func init() {
	mergeCmd.Flags().StringVarP(&mergeFormat, "format", "f", "rss", "output format: rss or json")
	rootCmd.AddCommand(mergeCmd)
}
