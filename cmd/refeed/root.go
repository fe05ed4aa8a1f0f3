// ABOUTME: Root Cobra command and global flags
// ABOUTME: Loads configuration and builds the shared fetcher for subcommands

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harper/refeed/internal/config"
	"github.com/harper/refeed/internal/fetch"
)

var (
	flagUserAgent string
	flagTimeout   time.Duration

	cfg     *config.Config
	fetcher *fetch.Fetcher
)

var rootCmd = &cobra.Command{
	Use:   "refeed",
	Short: "Merge RSS/Atom/JSON feeds into one",
	Long: `refeed fetches multiple RSS, Atom, or JSON feeds, merges their items
sorted by publication date, and re-serializes the result as RSS 2.0 or
JSON Feed 1.1.

Sources that fail to load never break the merge; they show up as
placeholder items at the top of the combined feed.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		fetchCfg := fetch.Default()
		fetchCfg.UserAgent = cfg.GetUserAgent()
		fetchCfg.Timeout = cfg.GetTimeout()
		if flagUserAgent != "" {
			fetchCfg.UserAgent = flagUserAgent
		}
		if flagTimeout > 0 {
			fetchCfg.Timeout = flagTimeout
		}
		fetcher = fetch.New(fetchCfg)
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagUserAgent, "user-agent", "", "override the User-Agent sent to feed hosts")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 0, "per-source fetch timeout (e.g. 10s)")
}
