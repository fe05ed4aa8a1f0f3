// ABOUTME: Serve command running the HTTP merge endpoint
// ABOUTME: Wires config, zap logging, and the echo server together

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harper/refeed/internal/config"
	"github.com/harper/refeed/internal/logger"
	"github.com/harper/refeed/internal/server"
)

var (
	flagListen    string
	flagPublicURL string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP merge endpoint",
	Long: `Start an HTTP server exposing GET /feed.

Pass one or more url query parameters and an optional format selector
(rss or json):

  curl 'http://localhost:8080/feed?url=https://example.com/a.xml&url=https://example.com/b.xml&format=json'

Per-source failures appear as placeholder items in a 200 response; only
a request without any url parameter is rejected.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := logger.New(cfg.GetLogLevel(), config.ExpandPath(cfg.LogFile))
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		listen := cfg.GetListen()
		if flagListen != "" {
			listen = flagListen
		}
		publicURL := cfg.PublicURL
		if flagPublicURL != "" {
			publicURL = flagPublicURL
		}

		srv := server.New(server.Options{
			Fetcher:     fetcher,
			Logger:      log,
			PublicURL:   publicURL,
			MaxSources:  cfg.GetMaxSources(),
			CacheMaxAge: cfg.GetCacheMaxAge(),
		})

		log.Info("listening", zap.String("addr", listen))
		if err := srv.Start(listen); err != nil {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagListen, "listen", "", "listen address (default from config, else :8080)")
	serveCmd.Flags().StringVar(&flagPublicURL, "public-url", "", "external base URL embedded in merged feed links")
	rootCmd.AddCommand(serveCmd)
}
