// ABOUTME: HTTP surface for the merge pipeline using echo
// ABOUTME: Query decoding, format selection, content types, and cache headers live here

package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/harper/refeed/internal/fetch"
	"github.com/harper/refeed/internal/merge"
	"github.com/harper/refeed/internal/render"
)

// Content types for the two output formats.
const (
	ContentTypeRSS      = "application/rss+xml; charset=utf-8"
	ContentTypeJSONFeed = "application/feed+json; charset=utf-8"
)

// Options configures the server around the core pipeline.
type Options struct {
	Fetcher     *fetch.Fetcher
	Logger      *zap.Logger
	PublicURL   string // external base URL, "" means derive from the request
	MaxSources  int
	CacheMaxAge int
}

// Server handles merge requests over HTTP.
type Server struct {
	echo *echo.Echo
	opts Options
}

// New wires routes and middleware.
func New(opts Options) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{echo: e, opts: opts}
	e.Use(middleware.Recover())
	e.Use(s.requestLogger)
	e.GET("/feed", s.handleFeed)
	e.GET("/healthz", s.handleHealth)
	return s
}

// requestLogger logs one line per request with zap.
func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		s.opts.Logger.Info("request",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.Int("status", c.Response().Status),
			zap.Duration("elapsed", time.Since(start)))
		return err
	}
}

// Start listens on addr until the process exits or the listener fails.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleFeed runs the full pipeline: decode sources, fan out, merge,
// serialize in the requested format. Per-source failures surface as
// placeholder items inside a 200 response; only an empty source list is
// a client error.
func (s *Server) handleFeed(c echo.Context) error {
	urls := sourceURLs(c.QueryParams()["url"])
	if len(urls) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "at least one url parameter is required")
	}
	if max := s.opts.MaxSources; max > 0 && len(urls) > max {
		return echo.NewHTTPError(http.StatusBadRequest, "too many source urls (limit "+strconv.Itoa(max)+")")
	}

	requestURL := s.requestURL(c)
	results := s.opts.Fetcher.ResolveAll(c.Request().Context(), urls)
	for _, res := range results {
		if res.Failed() {
			s.opts.Logger.Warn("source failed",
				zap.String("url", res.URL),
				zap.String("error", res.Err))
		}
	}
	merged := merge.Merge(results, requestURL)

	switch format(c.QueryParam("format")) {
	case "json":
		body, err := render.JSONFeed(merged, requestURL)
		if err != nil {
			s.opts.Logger.Error("json feed render failed", zap.Error(err))
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to render feed")
		}
		s.setCacheControl(c)
		return c.Blob(http.StatusOK, ContentTypeJSONFeed, []byte(body))
	default:
		body := render.RSS(merged, requestURL)
		s.setCacheControl(c)
		return c.Blob(http.StatusOK, ContentTypeRSS, []byte(body))
	}
}

func (s *Server) setCacheControl(c echo.Context) {
	if s.opts.CacheMaxAge > 0 {
		c.Response().Header().Set("Cache-Control", "public, max-age="+strconv.Itoa(s.opts.CacheMaxAge))
	}
}

// requestURL reconstructs the externally visible URL of this request,
// preferring the configured public base over whatever host the request
// arrived on.
func (s *Server) requestURL(c echo.Context) string {
	if s.opts.PublicURL != "" {
		return strings.TrimRight(s.opts.PublicURL, "/") + c.Request().URL.RequestURI()
	}
	scheme := c.Scheme()
	return scheme + "://" + c.Request().Host + c.Request().URL.RequestURI()
}

// sourceURLs flattens repeated url params, splitting comma-separated
// values inside a single parameter. Order is preserved: it decides the
// tie-break order of equal-timestamp items.
func sourceURLs(params []string) []string {
	var urls []string
	for _, p := range params {
		for _, u := range strings.Split(p, ",") {
			if u = strings.TrimSpace(u); u != "" {
				urls = append(urls, u)
			}
		}
	}
	return urls
}

// format normalizes the format selector; rss is the default.
func format(requested string) string {
	switch strings.ToLower(requested) {
	case "json", "jsonfeed":
		return "json"
	default:
		return "rss"
	}
}
