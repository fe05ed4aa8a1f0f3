// ABOUTME: HTTP fetching with format detection for JSON Feed, RSS/Atom, and HTML discovery
// ABOUTME: Every source resolves to a FetchResult; failures never escape as errors

package fetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/harper/refeed/internal/discover"
	"github.com/harper/refeed/internal/feed"
	"github.com/harper/refeed/internal/jsonfeed"
	"github.com/harper/refeed/internal/parse"
)

// acceptHeader favors JSON Feed so JSON-capable endpoints identify
// themselves on the first fetch.
const acceptHeader = "application/feed+json, application/json;q=0.9, application/rss+xml;q=0.8, */*;q=0.1"

// Config holds the immutable fetch settings. Construct once (Default,
// then adjust) and hand to New; the fetcher never mutates it.
type Config struct {
	UserAgent      string
	Timeout        time.Duration
	MaxBodySize    int64
	MaxConcurrency int

	// AllowPrivateHosts disables the private-IP guard, for tests
	// running against httptest servers on local addresses.
	AllowPrivateHosts bool
}

// Default returns the standard configuration. The user agent is always
// non-empty; some feed hosts answer default library agents with 429.
func Default() Config {
	return Config{
		UserAgent:      "refeed/1.0 (+https://github.com/harper/refeed)",
		Timeout:        30 * time.Second,
		MaxBodySize:    10 * 1024 * 1024,
		MaxConcurrency: 8,
	}
}

// Fetcher resolves source URLs into normalized feeds.
type Fetcher struct {
	cfg    Config
	client *http.Client
	parser *parse.Parser
}

// New builds a Fetcher from cfg.
func New(cfg Config) *Fetcher {
	return &Fetcher{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		parser: parse.New(cfg.UserAgent),
	}
}

// Resolve fetches url and normalizes whatever it finds: a JSON Feed, an
// RSS/Atom document, or an HTML page carrying an alternate feed link.
// Discovery recurses exactly one level, into ResolveNoDiscovery, so a
// discovered page can never trigger further discovery.
func (f *Fetcher) Resolve(ctx context.Context, sourceURL string) feed.FetchResult {
	result, body, contentType := f.attempt(ctx, sourceURL)
	if !result.Failed() {
		return result
	}

	if !isHTMLContentType(contentType) || len(body) == 0 {
		return result
	}

	base, err := url.Parse(sourceURL)
	if err != nil {
		return result
	}
	discovered, err := discover.Find(body, base)
	if err != nil {
		return result
	}
	return f.ResolveNoDiscovery(ctx, discovered)
}

// ResolveNoDiscovery fetches url as a feed document only: JSON Feed
// first, then RSS/Atom. No HTML discovery.
func (f *Fetcher) ResolveNoDiscovery(ctx context.Context, sourceURL string) feed.FetchResult {
	result, _, _ := f.attempt(ctx, sourceURL)
	return result
}

// attempt runs detection steps 1 and 2 and additionally returns the
// first response's body and content type so Resolve can hand them to
// discovery.
func (f *Fetcher) attempt(ctx context.Context, sourceURL string) (feed.FetchResult, []byte, string) {
	body, contentType, err := f.get(ctx, sourceURL)
	if err != nil {
		return feed.FetchResult{Err: err.Error(), URL: sourceURL}, nil, ""
	}

	if isJSONContentType(contentType) {
		doc, sniffErr := jsonfeed.Sniff(body)
		if sniffErr == nil && doc != nil {
			return feed.FetchResult{Feed: jsonfeed.Normalize(doc, sourceURL), URL: sourceURL}, body, contentType
		}
		// Valid JSON without a jsonfeed.org version, or broken JSON:
		// not a JSON Feed, fall through to the feed parser.
	}

	parsed, parseErr := f.parser.ParseURL(ctx, sourceURL)
	if parseErr != nil {
		return feed.FetchResult{Err: parseErr.Error(), URL: sourceURL}, body, contentType
	}
	return feed.FetchResult{Feed: parsed, URL: sourceURL}, body, contentType
}

// ResolveAll resolves every URL concurrently and returns results in
// input order. Each task catches at its own boundary, so the barrier
// always completes with one resolved outcome per source.
func (f *Fetcher) ResolveAll(ctx context.Context, urls []string) []feed.FetchResult {
	results := make([]feed.FetchResult, len(urls))

	var g errgroup.Group
	if f.cfg.MaxConcurrency > 0 {
		g.SetLimit(f.cfg.MaxConcurrency)
	}
	for i, u := range urls {
		g.Go(func() error {
			results[i] = f.Resolve(ctx, u)
			return nil
		})
	}
	// Tasks never return errors; Wait is purely the fan-in barrier.
	_ = g.Wait()
	return results
}

// get performs one GET with the configured user agent and Accept
// header, enforcing the body size cap.
func (f *Fetcher) get(ctx context.Context, sourceURL string) ([]byte, string, error) {
	parsedURL, err := url.Parse(sourceURL)
	if err != nil {
		return nil, "", fmt.Errorf("invalid URL: %w", err)
	}

	if !f.cfg.AllowPrivateHosts {
		if ips, lookupErr := net.LookupIP(parsedURL.Hostname()); lookupErr == nil {
			for _, ip := range ips {
				if isPrivateIP(ip) {
					return nil, "", fmt.Errorf("access to private IP ranges is not allowed")
				}
			}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", acceptHeader)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.cfg.MaxBodySize+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > f.cfg.MaxBodySize {
		return nil, "", fmt.Errorf("response too large (exceeds %d bytes)", f.cfg.MaxBodySize)
	}

	return body, resp.Header.Get("Content-Type"), nil
}

// isPrivateIP blocks private ranges while still allowing loopback, so
// local test servers work.
func isPrivateIP(ip net.IP) bool {
	if ip.IsLoopback() {
		return false
	}
	return ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast()
}

func isJSONContentType(contentType string) bool {
	contentType = strings.ToLower(contentType)
	return strings.Contains(contentType, "application/json") ||
		strings.Contains(contentType, "application/feed+json")
}

func isHTMLContentType(contentType string) bool {
	contentType = strings.ToLower(contentType)
	return strings.Contains(contentType, "text/html") ||
		strings.Contains(contentType, "application/xhtml")
}
