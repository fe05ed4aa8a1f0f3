// ABOUTME: Centralized configuration defaults for refeed
// ABOUTME: Contains magic numbers and hardcoded values for fetching and serving

package config

import "time"

// HTTP settings
const (
	DefaultHTTPTimeout = 30 * time.Second
	DefaultUserAgent   = "refeed/1.0 (+https://github.com/harper/refeed)"
	DefaultMaxSources  = 25
)

// Server settings
const (
	DefaultListen      = ":8080"
	DefaultCacheMaxAge = 600
)

// Filesystem settings
const (
	DefaultDirPerms = 0755
)
