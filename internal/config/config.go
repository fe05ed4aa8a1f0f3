// ABOUTME: Configuration file handling for refeed
// ABOUTME: JSON config with XDG paths, ~ expansion, and defaulted accessors

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config stores refeed configuration. Zero values mean "use the
// default"; the Get* accessors apply defaults so a partial config file
// stays valid.
type Config struct {
	// UserAgent overrides the User-Agent sent on every fetch.
	UserAgent string `json:"user_agent,omitempty"`

	// TimeoutSeconds bounds each source fetch.
	TimeoutSeconds int `json:"timeout_seconds,omitempty"`

	// MaxSources caps how many source URLs one request may carry.
	MaxSources int `json:"max_sources,omitempty"`

	// Listen is the serve address, e.g. ":8080".
	Listen string `json:"listen,omitempty"`

	// PublicURL is the externally visible base URL embedded in merged
	// feed links, e.g. "https://feeds.example.com".
	PublicURL string `json:"public_url,omitempty"`

	// CacheMaxAge is the Cache-Control max-age in seconds for
	// successful responses.
	CacheMaxAge int `json:"cache_max_age,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty"`

	// LogFile, when set, also writes rotated logs to this path.
	LogFile string `json:"log_file,omitempty"`
}

// GetUserAgent returns the configured user agent or the default.
func (c *Config) GetUserAgent() string {
	if c.UserAgent == "" {
		return DefaultUserAgent
	}
	return c.UserAgent
}

// GetTimeout returns the per-fetch timeout.
func (c *Config) GetTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return DefaultHTTPTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// GetMaxSources returns the per-request source URL cap.
func (c *Config) GetMaxSources() int {
	if c.MaxSources <= 0 {
		return DefaultMaxSources
	}
	return c.MaxSources
}

// GetListen returns the serve address.
func (c *Config) GetListen() string {
	if c.Listen == "" {
		return DefaultListen
	}
	return c.Listen
}

// GetCacheMaxAge returns the response cache lifetime in seconds.
func (c *Config) GetCacheMaxAge() int {
	if c.CacheMaxAge <= 0 {
		return DefaultCacheMaxAge
	}
	return c.CacheMaxAge
}

// GetLogLevel returns the configured log level, defaulting to info.
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return "info"
	}
	return c.LogLevel
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "refeed", "config.json")
}

// Load reads config from disk. A missing file yields the zero config,
// which resolves entirely to defaults.
func Load() (*Config, error) {
	data, err := os.ReadFile(GetConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to disk, creating the directory if needed.
func (c *Config) Save() error {
	path := GetConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), DefaultDirPerms); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
