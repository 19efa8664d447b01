package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration. Everything here is a
// server-side tunable; per-user preferences travel in the opaque config
// string instead.
type Config struct {
	Server struct {
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
		BaseURL string        `yaml:"base_url" json:"base_url" jsonschema:"description=Externally reachable base URL used in manifest and OAuth redirect links"`
	} `yaml:"server" json:"server" jsonschema:"description=Server configuration"`

	Trakt struct {
		APIURL       string        `yaml:"api_url" json:"api_url" jsonschema:"default=https://api.trakt.tv,description=Trakt API base URL"`
		AuthURL      string        `yaml:"auth_url" json:"auth_url" jsonschema:"default=https://trakt.tv,description=Trakt authorization base URL"`
		ClientID     string        `yaml:"client_id" json:"client_id" jsonschema:"required,description=Trakt application client id (can use environment variable)"`
		ClientSecret string        `yaml:"client_secret" json:"client_secret" jsonschema:"description=Trakt application client secret (can use environment variable)"`
		Timeout      time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=15s,description=Request timeout for trakt calls"`
	} `yaml:"trakt" json:"trakt" jsonschema:"description=Trakt API configuration"`

	Cache struct {
		TokenTTL  time.Duration `yaml:"token_ttl" json:"token_ttl" jsonschema:"default=5m,description=TTL for cached remote-store tokens"`
		StatsTTL  time.Duration `yaml:"stats_ttl" json:"stats_ttl" jsonschema:"default=30m,description=TTL for cached popularity stats"`
		RatingTTL time.Duration `yaml:"rating_ttl" json:"rating_ttl" jsonschema:"default=10m,description=TTL for cached user ratings"`
	} `yaml:"cache" json:"cache" jsonschema:"description=In-memory cache TTLs"`

	Session struct {
		RefreshEmbedded      bool          `yaml:"refresh_embedded" json:"refresh_embedded" jsonschema:"default=false,description=Refresh soon-to-expire tokens for embedded-storage configs (in-memory only)"`
		DisableRemoteRefresh bool          `yaml:"disable_remote_refresh" json:"disable_remote_refresh" jsonschema:"default=false,description=Disable proactive refresh for remote-stored tokens"`
		RefreshLookahead     time.Duration `yaml:"refresh_lookahead" json:"refresh_lookahead" jsonschema:"default=720h,description=Refresh tokens expiring within this window"`
	} `yaml:"session" json:"session" jsonschema:"description=Token refresh policy"`

	Actions struct {
		QueueSize     int           `yaml:"queue_size" json:"queue_size" jsonschema:"default=64,description=Background action queue buffer size"`
		RetryAttempts int           `yaml:"retry_attempts" json:"retry_attempts" jsonschema:"default=3,description=Attempts per background action"`
		RetryDelay    time.Duration `yaml:"retry_delay" json:"retry_delay" jsonschema:"default=2s,description=Initial backoff between attempts"`
		SettleDelay   time.Duration `yaml:"settle_delay" json:"settle_delay" jsonschema:"default=2s,description=Pause between dedup removal and re-add"`
		DecoyURL      string        `yaml:"decoy_url" json:"decoy_url" jsonschema:"description=Static media URL the action trigger always redirects to"`
	} `yaml:"actions" json:"actions" jsonschema:"description=Action dispatch configuration"`
}

// DefaultDecoyURL is the static media resource the action-trigger
// endpoint redirects to regardless of outcome.
const DefaultDecoyURL = "https://dl.strem.io/addon-assets/action-ok.mp4"

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()
	return &cfg, nil
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

func (c *Config) setDefaults() {
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 30 * time.Second
	}

	if c.Trakt.APIURL == "" {
		c.Trakt.APIURL = "https://api.trakt.tv"
	}
	if c.Trakt.AuthURL == "" {
		c.Trakt.AuthURL = "https://trakt.tv"
	}
	if c.Trakt.Timeout == 0 {
		c.Trakt.Timeout = 15 * time.Second
	}

	if c.Cache.TokenTTL == 0 {
		c.Cache.TokenTTL = 5 * time.Minute
	}
	if c.Cache.StatsTTL == 0 {
		c.Cache.StatsTTL = 30 * time.Minute
	}
	if c.Cache.RatingTTL == 0 {
		c.Cache.RatingTTL = 10 * time.Minute
	}

	if c.Session.RefreshLookahead == 0 {
		c.Session.RefreshLookahead = 30 * 24 * time.Hour
	}

	if c.Actions.QueueSize == 0 {
		c.Actions.QueueSize = 64
	}
	if c.Actions.RetryAttempts == 0 {
		c.Actions.RetryAttempts = 3
	}
	if c.Actions.RetryDelay == 0 {
		c.Actions.RetryDelay = 2 * time.Second
	}
	if c.Actions.SettleDelay == 0 {
		c.Actions.SettleDelay = 2 * time.Second
	}
	if c.Actions.DecoyURL == "" {
		c.Actions.DecoyURL = DefaultDecoyURL
	}
}

// GetServerConfig provides the server package with its listen address
// and timeout.
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetBaseURL returns the externally reachable base URL, defaulting to a
// localhost address derived from the listen spec.
func (c *Config) GetBaseURL() string {
	if c.Server.BaseURL != "" {
		return strings.TrimRight(c.Server.BaseURL, "/")
	}
	return "http://localhost" + c.Server.Listen
}

// GetDecoyURL returns the static media URL for action-trigger redirects.
func (c *Config) GetDecoyURL() string { return c.Actions.DecoyURL }
