package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Content ContentConfig `yaml:"content"`
	Site    SiteConfig    `yaml:"site"`
	Server  ServerConfig  `yaml:"server"`
	Watch   WatchConfig   `yaml:"watch"`
	Notify  NotifyConfig  `yaml:"notify"`
	History HistoryConfig `yaml:"history"`
	Logging LoggingConfig `yaml:"logging"`
}

// ContentConfig locates the content tree and reference datasets.
type ContentConfig struct {
	PostsDir       string `yaml:"posts_dir"`
	CollectionsDir string `yaml:"collections_dir"`
	DataDir        string `yaml:"data_dir"`
	PublicDir      string `yaml:"public_dir"`
	DefaultLocale  string `yaml:"default_locale"`
	PageSize       int    `yaml:"page_size"` // posts per listing page, drives banner placement
}

// SiteConfig carries site-wide metadata surfaced by the API.
type SiteConfig struct {
	Title   string `yaml:"title"`
	BaseURL string `yaml:"base_url,omitempty"`
}

// ServerConfig configures the serve-mode HTTP server.
type ServerConfig struct {
	Host       string `yaml:"host,omitempty"`
	Port       int    `yaml:"port"`
	LiveReload bool   `yaml:"live_reload"`
}

// WatchConfig configures serve-mode rebuild triggers.
type WatchConfig struct {
	Enabled         bool          `yaml:"enabled"`
	Debounce        time.Duration `yaml:"debounce"`
	RebuildInterval time.Duration `yaml:"rebuild_interval,omitempty"` // 0 disables the periodic rebuild
}

// NotifyConfig configures build lifecycle event publishing over NATS.
type NotifyConfig struct {
	Enabled bool   `yaml:"enabled"`
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// HistoryConfig configures the build-history journal.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	DBPath  string `yaml:"db_path,omitempty"`
}

// LoggingConfig configures the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	if err := loadEnvFile(); err != nil {
		// Don't fail if .env doesn't exist, just note it
		fmt.Fprintf(os.Stderr, "Note: .env file not found or couldn't be loaded: %v\n", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Default returns a configuration populated with defaults only, without
// touching the filesystem. Used by commands that run against a bare content
// tree with no config file.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Content.PostsDir == "" {
		c.Content.PostsDir = "content/posts"
	}
	if c.Content.CollectionsDir == "" {
		c.Content.CollectionsDir = "content/collections"
	}
	if c.Content.DataDir == "" {
		c.Content.DataDir = "content/data"
	}
	if c.Content.PublicDir == "" {
		c.Content.PublicDir = "public"
	}
	if c.Content.DefaultLocale == "" {
		c.Content.DefaultLocale = "en"
	}
	if c.Content.PageSize == 0 {
		c.Content.PageSize = 8
	}
	if c.Site.Title == "" {
		c.Site.Title = "sitepipe"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8488
	}
	if c.Watch.Debounce == 0 {
		c.Watch.Debounce = 400 * time.Millisecond
	}
	if c.Notify.Subject == "" {
		c.Notify.Subject = "sitepipe.builds"
	}
	if c.History.DBPath == "" {
		c.History.DBPath = "sitepipe-builds.db"
	}
}
