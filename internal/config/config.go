package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Slack    SlackConfig    `yaml:"slack"`
	Notion   NotionConfig   `yaml:"notion"`
	Bot      BotConfig      `yaml:"bot"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	MetricsPort     int           `yaml:"metricsPort"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

type SlackConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BotToken string `yaml:"botToken"`
	AppToken string `yaml:"appToken"`
	AckEmoji string `yaml:"ackEmoji"`
}

type NotionConfig struct {
	BaseURL    string        `yaml:"baseURL"`
	Version    string        `yaml:"version"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"maxRetries"`
}

type BotConfig struct {
	// Restricted limits the relay to the owner only.
	Restricted        bool          `yaml:"restricted"`
	OwnerUserID       string        `yaml:"ownerUserID"`
	BroadcastInterval time.Duration `yaml:"broadcastInterval"`
}

type DatabaseConfig struct {
	SQLite SQLiteConfig `yaml:"sqlite"`
}

type SQLiteConfig struct {
	Path              string `yaml:"path"`
	MaxOpenConns      int    `yaml:"maxOpenConns"`
	PragmaJournalMode string `yaml:"pragmaJournalMode"`
	PragmaBusyTimeout int    `yaml:"pragmaBusyTimeout"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads a YAML config file and returns a Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := expandEnvVars(string(data))

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			MetricsPort:     9090,
			ShutdownTimeout: 15 * time.Second,
		},
		Slack: SlackConfig{
			Enabled:  true,
			AckEmoji: "eyes",
		},
		Notion: NotionConfig{
			BaseURL:    "https://api.notion.com",
			Version:    "2022-06-28",
			Timeout:    30 * time.Second,
			MaxRetries: 3,
		},
		Bot: BotConfig{
			Restricted:        false,
			BroadcastInterval: 30 * time.Second,
		},
		Database: DatabaseConfig{
			SQLite: SQLiteConfig{
				Path:              "/data/relay-bot.db",
				MaxOpenConns:      1,
				PragmaJournalMode: "wal",
				PragmaBusyTimeout: 5000,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// expandEnvVars replaces ${VAR} patterns with environment variable values.
func expandEnvVars(s string) string {
	return os.Expand(s, func(key string) string {
		if val, ok := os.LookupEnv(key); ok {
			return val
		}
		return "${" + key + "}"
	})
}
