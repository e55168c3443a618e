package config

import (
	"fmt"
	"strings"
)

// Validate checks the config for errors.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.Server.MetricsPort <= 0 || cfg.Server.MetricsPort > 65535 {
		errs = append(errs, "server.metricsPort must be between 1 and 65535")
	}

	if cfg.Slack.Enabled {
		if cfg.Slack.BotToken == "" {
			errs = append(errs, "slack.botToken is required when slack is enabled")
		}
		if cfg.Slack.AppToken == "" {
			errs = append(errs, "slack.appToken is required when slack is enabled")
		}
	}

	if cfg.Notion.BaseURL == "" {
		errs = append(errs, "notion.baseURL is required")
	}

	if cfg.Bot.Restricted && cfg.Bot.OwnerUserID == "" {
		errs = append(errs, "bot.ownerUserID is required when bot.restricted is set")
	}

	if cfg.Bot.BroadcastInterval <= 0 {
		errs = append(errs, "bot.broadcastInterval must be positive")
	}

	if cfg.Database.SQLite.Path == "" {
		errs = append(errs, "database.sqlite.path is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
