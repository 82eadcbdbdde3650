package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds everything a weekly report run needs.
type Config struct {
	Trello   TrelloConfig   `yaml:"trello"`
	Telegram TelegramConfig `yaml:"telegram"`
	Report   ReportConfig   `yaml:"report"`
	Log      LogConfig      `yaml:"log"`
}

type TrelloConfig struct {
	Key     string `yaml:"key"`
	Token   string `yaml:"token"`
	BoardID string `yaml:"board_id"`
}

type TelegramConfig struct {
	Token  string `yaml:"token"`
	ChatID string `yaml:"chat_id"`
}

type ReportConfig struct {
	Timezone   string `yaml:"timezone"`
	ArchiveDir string `yaml:"archive_dir"` // empty disables the xlsx archive
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load builds the configuration from defaults, an optional YAML file and
// environment variables, later layers overriding earlier ones.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Report: ReportConfig{
			Timezone: "Europe/Moscow",
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.Trello.Key = getEnvOrDefault("TRELLO_KEY", cfg.Trello.Key)
	cfg.Trello.Token = getEnvOrDefault("TRELLO_TOKEN", cfg.Trello.Token)
	cfg.Trello.BoardID = getEnvOrDefault("BOARD_ID", cfg.Trello.BoardID)
	cfg.Telegram.Token = getEnvOrDefault("TG_TOKEN", cfg.Telegram.Token)
	cfg.Telegram.ChatID = getEnvOrDefault("TG_CHAT_ID", cfg.Telegram.ChatID)
	cfg.Report.Timezone = getEnvOrDefault("TZ_NAME", cfg.Report.Timezone)
	cfg.Report.ArchiveDir = getEnvOrDefault("REPORT_ARCHIVE_DIR", cfg.Report.ArchiveDir)
	cfg.Log.Level = getEnvOrDefault("LOG_LEVEL", cfg.Log.Level)

	return cfg, nil
}

// Validate reports every missing required setting in a single error so a
// misconfigured run can be fixed in one pass.
func (c *Config) Validate() error {
	var missing []string

	if c.Trello.Key == "" {
		missing = append(missing, "TRELLO_KEY")
	}
	if c.Trello.Token == "" {
		missing = append(missing, "TRELLO_TOKEN")
	}
	if c.Trello.BoardID == "" {
		missing = append(missing, "BOARD_ID")
	}
	if c.Telegram.Token == "" {
		missing = append(missing, "TG_TOKEN")
	}
	if c.Telegram.ChatID == "" {
		missing = append(missing, "TG_CHAT_ID")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}

	if _, err := time.LoadLocation(c.Report.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Report.Timezone, err)
	}

	return nil
}

// Location resolves the configured report timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Report.Timezone)
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
