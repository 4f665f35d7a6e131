// Package config provides YAML-based configuration loading for Doable.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level Doable configuration, loaded from doable.yaml.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Remind   RemindConfig   `yaml:"remind"`
	Timezone string         `yaml:"timezone"`
}

// DatabaseConfig selects the storage backend. The default is a local SQLite
// file; a MySQL-compatible server can be used instead for shared setups.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite or mysql
	Path   string `yaml:"path"`   // sqlite file path
	Host   string `yaml:"host"`   // mysql
	Port   int    `yaml:"port"`   // mysql
	Name   string `yaml:"name"`   // mysql database name
	User   string `yaml:"user"`   // mysql
}

// ServerConfig holds settings for the JSON API server.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// RemindConfig holds settings for the reminder digest daemon.
type RemindConfig struct {
	Schedule string        `yaml:"schedule"` // 5-field cron expression
	Notifier string        `yaml:"notifier"` // stdout, slack, or discord
	Slack    SlackConfig   `yaml:"slack"`
	Discord  DiscordConfig `yaml:"discord"`
}

// SlackConfig holds Slack delivery credentials.
type SlackConfig struct {
	BotToken string `yaml:"bot_token"`
	Channel  string `yaml:"channel"`
}

// DiscordConfig holds Discord delivery credentials.
type DiscordConfig struct {
	BotToken  string `yaml:"bot_token"`
	ChannelID string `yaml:"channel_id"`
}

// Load reads a YAML config file from path and returns a validated Config.
// A missing file is not an error: defaults apply.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Parse(nil)
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse: %w", err)
		}
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Location resolves the configured timezone, falling back to the system's
// local zone. Tag availability windows are evaluated in this location.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.Path == "" {
		c.Database.Path = "doable.db"
	}
	if c.Database.Host == "" {
		c.Database.Host = "127.0.0.1"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 3306
	}
	if c.Database.Name == "" {
		c.Database.Name = "doable"
	}
	if c.Database.User == "" {
		c.Database.User = "root"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Remind.Schedule == "" {
		c.Remind.Schedule = "0 8 * * *"
	}
	if c.Remind.Notifier == "" {
		c.Remind.Notifier = "stdout"
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	switch c.Database.Driver {
	case "sqlite", "mysql":
	default:
		errs = append(errs, fmt.Sprintf("database.driver %q is not supported (sqlite, mysql)", c.Database.Driver))
	}
	switch c.Remind.Notifier {
	case "stdout":
	case "slack":
		if c.Remind.Slack.BotToken == "" {
			errs = append(errs, "remind.slack.bot_token is required for the slack notifier")
		}
		if c.Remind.Slack.Channel == "" {
			errs = append(errs, "remind.slack.channel is required for the slack notifier")
		}
	case "discord":
		if c.Remind.Discord.BotToken == "" {
			errs = append(errs, "remind.discord.bot_token is required for the discord notifier")
		}
		if c.Remind.Discord.ChannelID == "" {
			errs = append(errs, "remind.discord.channel_id is required for the discord notifier")
		}
	default:
		errs = append(errs, fmt.Sprintf("remind.notifier %q is not supported (stdout, slack, discord)", c.Remind.Notifier))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
