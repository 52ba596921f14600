// Package config loads the casebot configuration file.
package config

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// GatewayConfig points at the chat-gateway REST service.
type GatewayConfig struct {
	// BaseURL is the gateway's root URL.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// ChannelsConfig names the platform channels the bot writes to.
type ChannelsConfig struct {
	// Notifications receives due/overdue task alerts.
	Notifications string `mapstructure:"notifications" yaml:"notifications"`

	// CaseForum is the forum channel case mirror threads are created in.
	CaseForum string `mapstructure:"case_forum" yaml:"case_forum"`

	// ContactForum is the forum channel contact mirror threads are created in.
	ContactForum string `mapstructure:"contact_forum" yaml:"contact_forum"`
}

// TasksConfig tunes the deadline watcher.
type TasksConfig struct {
	// DueSoonHours is the lookahead window for "due soon" alerts.
	DueSoonHours int `mapstructure:"due_soon_hours" yaml:"due_soon_hours"`

	// PollIntervalMin is the poll period in minutes.
	PollIntervalMin int `mapstructure:"poll_interval_min" yaml:"poll_interval_min"`
}

// Config is the top-level application configuration.
type Config struct {
	// DatabasePath locates the SQLite database file.
	DatabasePath string `mapstructure:"database_path" yaml:"database_path"`

	// Actor is the operator name recorded on audit log entries. Defaults
	// to the OS username.
	Actor string `mapstructure:"actor" yaml:"actor"`

	Gateway  GatewayConfig  `mapstructure:"gateway" yaml:"gateway"`
	Channels ChannelsConfig `mapstructure:"channels" yaml:"channels"`
	Tasks    TasksConfig    `mapstructure:"tasks" yaml:"tasks"`
}

// Window returns the due-soon lookahead as a duration.
func (c *Config) Window() time.Duration {
	return time.Duration(c.Tasks.DueSoonHours) * time.Hour
}

// PollInterval returns the poll period as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Tasks.PollIntervalMin) * time.Minute
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/casebot/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "casebot", "config.yaml")
}

func defaultConfig() *Config {
	actor := "operator"
	if u, err := user.Current(); err == nil && u.Username != "" {
		actor = u.Username
	}

	dbPath := "casebot.db"
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".config", "casebot", "casebot.db")
	}

	return &Config{
		DatabasePath: dbPath,
		Actor:        actor,
		Gateway:      GatewayConfig{BaseURL: "http://localhost:8090"},
		Tasks: TasksConfig{
			DueSoonHours:    24,
			PollIntervalMin: 5,
		},
	}
}

// Load reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("tasks.due_soon_hours", 24)
	v.SetDefault("tasks.poll_interval_min", 5)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}
