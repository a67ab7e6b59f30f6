package bot

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/NeverDieOne/train-bot/core/config"
	coredatabase "github.com/NeverDieOne/train-bot/core/database"
)

// ReminderConfig schedules the daily workout nudge.
type ReminderConfig struct {
	Enabled bool `yaml:"enabled" envconfig:"REMINDER_ENABLED"`
	Hour    int  `yaml:"hour" envconfig:"REMINDER_HOUR"`
	Minute  int  `yaml:"minute" envconfig:"REMINDER_MINUTE"`
}

// Config aggregates the shared runtime configuration with bot-specific parts.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Database coredatabase.Config `yaml:"database"`
	Reminder ReminderConfig      `yaml:"reminder"`
}

// CoreConfig exposes the embedded shared configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Config
}

// LoadConfig reads YAML configuration and applies environment overrides.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return nil, err
	}
	if err := normalizeReminder(&cfg.Reminder); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func normalizeReminder(r *ReminderConfig) error {
	if !r.Enabled {
		return nil
	}
	if r.Hour < 0 || r.Hour > 23 {
		return fmt.Errorf("reminder.hour must be within 0..23, got %d", r.Hour)
	}
	if r.Minute < 0 || r.Minute > 59 {
		return fmt.Errorf("reminder.minute must be within 0..59, got %d", r.Minute)
	}
	return nil
}
