// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type HTTPConfig struct {
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"` // bearer token for the management API
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string `yaml:"url"` // empty: fall back to the in-process resolution cache
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// TelegramConfig holds MTProto credentials. Either session_string (a Telethon
// string session) or phone (interactive code login with a file-backed session)
// must be set for sends to ever succeed; SessionManager enforces that.
type TelegramConfig struct {
	APIID         int           `yaml:"api_id"`
	APIHash       string        `yaml:"api_hash"`
	SessionString string        `yaml:"session_string"`
	SessionFile   string        `yaml:"session_file"`
	Phone         string        `yaml:"phone"`
	CacheTTL      time.Duration `yaml:"cache_ttl"`    // phone -> user id cache TTL
	CallTimeout   time.Duration `yaml:"call_timeout"` // per network round trip bound
}

type DispatchConfig struct {
	Workers int `yaml:"workers"` // send workers, one telegram session each
}

type SchedulerConfig struct {
	ReminderInterval time.Duration `yaml:"reminder_interval"`
}

type Config struct {
	Log       LogConfig       `yaml:"log"`
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Dispatch  DispatchConfig  `yaml:"dispatch"`
	Scheduler SchedulerConfig `yaml:"scheduler"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 8080
	}
	if cfg.Dispatch.Workers <= 0 {
		cfg.Dispatch.Workers = 4
	}
	if cfg.Telegram.CacheTTL <= 0 {
		cfg.Telegram.CacheTTL = time.Hour
	}
	if cfg.Telegram.CallTimeout <= 0 {
		cfg.Telegram.CallTimeout = 30 * time.Second
	}
	if cfg.Telegram.SessionFile == "" {
		cfg.Telegram.SessionFile = "telegram.session"
	}
	if cfg.Scheduler.ReminderInterval <= 0 {
		cfg.Scheduler.ReminderInterval = time.Hour
	}

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Telegram.APIID == 0 || cfg.Telegram.APIHash == "" {
		return nil, errors.New("telegram.api_id and telegram.api_hash are required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
