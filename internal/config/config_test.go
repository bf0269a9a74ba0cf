package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalConfig = `
database:
  url: postgres://localhost:5432/redcrm
telegram:
  api_id: 12345
  api_hash: abcdef
`

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, minimalConfig)

	cfg, err := LoadConfig(path, true)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("unexpected log defaults: %+v", cfg.Log)
	}
	if cfg.HTTP.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.HTTP.Port)
	}
	if cfg.Dispatch.Workers != 4 {
		t.Errorf("workers = %d, want 4", cfg.Dispatch.Workers)
	}
	if cfg.Telegram.CacheTTL != time.Hour {
		t.Errorf("cache ttl = %v, want 1h", cfg.Telegram.CacheTTL)
	}
	if cfg.Telegram.CallTimeout != 30*time.Second {
		t.Errorf("call timeout = %v, want 30s", cfg.Telegram.CallTimeout)
	}
	if cfg.Telegram.SessionFile != "telegram.session" {
		t.Errorf("session file = %q", cfg.Telegram.SessionFile)
	}
	if cfg.Scheduler.ReminderInterval != time.Hour {
		t.Errorf("reminder interval = %v, want 1h", cfg.Scheduler.ReminderInterval)
	}
	if !cfg.Runtime.Dev {
		t.Error("dev flag should be carried into runtime config")
	}
}

func TestLoadConfig_ExplicitValues(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
  format: console
http:
  port: 9000
  api_key: secret
database:
  url: postgres://localhost:5432/redcrm
telegram:
  api_id: 12345
  api_hash: abcdef
  session_string: 1Apa...
  cache_ttl: 30m
  call_timeout: 10s
dispatch:
  workers: 8
scheduler:
  reminder_interval: 15m
`)

	cfg, err := LoadConfig(path, false)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Log.Level != "debug" || cfg.HTTP.Port != 9000 || cfg.HTTP.APIKey != "secret" {
		t.Errorf("unexpected values: %+v", cfg)
	}
	if cfg.Telegram.CacheTTL != 30*time.Minute {
		t.Errorf("cache ttl = %v, want 30m", cfg.Telegram.CacheTTL)
	}
	if cfg.Dispatch.Workers != 8 {
		t.Errorf("workers = %d, want 8", cfg.Dispatch.Workers)
	}
	if cfg.Scheduler.ReminderInterval != 15*time.Minute {
		t.Errorf("reminder interval = %v", cfg.Scheduler.ReminderInterval)
	}
}

func TestLoadConfig_RequiredFields(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{"Missing Database URL", `
telegram:
  api_id: 12345
  api_hash: abcdef
`},
		{"Missing Telegram Credentials", `
database:
  url: postgres://localhost:5432/redcrm
`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.content)
			if _, err := LoadConfig(path, false); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadConfig_FileMissing(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), false); err == nil {
		t.Error("expected error for a missing file")
	}
}
