package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, cfg map[string]any) string {
	t.Helper()
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestRuntimeDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Backend != "json" || cfg.ReminderInterval != 10*time.Second {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if !cfg.DesktopNotifications || cfg.LogLevel != "info" || cfg.NotificationTitle != "Task reminder" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.DataDir == "" {
		t.Fatal("expected a default data dir")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, map[string]any{
		"data_dir":              dir,
		"backend":               "SQLite",
		"reminder_interval":     "30s",
		"desktop_notifications": false,
	})

	cfg, err := Load(New(), path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataDir != dir || cfg.Backend != "sqlite" || cfg.ReminderInterval != 30*time.Second || cfg.DesktopNotifications {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("missing keys must keep defaults: %+v", cfg)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, map[string]any{"log_level": "debug", "reminder_interval": "30s"})
	t.Setenv("BLINKDO_LOG_LEVEL", "error")
	t.Setenv("BLINKDO_REMINDER_INTERVAL", "1m")
	t.Setenv("BLINKDO_NOTIFICATION_TITLE", "Ping")

	cfg, err := Load(New(), path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogLevel != "error" || cfg.ReminderInterval != time.Minute || cfg.NotificationTitle != "Ping" {
		t.Fatalf("env must win over file: %+v", cfg)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("BLINKDO_BACKEND", "csv")
	if _, err := Load(New(), writeConfig(t, map[string]any{})); !errors.Is(err, ErrInvalidBackend) {
		t.Fatalf("expected ErrInvalidBackend, got %v", err)
	}
}

func TestLoadNonPositiveIntervalFallsBack(t *testing.T) {
	t.Setenv("BLINKDO_REMINDER_INTERVAL", "-5s")
	cfg, err := Load(New(), writeConfig(t, map[string]any{}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ReminderInterval != 10*time.Second {
		t.Fatalf("expected default interval, got %v", cfg.ReminderInterval)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(New(), filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}
