package config

import (
	"testing"
	"time"

	"github.com/i474232898/weather-lookup/internal/weather"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "k")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.OpenWeatherAPIKey != "k" {
		t.Errorf("expected api key k, got %q", cfg.OpenWeatherAPIKey)
	}
	if cfg.HTTPTimeout != 10*time.Second {
		t.Errorf("expected 10s timeout, got %v", cfg.HTTPTimeout)
	}
	if cfg.DefaultUnits != weather.UnitsMetric {
		t.Errorf("expected metric, got %s", cfg.DefaultUnits)
	}
	if cfg.HistoryLimit != 6 {
		t.Errorf("expected history limit 6, got %d", cfg.HistoryLimit)
	}
	if cfg.Store.Backend != "memory" {
		t.Errorf("expected memory store, got %s", cfg.Store.Backend)
	}
	if cfg.SessionTTL != 30*time.Minute || cfg.SessionSweepInterval != 5*time.Minute {
		t.Errorf("unexpected session timings %v / %v", cfg.SessionTTL, cfg.SessionSweepInterval)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Port)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DEFAULT_UNITS", "imperial")
	t.Setenv("STORE_BACKEND", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/x.db")
	t.Setenv("HISTORY_LIMIT", "3")
	t.Setenv("SESSION_TTL", "1h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DefaultUnits != weather.UnitsImperial || cfg.Store.SQLitePath != "/tmp/x.db" ||
		cfg.HistoryLimit != 3 || cfg.SessionTTL != time.Hour {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"HTTP_TIMEOUT", "soon"},
		{"DEFAULT_UNITS", "kelvin"},
		{"STORE_BACKEND", "etcd"},
		{"SESSION_SWEEP_INTERVAL", "5"},
		{"LOG_LEVEL", "trace"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}
