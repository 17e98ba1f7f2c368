package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/weather-lookup/internal/prefs"
	"github.com/i474232898/weather-lookup/internal/store"
	"github.com/i474232898/weather-lookup/internal/weather"
)

type AppConfig struct {
	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string

	// HTTPTimeout bounds each outbound provider call.
	HTTPTimeout time.Duration

	DefaultUnits weather.Units
	HistoryLimit int

	Store store.Options

	// Sessions idle for longer than SessionTTL are dropped every
	// SessionSweepInterval.
	SessionTTL           time.Duration
	SessionSweepInterval time.Duration

	LogLevel string
	Port     string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.OpenWeatherBaseURL = getenvDefault("OPENWEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5")

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}

	cfg.DefaultUnits = weather.Units(getenvDefault("DEFAULT_UNITS", string(weather.UnitsMetric)))
	if !cfg.DefaultUnits.Valid() {
		return nil, fmt.Errorf("invalid DEFAULT_UNITS %q: want metric or imperial", cfg.DefaultUnits)
	}
	cfg.HistoryLimit = getenvInt("HISTORY_LIMIT", prefs.DefaultHistoryLimit)

	cfg.Store = store.Options{
		Backend:       getenvDefault("STORE_BACKEND", store.BackendMemory),
		SQLitePath:    getenvDefault("SQLITE_PATH", "weather.db"),
		RedisAddr:     getenvDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getenvInt("REDIS_DB", 0),
	}
	switch cfg.Store.Backend {
	case store.BackendMemory, store.BackendSQLite, store.BackendRedis:
	default:
		return nil, fmt.Errorf("invalid STORE_BACKEND %q", cfg.Store.Backend)
	}

	if cfg.SessionTTL, err = getenvDuration("SESSION_TTL", "30m"); err != nil {
		return nil, err
	}
	if cfg.SessionSweepInterval, err = getenvDuration("SESSION_SWEEP_INTERVAL", "5m"); err != nil {
		return nil, err
	}

	cfg.LogLevel = getenvDefault("LOG_LEVEL", "info")
	if cfg.LogLevel != "info" && cfg.LogLevel != "debug" {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: want info or debug", cfg.LogLevel)
	}
	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
