// Package config содержит логику чтения конфигурации шлюза витрины.
package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config содержит параметры конфигурации шлюза витрины.
type Config struct {
	RunAddress      string `env:"RUN_ADDRESS"`
	StoreAPIAddress string `env:"STORE_API_ADDRESS"`
	SessionDBPath   string `env:"SESSION_DB_PATH"`

	GuestEmail     string        `env:"GUEST_EMAIL" envDefault:"cliente@avjd.com"`
	GuestPassword  string        `env:"GUEST_PASSWORD" envDefault:"cliente123"`
	SearchDebounce time.Duration `env:"SEARCH_DEBOUNCE" envDefault:"500ms"`
	CatalogRefresh time.Duration `env:"CATALOG_REFRESH_INTERVAL" envDefault:"5m"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
// Переменные окружения имеют приоритет над флагами; .env подхватывается, если есть.
func Parse() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envStoreAPIAddress := cfg.StoreAPIAddress
	envSessionDBPath := cfg.SessionDBPath

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "address and port for HTTP server")
	flag.StringVar(&cfg.StoreAPIAddress, "r", "http://localhost:3000/api/v1", "store API base address")
	flag.StringVar(&cfg.SessionDBPath, "d", "storefront-session", "session database path")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envStoreAPIAddress != "" {
		cfg.StoreAPIAddress = envStoreAPIAddress
	}
	if envSessionDBPath != "" {
		cfg.SessionDBPath = envSessionDBPath
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = "localhost:8080"
	}

	return cfg, nil
}
