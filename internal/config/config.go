package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir   string     `env:"SPA_DIR" envDefault:"../web/dist"`

	CountriesAPIURL string `env:"COUNTRIES_API_URL" envDefault:"https://restcountries.com/v3.1"`
	WorldBankAPIURL string `env:"WORLDBANK_API_URL" envDefault:"https://api.worldbank.org/v2/country"`

	CatalogTTL        time.Duration `env:"CATALOG_TTL" envDefault:"1h"`
	SelectMaxAttempts int           `env:"SELECT_MAX_ATTEMPTS" envDefault:"100"`
	UpstreamTimeout   time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"10s"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
