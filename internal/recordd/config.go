package recordd

import (
	pkgconfig "github.com/salman-113/storefront/pkg/config"
)

// Config holds all configuration for the record server.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"RECORDD_HTTP_PORT" envDefault:"5000" validate:"gte=1,lte=65535"`

	// Data file backing the store. Created on first write if missing.
	DataFile string `env:"RECORDD_DATA_FILE" envDefault:"db.json" validate:"required"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := pkgconfig.Load(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
