package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// RelationalConfig configures the connection to the authoritative
// sessions/rounds/players store (C5).
type RelationalConfig struct {
	DSN string `env:"POSTGRES_DSN"`

	PGHost     string `env:"PGHOST" envDefault:"localhost"`
	PGPort     string `env:"PGPORT" envDefault:"5432"`
	PGUser     string `env:"PGUSER" envDefault:"postgres"`
	PGPassword string `env:"PGPASSWORD"`
	PGDatabase string `env:"PGDATABASE" envDefault:"sessions"`
	PGSSLMode  string `env:"PGSSLMODE" envDefault:"disable"`
}

// LoadRelational loads the relational store config. When POSTGRES_DSN is
// unset it is assembled from the individual PG_* variables, per the
// worker's configuration surface.
func LoadRelational() (RelationalConfig, error) {
	var cfg RelationalConfig
	if err := env.Parse(&cfg); err != nil {
		return RelationalConfig{}, err
	}
	if strings.TrimSpace(cfg.DSN) == "" {
		cfg.DSN = fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=%s",
			cfg.PGUser, cfg.PGPassword, cfg.PGHost, cfg.PGPort, cfg.PGDatabase, cfg.PGSSLMode,
		)
	}
	return cfg, nil
}
