package config

import "github.com/caarlos0/env/v11"

// HotStoreConfig configures the ephemeral key/value + pub/sub store (C4).
type HotStoreConfig struct {
	RedisURL string `env:"REDIS_URL" envDefault:"redis://127.0.0.1:6379/0"`
}

func LoadHotStore() (HotStoreConfig, error) {
	var cfg HotStoreConfig
	err := env.Parse(&cfg)
	return cfg, err
}
