package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// AIConfig configures the external decision-oracle HTTP client (C2).
type AIConfig struct {
	BaseURL          string `env:"AI_API_BASE_URL,required,notEmpty"`
	AgentID          string `env:"AI_AGENT_ID" envDefault:"default-agent"`
	RequestTimeoutMS int    `env:"AI_REQUEST_TIMEOUT_MS" envDefault:"30000"`
}

func LoadAI() (AIConfig, error) {
	var cfg AIConfig
	err := env.Parse(&cfg)
	return cfg, err
}

func (c AIConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}
