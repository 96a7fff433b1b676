package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// WorkerConfig tunes the Session Orchestrator's timing and concurrency
// behavior. Defaults mirror the values named throughout spec §4-§5.
type WorkerConfig struct {
	TZ string `env:"TZ" envDefault:"UTC"`

	MaxLobbySize         int `env:"MAX_LOBBY_SIZE" envDefault:"10"`
	PhaseFanout          int `env:"PHASE_FANOUT" envDefault:"8"`
	ClockTickToleranceMS int `env:"CLOCK_TICK_TOLERANCE_MS" envDefault:"250"`
	DBCallTimeoutMS      int `env:"DB_CALL_TIMEOUT_MS" envDefault:"5000"`
	HotStoreTimeoutMS    int `env:"HOTSTORE_CALL_TIMEOUT_MS" envDefault:"5000"`
	BroadcastQueueSize   int `env:"BROADCAST_QUEUE_SIZE" envDefault:"2048"`

	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
}

func LoadWorker() (WorkerConfig, error) {
	var cfg WorkerConfig
	if err := env.Parse(&cfg); err != nil {
		return WorkerConfig{}, err
	}
	if strings.ToUpper(strings.TrimSpace(cfg.TZ)) != "UTC" {
		return WorkerConfig{}, fmt.Errorf("TZ must be UTC, got %q", cfg.TZ)
	}
	return cfg, nil
}

func (c WorkerConfig) DBCallTimeout() time.Duration {
	return time.Duration(c.DBCallTimeoutMS) * time.Millisecond
}

func (c WorkerConfig) HotStoreTimeout() time.Duration {
	return time.Duration(c.HotStoreTimeoutMS) * time.Millisecond
}

func (c WorkerConfig) ClockTickTolerance() time.Duration {
	return time.Duration(c.ClockTickToleranceMS) * time.Millisecond
}
