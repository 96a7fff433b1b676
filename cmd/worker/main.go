package main

import (
	"context"
	"encoding/json"
	"expvar"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"silicon-casino/internal/aiclient"
	"silicon-casino/internal/broadcaster"
	"silicon-casino/internal/clock"
	"silicon-casino/internal/config"
	"silicon-casino/internal/distributor"
	"silicon-casino/internal/hotstore"
	"silicon-casino/internal/lobby"
	"silicon-casino/internal/logging"
	"silicon-casino/internal/phases"
	"silicon-casino/internal/relstore"
	"silicon-casino/internal/selector"
	"silicon-casino/internal/worker"
)

func main() {
	logCfg, err := config.LoadLog()
	if err != nil {
		panic(err)
	}
	logging.Init(logCfg)

	cfg, err := config.LoadApp()
	if err != nil {
		log.Fatal().Err(err).Msg("load config failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rel, err := relstore.New(ctx, cfg.Relational.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("relational store connect failed")
	}
	if err := rel.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("relational store ping failed")
	}

	hot, err := hotstore.Dial(cfg.HotStore.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("hot store dial failed")
	}
	if err := hot.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("hot store ping failed")
	}
	defer hot.Close()

	ai := aiclient.New(cfg.AI.BaseURL, cfg.AI.RequestTimeout())
	bc := broadcaster.New(ctx, hot, cfg.Worker.BroadcastQueueSize)
	lobbies := lobby.New(hot)
	dist := distributor.New(hot, lobbies)
	handlers := phases.New(lobbies, dist, ai, bc, cfg.AI.AgentID, cfg.Worker.MaxLobbySize, cfg.Worker.PhaseFanout)
	sel := selector.New(rel, hot, cfg.Worker.DBCallTimeout())
	loop := worker.New(sel, rel, clock.New(), handlers, cfg.Worker.DBCallTimeout())

	server := &http.Server{
		Addr:              cfg.Worker.HTTPAddr,
		Handler:           newAdminRouter(rel, hot),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Worker.HTTPAddr).Msg("admin http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("admin http server stopped")
		}
	}()

	loopErr := make(chan error, 1)
	go func() {
		loopErr <- loop.Run(ctx)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-loopErr:
		log.Error().Err(err).Msg("worker loop exited")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
}

func newAdminRouter(rel *relstore.Store, hot *hotstore.RedisStore) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.Get("/healthz", healthHandler(rel, hot))
	r.Get("/debug/vars", expvar.Handler().ServeHTTP)
	return r
}

func healthHandler(rel *relstore.Store, hot *hotstore.RedisStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]any{"ok": true}
		if err := rel.Ping(r.Context()); err != nil {
			status["ok"] = false
			status["relational"] = "down"
		}
		if err := hot.Ping(r.Context()); err != nil {
			status["ok"] = false
			status["hotstore"] = "down"
		}
		if status["ok"] != true {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(status)
	}
}
