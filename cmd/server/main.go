package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/vkoshelev/storerules/internal/api"
	"github.com/vkoshelev/storerules/internal/config"
	"github.com/vkoshelev/storerules/internal/engine"
	"github.com/vkoshelev/storerules/internal/handlers"
	"github.com/vkoshelev/storerules/internal/snapshot"
	"github.com/vkoshelev/storerules/internal/store"
	"github.com/vkoshelev/storerules/internal/telemetry"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		log = log.Level(level)
	}

	ctx := context.Background()
	st, err := store.NewStore(ctx, cfg.StoreType, cfg.DatabaseDSN, cfg.BaseCurrency)
	if err != nil {
		log.Fatal().Err(err).Msg("store init")
	}
	defer st.Close()

	// condition handlers
	registry := engine.NewRegistry()
	if err := handlers.RegisterBuiltins(registry, handlers.Deps{Currency: st}); err != nil {
		log.Fatal().Err(err).Msg("handler registration")
	}
	evaluator := engine.NewEvaluator(registry, log)

	// metrics
	telemetry.Init()
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		log.Info().Str("addr", cfg.MetricsAddr).Msg("metrics listening")
		if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
			log.Error().Err(err).Msg("metrics server")
		}
	}()

	// initial snapshot
	rules, err := st.GetAllRules(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("load rules")
	}
	snap := snapshot.BuildFromRules(rules)
	snapshot.Update(snap)
	telemetry.SnapshotRules.Set(float64(len(snap.Rules)))
	log.Info().Int("rules", len(snap.Rules)).Str("etag", snap.ETag).Msg("snapshot built")

	// API server with deps
	srvAPI := api.NewServer(st, evaluator, cfg.AdminAPIKey)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      srvAPI.Router(),
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("listening")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	ctxShut, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShut)
	log.Info().Msg("stopped")
}
