package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/tendant/simple-render-pipeline/internal/config"
	"github.com/tendant/simple-render-pipeline/internal/logging"
	"github.com/tendant/simple-render-pipeline/pkg/runner"
)

func main() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr, logger)
	}

	r, err := runner.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize runner")
	}
	defer r.Close()

	logger.Info().
		Str("task", cfg.Task).
		Int("samples", cfg.NumSamples).
		Int("resolution", cfg.Resolution).
		Int("fps", cfg.FPS).
		Float64("duration", cfg.Duration).
		Msg("starting generation run")

	summaries, err := r.Run(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("generation run failed")
	}

	total := 0
	for _, s := range summaries {
		logger.Info().
			Str("kind", s.Kind).
			Int("total", s.Total).
			Int("ok", s.Succeeded).
			Int("fail", s.Failed).
			Int("written", s.Written).
			Msg("task kind complete")
		total += s.Written
	}
	logger.Info().Int("records", total).Str("output", cfg.OutputDir).Msg("done")
}

func serveMetrics(addr string, logger *zerolog.Logger) {
	mux := chi.NewRouter()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})
	logger.Info().Str("addr", addr).Msg("metrics listener started")
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error().Err(err).Msg("metrics listener failed")
	}
}
