package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	httpadapter "github.com/couchcryptid/flood-hazard-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/flood-hazard-service/internal/adapter/kafka"
	"github.com/couchcryptid/flood-hazard-service/internal/config"
	"github.com/couchcryptid/flood-hazard-service/internal/flood"
	"github.com/couchcryptid/flood-hazard-service/internal/hazard"
	"github.com/couchcryptid/flood-hazard-service/internal/observability"
	"github.com/couchcryptid/flood-hazard-service/internal/predict"
)

func main() {
	// A missing .env is fine; the environment alone is enough.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Train the flood model on a fresh synthetic dataset. Without it the
	// service has nothing to serve.
	start := time.Now()
	samples := flood.Generate(cfg.FloodSamples, cfg.FloodSeed)
	floodModel, err := flood.Train(ctx, samples, flood.DefaultTrainOptions())
	if err != nil {
		logger.Error("flood model training failed", "error", err)
		stop()
		os.Exit(1) //nolint:gocritic // stop already called
	}
	metrics.FloodTrainingDuration.Set(time.Since(start).Seconds())
	logger.Info("flood model trained",
		"samples", len(samples),
		"accuracy", floodModel.Accuracy(),
		"duration", time.Since(start),
	)

	// The hazard model is optional: without artifacts the hazard endpoint
	// answers 500 and everything else keeps working.
	var hazardModel predict.HazardClassifier
	if p, err := hazard.Load(cfg.HazardModelPath, cfg.HazardEncoderPath); err != nil {
		logger.Warn("hazard model not available", "error", err,
			"model_path", cfg.HazardModelPath, "encoder_path", cfg.HazardEncoderPath)
	} else if cfg.HazardCacheSize > 0 {
		hazardModel = predict.NewCachedHazardClassifier(p, cfg.HazardCacheSize, metrics)
		logger.Info("hazard model loaded", "labels", p.Labels(), "cache_size", cfg.HazardCacheSize)
	} else {
		hazardModel = p
		logger.Info("hazard model loaded", "labels", p.Labels())
	}

	var events predict.EventPublisher
	var writer *kafkaadapter.Writer
	if cfg.EventsEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		events = writer
		logger.Info("prediction events enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.PredictionTopic)
	} else {
		logger.Info("prediction events disabled")
	}

	svc := predict.New(floodModel, hazardModel, events, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, cfg.CORSAllowedOrigin, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
