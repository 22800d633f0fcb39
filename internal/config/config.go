package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr          string
	LogLevel          string
	LogFormat         string
	ShutdownTimeout   time.Duration
	CORSAllowedOrigin string

	// Flood model training at startup.
	FloodSamples int
	FloodSeed    uint64

	// Hazard model artifacts and training data.
	HazardModelPath   string
	HazardEncoderPath string
	HazardDataPath    string
	HazardCacheSize   int

	// Prediction event publishing.
	EventsEnabled   bool
	KafkaBrokers    []string
	PredictionTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	floodSamples, err := strconv.Atoi(sharedcfg.EnvOrDefault("FLOOD_SAMPLES", "600"))
	if err != nil || floodSamples < 10 {
		return nil, errors.New("invalid FLOOD_SAMPLES: must be an integer >= 10")
	}

	floodSeed, err := strconv.ParseUint(sharedcfg.EnvOrDefault("FLOOD_SEED", "42"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid FLOOD_SEED: %w", err)
	}

	cfg := &Config{
		HTTPAddr:          sharedcfg.EnvOrDefault("HTTP_ADDR", ":5000"),
		LogLevel:          sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:         sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:   shutdownTimeout,
		CORSAllowedOrigin: sharedcfg.EnvOrDefault("CORS_ALLOWED_ORIGIN", "*"),

		FloodSamples: floodSamples,
		FloodSeed:    floodSeed,

		HazardModelPath:   sharedcfg.EnvOrDefault("HAZARD_MODEL_PATH", "hazard_model.pkl"),
		HazardEncoderPath: sharedcfg.EnvOrDefault("HAZARD_ENCODER_PATH", "hazard_label_encoder.pkl"),
		HazardDataPath:    sharedcfg.EnvOrDefault("HAZARD_DATA_PATH", "data/india_state_hazard_5000.csv"),
		HazardCacheSize:   parseHazardCacheSize(),

		EventsEnabled:   os.Getenv("PREDICTION_EVENTS_ENABLED") == "true",
		KafkaBrokers:    sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		PredictionTopic: sharedcfg.EnvOrDefault("PREDICTION_TOPIC", "flood-predictions"),
	}

	if cfg.EventsEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("PREDICTION_EVENTS_ENABLED is true but KAFKA_BROKERS is empty")
		}
		if cfg.PredictionTopic == "" {
			return nil, errors.New("PREDICTION_TOPIC is required when events are enabled")
		}
	}

	return cfg, nil
}

// parseHazardCacheSize returns HAZARD_CACHE_SIZE, 0 to disable caching, or the
// default of 1000 when unset or malformed.
func parseHazardCacheSize() int {
	if s := os.Getenv("HAZARD_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 0 {
			return n
		}
	}
	return 1000
}
