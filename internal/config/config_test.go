package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultBroker = "localhost:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "*", cfg.CORSAllowedOrigin)
	assert.Equal(t, 600, cfg.FloodSamples)
	assert.Equal(t, uint64(42), cfg.FloodSeed)
	assert.Equal(t, "hazard_model.pkl", cfg.HazardModelPath)
	assert.Equal(t, "hazard_label_encoder.pkl", cfg.HazardEncoderPath)
	assert.Equal(t, "data/india_state_hazard_5000.csv", cfg.HazardDataPath)
	assert.Equal(t, 1000, cfg.HazardCacheSize)
	assert.False(t, cfg.EventsEnabled)
	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "flood-predictions", cfg.PredictionTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("CORS_ALLOWED_ORIGIN", "https://floodwatch.example")
	t.Setenv("FLOOD_SAMPLES", "1200")
	t.Setenv("FLOOD_SEED", "7")
	t.Setenv("HAZARD_MODEL_PATH", "/models/hazard_model.pkl")
	t.Setenv("HAZARD_ENCODER_PATH", "/models/hazard_label_encoder.pkl")
	t.Setenv("HAZARD_DATA_PATH", "/data/hazard.csv")
	t.Setenv("HAZARD_CACHE_SIZE", "50")
	t.Setenv("PREDICTION_EVENTS_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("PREDICTION_TOPIC", "custom-predictions")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "https://floodwatch.example", cfg.CORSAllowedOrigin)
	assert.Equal(t, 1200, cfg.FloodSamples)
	assert.Equal(t, uint64(7), cfg.FloodSeed)
	assert.Equal(t, "/models/hazard_model.pkl", cfg.HazardModelPath)
	assert.Equal(t, "/models/hazard_label_encoder.pkl", cfg.HazardEncoderPath)
	assert.Equal(t, "/data/hazard.csv", cfg.HazardDataPath)
	assert.Equal(t, 50, cfg.HazardCacheSize)
	assert.True(t, cfg.EventsEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-predictions", cfg.PredictionTopic)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_NegativeShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidFloodSamples(t *testing.T) {
	for _, v := range []string{"many", "0", "-5", "9"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("FLOOD_SAMPLES", v)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "FLOOD_SAMPLES")
		})
	}
}

func TestLoad_InvalidFloodSeed(t *testing.T) {
	t.Setenv("FLOOD_SEED", "-1")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FLOOD_SEED")
}

func TestLoad_HazardCacheSize(t *testing.T) {
	t.Setenv("HAZARD_CACHE_SIZE", "0")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Zero(t, cfg.HazardCacheSize, "0 disables the cache")

	t.Setenv("HAZARD_CACHE_SIZE", "lots")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.HazardCacheSize)
}

func TestLoad_EventsEnabledWithoutBrokers(t *testing.T) {
	t.Setenv("PREDICTION_EVENTS_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", " , ")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestLoad_EventsDisabledIgnoresKafka(t *testing.T) {
	t.Setenv("PREDICTION_EVENTS_ENABLED", "false")
	t.Setenv("PREDICTION_TOPIC", "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.EventsEnabled)
}
