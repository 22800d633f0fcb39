package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/couchcryptid/flood-hazard-service/internal/config"
)

func TestNewMetricsForTesting_Independent(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	a.Predictions.WithLabelValues("flood", "success").Inc()
	a.HazardModelAvailable.Set(1)

	assert.InDelta(t, 1, testutil.ToFloat64(a.Predictions.WithLabelValues("flood", "success")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(b.Predictions.WithLabelValues("flood", "success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(a.HazardModelAvailable), 0)
}

func TestNewLogger(t *testing.T) {
	logger := NewLogger(&config.Config{LogLevel: "warn", LogFormat: "text"})
	assert.NotNil(t, logger)
	assert.False(t, logger.Enabled(t.Context(), -4), "debug is below warn")
}
