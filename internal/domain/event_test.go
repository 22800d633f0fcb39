package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPredictionEvent(t *testing.T) {
	at := time.Date(2025, 7, 14, 6, 30, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(at))
	t.Cleanup(func() { SetClock(nil) })

	input := FloodFeatures{RainMM: 120, Rain3dMM: 260, RiverLevelM: 51.2, DangerLevelM: 50}
	output := FloodPrediction{SeverityIndex: 2, SeverityLabel: "High", TBAAlert: 1, ModelAccuracy: 0.94}

	evt, err := NewPredictionEvent(ModelFlood, input, output)
	require.NoError(t, err)

	assert.Equal(t, ModelFlood, evt.Model)
	assert.Equal(t, at, evt.PredictedAt)
	assert.True(t, strings.HasPrefix(evt.ID, "flood-"))
	assert.Contains(t, string(evt.Input), `"rain_mm":120`)
	assert.JSONEq(t, `{"severity_index":2,"severity_label":"High","tba_alert":1,"model_accuracy":0.94}`, string(evt.Output))

	again, err := NewPredictionEvent(ModelFlood, input, output)
	require.NoError(t, err)
	assert.Equal(t, evt.ID, again.ID, "same input at the same instant yields the same ID")
}

func TestNewPredictionEvent_MarshalError(t *testing.T) {
	_, err := NewPredictionEvent(ModelHazard, make(chan int), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "marshal prediction input")
}
