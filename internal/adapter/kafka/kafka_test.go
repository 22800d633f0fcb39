package kafka

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/flood-hazard-service/internal/config"
	"github.com/couchcryptid/flood-hazard-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2025, 7, 12, 4, 45, 0, 0, time.UTC)
	ev := domain.PredictionEvent{
		ID:          "flood-0123456789abcdef",
		Model:       domain.ModelFlood,
		Input:       json.RawMessage(`{"rain_mm":120}`),
		Output:      json.RawMessage(`{"severity_index":2}`),
		PredictedAt: now,
	}

	msg, err := serializeToMessage(ev)
	require.NoError(t, err)

	assert.Equal(t, []byte("flood-0123456789abcdef"), msg.Key)
	assert.JSONEq(t, `{
		"id": "flood-0123456789abcdef",
		"model": "flood",
		"input": {"rain_mm": 120},
		"output": {"severity_index": 2},
		"predicted_at": "2025-07-12T04:45:00Z"
	}`, string(msg.Value))
	assert.Len(t, msg.Headers, 2)
	assert.Equal(t, "model", msg.Headers[0].Key)
	assert.Equal(t, []byte("flood"), msg.Headers[0].Value)
	assert.Equal(t, "predicted_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)
}

func TestSerializeToMessage_InvalidRawJSON(t *testing.T) {
	_, err := serializeToMessage(domain.PredictionEvent{ID: "x", Input: json.RawMessage(`{broken`)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "serialize prediction event")
}

func TestNewWriter(t *testing.T) {
	cfg := &config.Config{KafkaBrokers: []string{"broker1:9092", "broker2:9092"}, PredictionTopic: "flood-predictions"}
	w := NewWriter(cfg, slog.Default())

	assert.Equal(t, "flood-predictions", w.writer.Topic)
	assert.True(t, w.writer.Async)
	assert.NotNil(t, w.writer.Completion)
	assert.Equal(t, "broker1:9092,broker2:9092", w.writer.Addr.String())
	require.NoError(t, w.Close())
}

func TestWriter_CompletionLogsFailures(t *testing.T) {
	var buf bytes.Buffer
	w := &Writer{logger: slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))}

	w.complete([]kafkago.Message{{Key: []byte("flood-a")}, {Key: []byte("flood-b")}}, errors.New("leader not available"))
	out := buf.String()
	assert.Contains(t, out, "event_id=flood-a")
	assert.Contains(t, out, "event_id=flood-b")
	assert.Contains(t, out, "leader not available")

	buf.Reset()
	w.complete([]kafkago.Message{{Key: []byte("flood-c")}}, nil)
	assert.Contains(t, buf.String(), "count=1")
}
