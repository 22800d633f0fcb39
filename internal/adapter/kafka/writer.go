package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/flood-hazard-service/internal/config"
	"github.com/couchcryptid/flood-hazard-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces prediction events to a Kafka topic.
// It implements predict.EventPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates an asynchronous Kafka producer for the configured
// prediction topic. Publish never blocks on the broker; delivery failures
// are reported through the logger.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &Writer{logger: logger}
	w.writer = &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.PredictionTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
		Async:        true,
		Completion:   w.complete,
	}
	return w
}

// Publish serializes ev and queues it for delivery.
func (w *Writer) Publish(ctx context.Context, ev domain.PredictionEvent) error {
	msg, err := serializeToMessage(ev)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// complete is called by the async writer once a batch is acknowledged or fails.
func (w *Writer) complete(msgs []kafkago.Message, err error) {
	if err == nil {
		w.logger.Debug("prediction events delivered", "count", len(msgs))
		return
	}
	for _, m := range msgs {
		w.logger.Error("prediction event delivery failed", "error", err, "event_id", string(m.Key))
	}
}

// serializeToMessage marshals a PredictionEvent into a Kafka message keyed by
// event ID.
func serializeToMessage(ev domain.PredictionEvent) (kafkago.Message, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize prediction event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(ev.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "model", Value: []byte(ev.Model)},
			{Key: "predicted_at", Value: []byte(ev.PredictedAt.Format(time.RFC3339))},
		},
	}, nil
}
