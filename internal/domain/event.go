package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Model names used in events, metrics and logs.
const (
	ModelFlood  = "flood"
	ModelHazard = "hazard"
)

// PredictionEvent records one successful prediction for downstream auditing.
type PredictionEvent struct {
	ID          string          `json:"id"`
	Model       string          `json:"model"`
	Input       json.RawMessage `json:"input"`
	Output      json.RawMessage `json:"output"`
	PredictedAt time.Time       `json:"predicted_at"`
}

// NewPredictionEvent builds an event for the given model, input and output,
// stamped with the package clock.
func NewPredictionEvent(model string, input, output any) (PredictionEvent, error) {
	in, err := json.Marshal(input)
	if err != nil {
		return PredictionEvent{}, fmt.Errorf("marshal prediction input: %w", err)
	}
	out, err := json.Marshal(output)
	if err != nil {
		return PredictionEvent{}, fmt.Errorf("marshal prediction output: %w", err)
	}
	at := clock.Now().UTC()
	return PredictionEvent{
		ID:          generateID(model, in, at),
		Model:       model,
		Input:       in,
		Output:      out,
		PredictedAt: at,
	}, nil
}

// generateID hashes model, input and timestamp into a short deterministic ID,
// so replaying the same event downstream is idempotent.
func generateID(model string, input []byte, at time.Time) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%d", model, input, at.UnixNano())
	sum := h.Sum(nil)
	return model + "-" + hex.EncodeToString(sum[:8])
}

// ModelInfo summarizes the models loaded by the service.
type ModelInfo struct {
	Flood  FloodModelInfo  `json:"flood"`
	Hazard HazardModelInfo `json:"hazard"`
}

// FloodModelInfo describes the trained flood severity model.
type FloodModelInfo struct {
	Accuracy     float64        `json:"accuracy"`
	Samples      int            `json:"samples"`
	TrainedAt    time.Time      `json:"trained_at"`
	Distribution map[string]int `json:"distribution"`
}

// HazardModelInfo describes the loaded hazard model, if any.
type HazardModelInfo struct {
	Available bool     `json:"available"`
	Labels    []string `json:"labels,omitempty"`
}
