package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/flood-hazard-service/internal/domain"
	"github.com/couchcryptid/flood-hazard-service/internal/predict"
)

// HazardUnavailableMessage is the error body returned by the hazard endpoint
// when no hazard model is loaded.
const HazardUnavailableMessage = "Hazard model not available on server"

const maxBodyBytes = 1 << 20

// PredictionService is the application surface the HTTP layer depends on.
// It is implemented by *predict.Service.
type PredictionService interface {
	sharedobs.ReadinessChecker
	PredictFlood(ctx context.Context, f domain.FloodFeatures) (domain.FloodPrediction, error)
	PredictHazard(ctx context.Context, f domain.HazardFeatures) (domain.HazardPrediction, error)
	HazardAvailable() bool
	Reject(model, outcome string)
	Info() domain.ModelInfo
}

// Server exposes the prediction API alongside health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	svc        PredictionService
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the prediction routes and /healthz,
// /readyz, and /metrics. Every response carries CORS headers for allowedOrigin.
func NewServer(addr string, svc PredictionService, allowedOrigin string, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      withCORS(allowedOrigin, mux),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		svc:    svc,
		logger: logger,
	}

	mux.HandleFunc("GET /{$}", handleIndex)
	mux.HandleFunc("POST /api/predict", s.handleFloodPredict)
	mux.HandleFunc("POST /hazard_predict", s.handleHazardPredict)
	mux.HandleFunc("GET /api/model", s.handleModelInfo)
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(svc))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func handleIndex(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleFloodPredict(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r, domain.ModelFlood)
	if !ok {
		return
	}
	f, err := domain.ParseFloodRequest(body)
	if err != nil {
		s.writeInvalid(w, domain.ModelFlood, err)
		return
	}

	out, err := s.svc.PredictFlood(r.Context(), f)
	if err != nil {
		s.writeInternal(w, domain.ModelFlood, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) handleHazardPredict(w http.ResponseWriter, r *http.Request) {
	if !s.svc.HazardAvailable() {
		s.svc.Reject(domain.ModelHazard, predict.OutcomeUnavailable)
		writeError(w, http.StatusInternalServerError, HazardUnavailableMessage)
		return
	}

	body, ok := s.readBody(w, r, domain.ModelHazard)
	if !ok {
		return
	}
	f, err := domain.ParseHazardRequest(body)
	if err != nil {
		s.writeInvalid(w, domain.ModelHazard, err)
		return
	}

	out, err := s.svc.PredictHazard(r.Context(), f)
	if errors.Is(err, predict.ErrHazardUnavailable) {
		writeError(w, http.StatusInternalServerError, HazardUnavailableMessage)
		return
	}
	if err != nil {
		s.writeInternal(w, domain.ModelHazard, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) handleModelInfo(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, s.svc.Info())
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request, model string) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.svc.Reject(model, predict.OutcomeInvalid)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return nil, false
		}
		writeError(w, http.StatusBadRequest, "could not read request body")
		return nil, false
	}
	return body, true
}

type errorResponse struct {
	Error  string              `json:"error"`
	Fields []domain.FieldError `json:"fields,omitempty"`
}

func (s *Server) writeInvalid(w http.ResponseWriter, model string, err error) {
	s.svc.Reject(model, predict.OutcomeInvalid)
	resp := errorResponse{Error: err.Error()}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		resp.Fields = ve.Fields
	}
	sharedobs.WriteJSON(w, http.StatusBadRequest, resp)
}

func (s *Server) writeInternal(w http.ResponseWriter, model string, err error) {
	s.logger.Error("prediction failed", "model", model, "error", err)
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	sharedobs.WriteJSON(w, status, errorResponse{Error: msg})
}
