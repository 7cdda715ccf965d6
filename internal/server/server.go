// Package server exposes the prediction pipeline over HTTP: the inference
// endpoint itself plus the health, model-metrics, model-info, history and
// live-feed surfaces the UI consumes.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"diabetes-predict/internal/features"
	"diabetes-predict/internal/predict"
	"diabetes-predict/internal/storage"
)

// ModelInfo is the read-only artifact metadata the transport serves.
type ModelInfo interface {
	ModelName() string
	MetricsJSON() []byte
	Info() map[string]any
}

// Recorder receives transport-level metrics. May be nil.
type Recorder interface {
	MalformedRequestsInc()
	AuditErrorsInc()
	WSClientsAdd(delta float64)
}

// Config holds the transport settings.
type Config struct {
	Port         int
	CORSOrigin   string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server serves the prediction API.
type Server struct {
	svc      *predict.Service
	info     ModelInfo
	store    *storage.Store // nil disables the audit log and /history
	hub      *hub
	recorder Recorder
	server   *http.Server
}

// New assembles the HTTP server. store may be nil; recorder may be nil.
func New(cfg Config, svc *predict.Service, info ModelInfo, store *storage.Store, recorder Recorder) *Server {
	s := &Server{
		svc:      svc,
		info:     info,
		store:    store,
		hub:      newHub(recorder),
		recorder: recorder,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/predict", s.handlePredict)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/metrics", s.handleMetrics)
	mux.HandleFunc("/model/info", s.handleModelInfo)
	mux.HandleFunc("/history", s.handleHistory)
	mux.HandleFunc("/ws", s.hub.handleConnect)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      corsMiddleware(mux, cfg.CORSOrigin),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// Handler returns the fully wrapped handler, exposed for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start begins serving HTTP requests and blocks until shutdown.
func (s *Server) Start() error {
	log.Info().Str("addr", s.server.Addr).Msg("starting prediction server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server and closes live-feed connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.closeAll()
	return s.server.Shutdown(ctx)
}

// corsMiddleware mirrors the UI-facing CORS contract: permissive headers on
// every response and a blanket 200 for preflight requests.
func corsMiddleware(next http.Handler, origin string) http.Handler {
	if origin == "" {
		origin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")

		if r.Method == http.MethodOptions {
			writeJSON(w, http.StatusOK, map[string]any{})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed."})
		return
	}

	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil || raw == nil {
		if s.recorder != nil {
			s.recorder.MalformedRequestsInc()
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Request body must be JSON."})
		return
	}

	result, fieldErrs, err := s.svc.Predict(raw)
	if len(fieldErrs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"errors": features.Messages(fieldErrs),
		})
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("prediction failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Prediction failed."})
		return
	}

	s.audit(result)
	s.hub.broadcast(result)
	writeJSON(w, http.StatusOK, result)
}

// audit writes the served prediction to the audit log. Failures are logged
// and counted but never surfaced to the client.
func (s *Server) audit(result *predict.Result) {
	if s.store == nil {
		return
	}
	rec := storage.Record{
		Ts:              time.Now(),
		Input:           result.InputFeatures.Map(),
		Prediction:      result.Prediction,
		Diabetic:        result.Diabetic,
		Probability:     result.Probability,
		Confidence:      result.Confidence,
		ConfidenceScore: result.ConfidenceScore,
	}
	if err := s.store.StorePrediction(rec); err != nil {
		log.Warn().Err(err).Msg("audit write failed")
		if s.recorder != nil {
			s.recorder.AuditErrorsInc()
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"model":  s.info.ModelName(),
	})
}

// handleMetrics serves the training-time metrics descriptor verbatim.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(s.info.MetricsJSON()); err != nil {
		log.Error().Err(err).Msg("failed to write metrics response")
	}
}

func (s *Server) handleModelInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.info.Info())
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "History is not enabled."})
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer."})
			return
		}
		if n > 100 {
			n = 100
		}
		limit = n
	}

	records, err := s.store.Recent(limit)
	if err != nil {
		log.Error().Err(err).Msg("history read failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "History read failed."})
		return
	}
	if records == nil {
		records = []storage.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"predictions": records})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
