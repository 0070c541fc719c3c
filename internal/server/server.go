// Package server exposes the prediction service over a small JSON API:
// POST /api/predict, GET /api/history, plus health and Prometheus metrics
// endpoints. It renders no HTML; formatting is left to clients.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"census-income/internal/predict"
	"census-income/internal/storage"
)

// Server provides the HTTP API for income predictions.
type Server struct {
	service *predict.Service
	store   *storage.Store // optional; history disabled when nil
	server  *http.Server
}

// PredictResponse is the body returned by POST /api/predict.
type PredictResponse struct {
	Status        string                  `json:"status"`
	Prediction    int                     `json:"prediction"`
	Label         string                  `json:"prediction_label"`
	Confidence    *float64                `json:"confidence,omitempty"`
	TopPredictors []predict.FeatureWeight `json:"top_predictors,omitempty"`
}

// HistoryResponse is the body returned by GET /api/history.
type HistoryResponse struct {
	Status string                     `json:"status"`
	Count  int                        `json:"count"`
	Data   []storage.PredictionRecord `json:"data"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// New creates the HTTP server on the given port.
func New(service *predict.Service, store *storage.Store, port int) *Server {
	s := &Server{service: service, store: store}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/predict", s.handlePredict)
	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// Handler exposes the route mux, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	log.Info().Str("addr", s.server.Addr).Msg("starting prediction server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request: %v", err)})
		return
	}

	// Validation runs before any model invocation and names the bad field.
	row, err := predict.ParseInput(payload)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	result, err := s.service.Predict(row)
	if err != nil {
		log.Error().Err(err).Msg("prediction failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	if s.store != nil {
		rec := storage.PredictionRecord{
			CreatedAt:  time.Now().UTC(),
			Input:      row,
			Label:      result.Label,
			Confidence: result.Confidence,
		}
		if err := s.store.Record(rec); err != nil {
			log.Warn().Err(err).Msg("failed to record prediction history")
		}
	}

	label := "<=50K"
	if result.Label == 1 {
		label = ">50K"
	}
	writeJSON(w, http.StatusOK, PredictResponse{
		Status:        "success",
		Prediction:    result.Label,
		Label:         label,
		Confidence:    result.Confidence,
		TopPredictors: result.TopPredictors,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}
	if s.store == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "prediction history is not enabled"})
		return
	}

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	records, err := s.store.Recent(limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, HistoryResponse{Status: "success", Count: len(records), Data: records})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if _, err := s.service.ModelName(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
