// Package webhook exposes the bot over HTTP for webhook-mode deployments.
package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	tgmodels "github.com/go-telegram/bot/models"

	"github.com/akerbs/pocket-accountant-bot/internal/logger"
)

// UpdateProcessor consumes decoded Telegram updates.
type UpdateProcessor interface {
	ProcessUpdate(ctx context.Context, update *tgmodels.Update)
}

// Pinger reports database liveness for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server is the HTTP front for webhook mode: the Telegram update endpoint
// plus a health check.
type Server struct {
	httpServer *http.Server
	processor  UpdateProcessor
	db         Pinger
}

// New builds a Server listening on addr with the update endpoint at path.
func New(addr, path string, processor UpdateProcessor, db Pinger) *Server {
	s := &Server{processor: processor, db: db}

	mux := http.NewServeMux()
	mux.HandleFunc(path, s.handleUpdate)
	mux.HandleFunc("/healthz", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Start blocks serving HTTP until Shutdown or a listener error.
func (s *Server) Start() error {
	logger.Log.Info().Str("addr", s.httpServer.Addr).Msg("Webhook server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests within the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
		return
	}

	var update tgmodels.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		logger.Log.Warn().Err(err).Msg("Failed to decode webhook update")
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "malformed update"})
		return
	}

	s.processor.ProcessUpdate(r.Context(), &update)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(r.Context()); err != nil {
		logger.Log.Error().Err(err).Msg("Health check database ping failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "degraded"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Log.Warn().Err(err).Msg("Failed to write response")
	}
}
