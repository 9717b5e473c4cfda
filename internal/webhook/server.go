// Package webhook exposes the HTTP endpoint Telegram delivers updates to.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/gorilla/mux"

	"github.com/aether-community/aetherbot/internal/bot"
	"github.com/aether-community/aetherbot/internal/config"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
	maxBodyBytes      = 1 << 20
)

// Server is the webhook HTTP server. Every delivery is answered 200 with a
// JSON body; a non-200 answer would make Telegram retry a message we already
// acted on.
type Server struct {
	log    *slog.Logger
	router *bot.Router
	srv    *http.Server
}

// NewServer builds the webhook server around the command router.
func NewServer(cfg *config.Config, router *bot.Router, logger *slog.Logger) *Server {
	s := &Server{
		log:    logger.With("component", "webhook"),
		router: router,
	}

	m := mux.NewRouter()
	m.HandleFunc(cfg.Server.WebhookPath, s.handleUpdate).Methods(http.MethodPost)
	m.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	s.srv = &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           m,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return s
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Webhook server listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("webhook server failed: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.log.Info("Shutting down webhook server...")
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("webhook server shutdown failed: %w", err)
	}
	return <-errCh
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			s.log.Error("Panic while handling update", "panic", rec)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		}
	}()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.log.WarnContext(r.Context(), "Failed to read webhook body", "error", err)
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	var update models.Update
	if err := json.Unmarshal(body, &update); err != nil {
		// Malformed payloads are acknowledged so the platform stops retrying.
		s.log.WarnContext(r.Context(), "Ignoring undecodable update", "error", err)
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	s.router.HandleUpdate(r.Context(), &update)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
