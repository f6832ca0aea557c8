// Package http exposes the dialog engine over a small JSON API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/counciltech/intake/internal/logging"
	"github.com/counciltech/intake/pkg/domain"
)

// Engine defines what the HTTP layer needs from the dialog engine.
type Engine interface {
	HandleMessage(ctx context.Context, userID, text string) (string, error)
	Snapshot(ctx context.Context, userID string) (*domain.Session, error)
	Result(ctx context.Context, userID string) (*domain.FinalResult, error)
}

// Server is the HTTP adapter.
type Server struct {
	engine  Engine
	logger  *slog.Logger
	metrics http.Handler
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetricsHandler mounts a scrape endpoint at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewHandler creates the HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	s := &Server{
		engine: engine,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/chat", s.chat)
	r.Get("/sessions/{userID}", s.getSession)
	r.Get("/results/{userID}", s.getResult)
	r.Get("/health", s.health)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return r
}

type chatRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

type chatResponse struct {
	Response   string             `json:"response"`
	Answers    map[string]string  `json:"answers"`
	Transcript []domain.Utterance `json:"transcript"`
}

type sessionResponse struct {
	CurrentNode string             `json:"current_node"`
	Answers     map[string]string  `json:"answers"`
	Transcript  []domain.Utterance `json:"transcript"`
}

func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	var body chatRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if body.UserID == "" || body.Message == "" {
		http.Error(w, "user_id and message are required", http.StatusBadRequest)
		return
	}

	reply, err := s.engine.HandleMessage(r.Context(), body.UserID, body.Message)
	if err != nil {
		s.logger.Error("turn failed", "user_id", body.UserID, "err", err)
		http.Error(w, "failed to process message", http.StatusInternalServerError)
		return
	}

	resp := chatResponse{Response: reply}
	if sess, err := s.engine.Snapshot(r.Context(), body.UserID); err == nil {
		resp.Answers = sess.Answers
		resp.Transcript = sess.Transcript
	}

	s.writeJSON(w, resp)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	sess, err := s.engine.Snapshot(r.Context(), userID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.logger.Error("failed to load session", "user_id", userID, "err", err)
		http.Error(w, "failed to load session", http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, sessionResponse{
		CurrentNode: sess.CurrentNode,
		Answers:     sess.Answers,
		Transcript:  sess.Transcript,
	})
}

func (s *Server) getResult(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	result, err := s.engine.Result(r.Context(), userID)
	if errors.Is(err, domain.ErrResultNotFound) {
		http.Error(w, "result not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.logger.Error("failed to load result", "user_id", userID, "err", err)
		http.Error(w, "failed to load result", http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, result)
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "err", err)
	}
}
