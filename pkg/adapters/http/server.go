package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"

	"github.com/aretw0/fsmkit/internal/logging"
	"github.com/aretw0/fsmkit/pkg/domain"
	"github.com/aretw0/fsmkit/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// Server exposes a session manager over HTTP.
type Server struct {
	Sessions *session.Manager
	Streams  *StreamManager

	logger  *slog.Logger
	version string
	newID   func() string
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithVersion sets the version reported by GET /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// WithIDGenerator replaces the uuid generator used for new sessions.
func WithIDGenerator(fn func() string) Option {
	return func(s *Server) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewServer creates a Server for the manager.
func NewServer(sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		Sessions: sessions,
		Streams:  NewStreamManager(),
		logger:   logging.NewNop(),
		version:  "dev",
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams.logger = s.logger
	return s
}

// NewHandler creates a new HTTP handler for the session manager.
func NewHandler(sessions *session.Manager, opts ...Option) http.Handler {
	return NewServer(sessions, opts...).Routes()
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/table", s.GetTable)

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Post("/", s.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Post("/actions/{action}", s.Dispatch)
			r.Post("/undo", s.Undo)
			r.Post("/redo", s.Redo)
			r.Get("/events", s.SubscribeEvents)
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// TableResponse describes the transition table served by the manager.
type TableResponse struct {
	Initial     domain.StateID      `json:"initial"`
	States      []domain.StateID    `json:"states"`
	Transitions []domain.Transition `json:"transitions"`
}

// CreateSessionRequest is the optional body of POST /sessions.
type CreateSessionRequest struct {
	ID string `json:"id,omitempty"`
}

// ErrorResponse is the body of every failed request. Session is set when the
// request reached an existing session, so clients see the unchanged state.
type ErrorResponse struct {
	Error   string          `json:"error"`
	Session *session.Status `json:"session,omitempty"`
}

// GetHealth handles the GET /healthz request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "fsmkit-http",
		"version": s.version,
	})
}

// GetTable handles the GET /table request.
func (s *Server) GetTable(w http.ResponseWriter, r *http.Request) {
	table := s.Sessions.Table()
	s.writeJSON(w, http.StatusOK, TableResponse{
		Initial:     s.Sessions.Initial(),
		States:      table.States(),
		Transitions: table.Transitions(),
	})
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	sort.Strings(ids)
	s.writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

// CreateSession handles the POST /sessions request.
// The body is optional; without an id a uuid is generated.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var body CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		s.logger.Warn("CreateSession: Invalid request body", "err", err)
		return
	}
	if body.ID == "" {
		body.ID = s.newID()
	}

	status, err := s.Sessions.Start(r.Context(), body.ID)
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	s.writeJSON(w, http.StatusCreated, status)
}

// GetSession handles the GET /sessions/{id} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	status, err := s.Sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err, status)
		return
	}
	s.writeJSON(w, http.StatusOK, status)
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Dispatch handles the POST /sessions/{id}/actions/{action} request.
func (s *Server) Dispatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	action := domain.ActionID(chi.URLParam(r, "action"))
	status, err := s.Sessions.Dispatch(r.Context(), id, action)
	s.respond(w, r, id, status, err)
}

// Undo handles the POST /sessions/{id}/undo request.
func (s *Server) Undo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	status, err := s.Sessions.Undo(r.Context(), id)
	s.respond(w, r, id, status, err)
}

// Redo handles the POST /sessions/{id}/redo request.
func (s *Server) Redo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	status, err := s.Sessions.Redo(r.Context(), id)
	s.respond(w, r, id, status, err)
}

// respond writes the outcome of a state-changing request and broadcasts the
// new status to event subscribers.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, id string, status *session.Status, err error) {
	if err != nil {
		s.fail(w, r, err, status)
		return
	}
	if data, err := json.Marshal(status); err == nil {
		s.Streams.Broadcast(id, string(data))
	}
	s.writeJSON(w, http.StatusOK, status)
}

// StatusCode maps an engine error to an HTTP status.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidAction),
		errors.Is(err, domain.ErrNothingToUndo),
		errors.Is(err, domain.ErrNothingToRedo):
		return http.StatusConflict
	case errors.Is(err, domain.ErrEffectFailure):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, status *session.Status) {
	code := StatusCode(err)
	if code == http.StatusInternalServerError {
		s.logger.Error("Request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("Request rejected", "method", r.Method, "path", r.URL.Path, "status", code, "err", err)
	}
	s.writeJSON(w, code, ErrorResponse{Error: err.Error(), Session: status})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "err", err)
	}
}

// SubscribeEvents handles the GET /sessions/{id}/events request (SSE).
// Every successful dispatch, undo or redo on the session is pushed as its status.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	sessionID := chi.URLParam(r, "id")
	if _, err := s.Sessions.Get(r.Context(), sessionID); err != nil {
		s.fail(w, r, err, nil)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	s.logger.Info("SSE: Subscribing to Session Updates", "session_id", sessionID)
	ch, cancel := s.Streams.Subscribe(sessionID)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected", "session_id", sessionID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: status\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
