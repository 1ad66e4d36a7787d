// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
)

// SessionDependencies defines the interface for session lifecycle operations.
type SessionDependencies interface {
	CreateSession(ctx context.Context) (string, error)
}

// SessionsHandler handles session lifecycle requests.
type SessionsHandler struct {
	deps SessionDependencies
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps SessionDependencies) *SessionsHandler {
	return &SessionsHandler{deps: deps}
}

type sessionResponse struct {
	SessionID string `json:"session_id"`
}

// HandleCreateSession handles POST /api/sessions requests.
func (h *SessionsHandler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_session"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	id, err := h.deps.CreateSession(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{SessionID: id})
}
