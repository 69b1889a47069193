package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"minitasks/internal/task"
)

// taskRequest is the JSON body accepted by the mutating endpoints.
type taskRequest struct {
	SessionID string `json:"sessionId"`
	Title     string `json:"title"`
}

// messageResponse is the envelope for non-entity responses.
type messageResponse struct {
	Message string `json:"message"`
}

// decodeBody parses an optional JSON request body. An empty body yields the
// zero request; a present but malformed body is an error.
func decodeBody(r *http.Request) (taskRequest, error) {
	var req taskRequest
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return req, err
	}
	if len(data) == 0 {
		return req, nil
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return req, err
	}
	return req, nil
}

// sessionID resolves the caller's session identifier. The query parameter
// is canonical and wins when both query and body carry one; the body value
// is accepted on mutating requests for compatibility with older clients.
func sessionID(r *http.Request, body taskRequest) string {
	if sid := r.URL.Query().Get("sessionId"); sid != "" {
		return sid
	}
	return body.SessionID
}

// handleList handles GET /api/tasks?sessionId=xxx.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	sid := r.URL.Query().Get("sessionId")
	if sid == "" {
		s.writeJSON(w, http.StatusBadRequest, messageResponse{Message: "sessionId is required"})
		return
	}

	tasks, err := s.store.ListBySession(r.Context(), sid)
	if err != nil {
		s.writeError(w, "fetching tasks", err)
		return
	}

	s.writeJSON(w, http.StatusOK, tasks)
}

// handleCreate handles POST /api/tasks with {sessionId, title}.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Invalid request body"})
		return
	}

	sid := sessionID(r, body)
	if sid == "" {
		s.writeJSON(w, http.StatusBadRequest, messageResponse{Message: "sessionId is required"})
		return
	}

	created, err := s.store.Create(r.Context(), sid, body.Title)
	if err != nil {
		s.writeError(w, "creating task", err)
		return
	}

	s.writeJSON(w, http.StatusCreated, created)
}

// handleToggle handles PATCH /api/tasks/{id}/toggle.
func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Invalid request body"})
		return
	}

	sid := sessionID(r, body)
	if sid == "" {
		s.writeJSON(w, http.StatusBadRequest, messageResponse{Message: "sessionId is required"})
		return
	}

	updated, err := s.store.Toggle(r.Context(), sid, r.PathValue("id"))
	if err != nil {
		s.writeError(w, "toggling task", err)
		return
	}

	s.writeJSON(w, http.StatusOK, updated)
}

// handleDelete handles DELETE /api/tasks/{id}.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Invalid request body"})
		return
	}

	sid := sessionID(r, body)
	if sid == "" {
		s.writeJSON(w, http.StatusBadRequest, messageResponse{Message: "sessionId is required"})
		return
	}

	if err := s.store.Delete(r.Context(), sid, r.PathValue("id")); err != nil {
		s.writeError(w, "deleting task", err)
		return
	}

	s.writeJSON(w, http.StatusOK, messageResponse{Message: "Task deleted"})
}

// writeError maps store errors onto HTTP responses. Validation failures and
// not-found results carry their own messages; everything else is logged in
// full and reported to the client as a generic server error.
func (s *Server) writeError(w http.ResponseWriter, op string, err error) {
	var verr *task.ValidationError
	switch {
	case errors.As(err, &verr):
		s.writeJSON(w, http.StatusBadRequest, messageResponse{Message: verr.Error()})
	case errors.Is(err, task.ErrNotFound):
		s.writeJSON(w, http.StatusNotFound, messageResponse{Message: "Task not found"})
	default:
		s.log.Error("Store failure", zap.String("op", op), zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "Server error"})
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("Failed to encode response", zap.Error(err))
	}
}
