// Package task defines the domain model for session-scoped to-do items.
//
// A session identifier is an opaque partition key generated by a client
// device. It is not an authentication credential: the only guarantee is
// that tasks created under one identifier are invisible to every other.
package task

import (
	"errors"
	"fmt"
	"time"
)

// Task is the unit of persisted work-item data, owned by exactly one session.
type Task struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Title     string    `json:"title"`
	IsDone    bool      `json:"isDone"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ErrNotFound reports that no task with the given id exists under the
// requesting session. A task owned by a different session is reported
// identically, so callers cannot probe for the existence of other
// sessions' tasks.
var ErrNotFound = errors.New("task not found")

// ValidationError reports malformed or missing client input. The API layer
// maps it to a 400 response with the message intact.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
