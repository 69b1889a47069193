// Package store provides SQLite-backed durable storage for session-scoped
// tasks.
//
// Every read and write is filtered by the caller's session identifier. A
// task that exists under a different session is reported as not found, so
// the store never leaks cross-session existence.
//
// Database configuration:
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: safe with WAL, much faster than FULL
//   - busy_timeout=5000: wait for locks up to 5 seconds
//
// Ordering uses the seq column (insertion clock), never timestamps, so
// newest-first listings are deterministic even for same-tick inserts.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"minitasks/internal/logging"
	"minitasks/internal/task"

	_ "github.com/mattn/go-sqlite3"
)

// TaskStore persists tasks in SQLite, partitioned by session identifier.
// Construct one at startup and pass it into the API layer; it is safe for
// concurrent use.
type TaskStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// New initializes the SQLite database at the given path and creates the
// schema if needed. Use ":memory:" for an ephemeral store in tests.
func New(path string) (*TaskStore, error) {
	log := logging.Get(logging.CategoryStore)
	log.Info("Initializing task store", zap.String("path", path))

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	for _, pragma := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			log.Debug("Pragma failed", zap.String("pragma", pragma), zap.Error(err))
		}
	}

	s := &TaskStore{db: db, dbPath: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	log.Info("Task store ready", zap.String("path", path))
	return s, nil
}

// initialize creates the required tables.
func (s *TaskStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tasks (
		seq        INTEGER PRIMARY KEY AUTOINCREMENT,
		id         TEXT NOT NULL UNIQUE,
		session_id TEXT NOT NULL,
		title      TEXT NOT NULL,
		is_done    BOOLEAN NOT NULL DEFAULT FALSE,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_tasks_session ON tasks(session_id);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create tasks table: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *TaskStore) Close() error {
	logging.Get(logging.CategoryStore).Info("Closing task store")
	return s.db.Close()
}

// ListBySession returns all tasks belonging to sessionID, newest first.
// An unknown session yields an empty slice, not an error.
func (s *TaskStore) ListBySession(ctx context.Context, sessionID string) ([]task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, title, is_done, created_at, updated_at
		 FROM tasks
		 WHERE session_id = ?
		 ORDER BY seq DESC`,
		sessionID,
	)
	if err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to list tasks",
			zap.String("session", sessionID), zap.Error(err))
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []task.Task{}
	for rows.Next() {
		var t task.Task
		if err := rows.Scan(&t.ID, &t.SessionID, &t.Title, &t.IsDone, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	logging.Get(logging.CategoryStore).Debug("Listed tasks",
		zap.String("session", sessionID), zap.Int("count", len(tasks)))
	return tasks, nil
}

// Create persists a new task for sessionID with isDone=false and returns it.
// The title is trimmed; an empty or whitespace-only title fails validation
// before the database is touched.
func (s *TaskStore) Create(ctx context.Context, sessionID, title string) (task.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return task.Task{}, task.NewValidationError("title", "is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	t := task.Task{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Title:     title,
		IsDone:    false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (id, session_id, title, is_done, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.SessionID, t.Title, t.IsDone, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to create task",
			zap.String("session", sessionID), zap.Error(err))
		return task.Task{}, fmt.Errorf("create task: %w", err)
	}

	logging.Get(logging.CategoryStore).Debug("Created task",
		zap.String("session", sessionID), zap.String("id", t.ID))
	return t, nil
}

// Toggle flips the isDone flag of the task with taskID under sessionID and
// returns the updated task. A missing task and a task owned by a different
// session both return task.ErrNotFound.
func (s *TaskStore) Toggle(ctx context.Context, sessionID, taskID string) (task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET is_done = NOT is_done, updated_at = ?
		 WHERE id = ? AND session_id = ?`,
		now, taskID, sessionID,
	)
	if err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to toggle task",
			zap.String("session", sessionID), zap.String("id", taskID), zap.Error(err))
		return task.Task{}, fmt.Errorf("toggle task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return task.Task{}, fmt.Errorf("toggle task: %w", err)
	}
	if n == 0 {
		return task.Task{}, task.ErrNotFound
	}

	var t task.Task
	err = s.db.QueryRowContext(ctx,
		`SELECT id, session_id, title, is_done, created_at, updated_at
		 FROM tasks WHERE id = ? AND session_id = ?`,
		taskID, sessionID,
	).Scan(&t.ID, &t.SessionID, &t.Title, &t.IsDone, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return task.Task{}, fmt.Errorf("reload task: %w", err)
	}

	logging.Get(logging.CategoryStore).Debug("Toggled task",
		zap.String("session", sessionID), zap.String("id", t.ID), zap.Bool("isDone", t.IsDone))
	return t, nil
}

// Delete permanently removes the task with taskID under sessionID. Same
// not-found semantics as Toggle; there is no soft delete.
func (s *TaskStore) Delete(ctx context.Context, sessionID, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = ? AND session_id = ?`,
		taskID, sessionID,
	)
	if err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to delete task",
			zap.String("session", sessionID), zap.String("id", taskID), zap.Error(err))
		return fmt.Errorf("delete task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if n == 0 {
		return task.ErrNotFound
	}

	logging.Get(logging.CategoryStore).Debug("Deleted task",
		zap.String("session", sessionID), zap.String("id", taskID))
	return nil
}

// CountBySession returns the number of tasks stored for sessionID.
func (s *TaskStore) CountBySession(ctx context.Context, sessionID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE session_id = ?`, sessionID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return count, nil
}
