// Package api binds the task store to its HTTP surface: the JSON API under
// /api/tasks, the root liveness probe, and the embedded browser client.
package api

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"minitasks/internal/config"
	"minitasks/internal/logging"
	"minitasks/internal/task"
	"minitasks/internal/web"
)

// TaskStore is the persistence contract the API layer depends on. The
// concrete SQLite store satisfies it; tests substitute failing doubles.
type TaskStore interface {
	ListBySession(ctx context.Context, sessionID string) ([]task.Task, error)
	Create(ctx context.Context, sessionID, title string) (task.Task, error)
	Toggle(ctx context.Context, sessionID, taskID string) (task.Task, error)
	Delete(ctx context.Context, sessionID, taskID string) error
}

// Server serves the task API over HTTP.
type Server struct {
	cfg   *config.Config
	store TaskStore
	log   *zap.Logger
}

// NewServer wires a task store into an HTTP server using the given config.
func NewServer(cfg *config.Config, store TaskStore) *Server {
	return &Server{
		cfg:   cfg,
		store: store,
		log:   logging.Get(logging.CategoryAPI),
	}
}

// Handler returns the full route table wrapped in the CORS and request
// logging middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleHealth)
	mux.Handle("GET /app/", http.StripPrefix("/app/", web.Handler()))

	mux.HandleFunc("GET /api/tasks", s.handleList)
	mux.HandleFunc("POST /api/tasks", s.handleCreate)
	mux.HandleFunc("PATCH /api/tasks/{id}/toggle", s.handleToggle)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.handleDelete)

	return s.withCORS(s.withRequestLog(mux))
}

// Run starts the HTTP server and blocks until ctx is cancelled, then shuts
// down gracefully within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.GetReadTimeout(),
		WriteTimeout: s.cfg.GetWriteTimeout(),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.GetShutdownTimeout())
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// handleHealth is the plain liveness probe at the exact root path.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("Mini Tasks API is running"))
}
