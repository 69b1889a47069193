// Package logging provides a categorized zap logger registry for minitasks.
// Each subsystem logs through a named child of one shared root logger so a
// single level/format setting controls the whole process.
package logging

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/subsystem.
type Category string

const (
	CategoryBoot  Category = "boot"  // Startup, config, shutdown
	CategoryStore Category = "store" // Task store operations
	CategoryAPI   Category = "api"   // HTTP request handling
	CategoryWeb   Category = "web"   // Embedded client serving
)

var (
	mu      sync.RWMutex
	root    = zap.NewNop()
	loggers = make(map[Category]*zap.Logger)
)

// Init builds the root logger. level is one of debug, info, warn, error;
// format is json or console. Until Init is called every category logs to a
// no-op logger, which keeps tests quiet by default.
func Init(level, format string) error {
	cfg := zap.NewProductionConfig()
	if format == "console" {
		cfg = zap.NewDevelopmentConfig()
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	root = logger
	loggers = make(map[Category]*zap.Logger)
	return nil
}

// Get returns the named logger for a category.
func Get(c Category) *zap.Logger {
	mu.RLock()
	if l, ok := loggers[c]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[c]; ok {
		return l
	}
	l := root.Named(string(c))
	loggers[c] = l
	return l
}

// Sync flushes any buffered log entries. Call before process exit.
func Sync() error {
	mu.RLock()
	defer mu.RUnlock()
	return root.Sync()
}
