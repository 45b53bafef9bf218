// Package infrastructure assembles the systems every domain module
// shares: the lifecycle coordinator, the process logger, and the
// PostgreSQL pool.
package infrastructure

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/JaimeStill/drugx/internal/config"
	"github.com/JaimeStill/drugx/pkg/database"
	"github.com/JaimeStill/drugx/pkg/lifecycle"
)

type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
}

// New builds the shared systems without contacting the database.
func New(cfg *config.Config) (*Infrastructure, error) {
	logger := NewLogger(os.Stderr, cfg).With("env", cfg.Env())

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
		Database:  db,
	}, nil
}

// NewLogger writes cfg.LogFormat records at cfg.LogLevel to w.
func NewLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level()}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Start registers the database startup check and pool close.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	return nil
}
