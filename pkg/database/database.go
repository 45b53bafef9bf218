// Package database owns the PostgreSQL pool behind the interaction
// dataset and the failure log.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/JaimeStill/drugx/pkg/lifecycle"
)

// ErrNotReady is returned when the pool cannot reach the server.
var ErrNotReady = errors.New("database not ready")

// System exposes the shared pool and ties it to the service lifecycle.
type System interface {
	Connection() *sql.DB
	// Ping checks the server within the configured connect timeout.
	Ping(ctx context.Context) error
	// Start verifies connectivity on startup and closes the pool on shutdown.
	Start(lc *lifecycle.Coordinator) error
}

type database struct {
	conn        *sql.DB
	logger      *slog.Logger
	connTimeout time.Duration
}

// New opens a lazy pool for cfg. No connection is attempted until Start
// or the first query.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	db, err := sql.Open("pgx", cfg.Dsn())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	return &database{
		conn:        db,
		logger:      logger.With("system", "database"),
		connTimeout: cfg.ConnTimeoutDuration(),
	}, nil
}

func (d *database) Connection() *sql.DB {
	return d.conn
}

func (d *database) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, d.connTimeout)
	defer cancel()

	if err := d.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrNotReady, err)
	}
	return nil
}

func (d *database) Start(lc *lifecycle.Coordinator) error {
	lc.OnStartup("database", func(ctx context.Context) error {
		if err := d.Ping(ctx); err != nil {
			d.logger.Error("database unreachable", "error", err)
			return err
		}

		stats := d.conn.Stats()
		d.logger.Info(
			"database ready",
			"max_open_conns", stats.MaxOpenConnections,
			"open", stats.OpenConnections,
		)
		return nil
	})

	lc.OnShutdown("database", func() {
		stats := d.conn.Stats()
		if err := d.conn.Close(); err != nil {
			d.logger.Error("database close failed", "error", err)
			return
		}
		d.logger.Info(
			"database closed",
			"wait_count", stats.WaitCount,
			"wait_duration", stats.WaitDuration,
		)
	})

	return nil
}
