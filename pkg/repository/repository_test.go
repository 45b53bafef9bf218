package repository_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JaimeStill/drugx/pkg/lookup"
	"github.com/JaimeStill/drugx/pkg/repository"
)

var (
	errNotFound  = errors.New("failed lookup not found")
	errDuplicate = errors.New("interaction pair already exists")
)

func TestMapErrorNil(t *testing.T) {
	got := repository.MapError(nil, errNotFound, errDuplicate)
	if got != nil {
		t.Errorf("MapError(nil) = %v, want nil", got)
	}
}

func TestMapErrorNotFound(t *testing.T) {
	got := repository.MapError(sql.ErrNoRows, errNotFound, errDuplicate)
	if !errors.Is(got, errNotFound) {
		t.Errorf("MapError(ErrNoRows) = %v, want %v", got, errNotFound)
	}
}

func TestMapErrorDuplicate(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505"}
	got := repository.MapError(pgErr, errNotFound, errDuplicate)
	if !errors.Is(got, errDuplicate) {
		t.Errorf("MapError(PgError 23505) = %v, want %v", got, errDuplicate)
	}
}

func TestMapErrorPassthrough(t *testing.T) {
	original := errors.New("some other error")
	got := repository.MapError(original, errNotFound, errDuplicate)
	if got != original {
		t.Errorf("MapError(other) = %v, want %v", got, original)
	}
}

func TestMapErrorPgNonDuplicate(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23503"}
	got := repository.MapError(pgErr, errNotFound, errDuplicate)
	if got != pgErr {
		t.Errorf("MapError(PgError 23503) should pass through, got %v", got)
	}
}

func TestMapErrorUnavailable(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"connection failure", &pgconn.PgError{Code: "08006"}},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}},
		{"too many connections", &pgconn.PgError{Code: "53300"}},
		{"deadline", fmt.Errorf("query ddinter: %w", context.DeadlineExceeded)},
		{"bad connection", driver.ErrBadConn},
		{"closed connection", sql.ErrConnDone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repository.MapError(tt.err, errNotFound, errDuplicate)
			if !errors.Is(got, lookup.ErrUnavailable) {
				t.Errorf("MapError(%v) = %v, want wrapped ErrUnavailable", tt.err, got)
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("MapError(%v) lost the original error", tt.err)
			}
		})
	}
}

func TestUnavailable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"no rows", sql.ErrNoRows, false},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"short code", &pgconn.PgError{Code: "0"}, false},
		{"canceled", context.Canceled, false},
		{"connection exception", &pgconn.PgError{Code: "08001"}, true},
		{"wrapped bad conn", fmt.Errorf("ping: %w", driver.ErrBadConn), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := repository.Unavailable(tt.err); got != tt.want {
				t.Errorf("Unavailable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
