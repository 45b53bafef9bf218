package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JaimeStill/drugx/pkg/lookup"
)

const (
	pgUniqueViolation      = "23505"
	pgConnectionException  = "08"
	pgInsufficientResource = "53"
	pgOperatorIntervention = "57"
)

// MapError translates database errors to domain errors.
//
// sql.ErrNoRows becomes notFoundErr and a unique violation becomes
// duplicateErr. Connection loss, timeouts, resource exhaustion, and
// server shutdown are wrapped with lookup.ErrUnavailable so callers can
// report the store as unavailable rather than the record as missing.
// Anything else is returned unchanged.
func MapError(err error, notFoundErr, duplicateErr error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return notFoundErr
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgUniqueViolation {
			return duplicateErr
		}
		if unavailableClass(pgErr.Code) {
			return fmt.Errorf("%w: %w", lookup.ErrUnavailable, err)
		}
		return err
	}

	if Unavailable(err) {
		return fmt.Errorf("%w: %w", lookup.ErrUnavailable, err)
	}

	return err
}

// Unavailable reports whether err means the database could not answer.
func Unavailable(err error) bool {
	var connErr *pgconn.ConnectError
	switch {
	case err == nil:
		return false
	case errors.As(err, &connErr),
		pgconn.Timeout(err),
		errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, context.DeadlineExceeded):
		return true
	}

	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && unavailableClass(pgErr.Code)
}

func unavailableClass(code string) bool {
	if len(code) < 2 {
		return false
	}
	switch code[:2] {
	case pgConnectionException, pgInsufficientResource, pgOperatorIntervention:
		return true
	}
	return false
}
