package repo

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when no row matches the given id. Callers
	// should treat this as an expected outcome, not a failure.
	ErrNotFound = errors.New("repo: user not found")

	// ErrNoFields is returned when a partial update supplies no fields.
	ErrNoFields = errors.New("repo: no fields to update")

	// ErrDuplicate is returned when the engine rejects a statement with a
	// unique constraint violation.
	ErrDuplicate = errors.New("repo: duplicate value")
)

func IsNotFound(err error) bool  { return errors.Is(err, ErrNotFound) }
func IsDuplicate(err error) bool { return errors.Is(err, ErrDuplicate) }

// mapErr translates driver-level errors into the repository's sentinels.
// Covers lib/pq (production) and SQLite (tests), which reports constraint
// failures only through the error text.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrDuplicate
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrDuplicate
	}
	return err
}
