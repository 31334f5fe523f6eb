package sqldb

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// DBError keeps the driver error behind a store-level sentinel so callers can
// use errors.Is on the sentinel without seeing driver details.
type DBError struct {
	Sentinel error
	Cause    error
}

func (e *DBError) Error() string {
	return fmt.Sprintf("%v (cause: %v)", e.Sentinel, e.Cause)
}

func (e *DBError) Is(target error) bool { return errors.Is(e.Sentinel, target) }
func (e *DBError) Unwrap() error        { return e.Cause }

// isUniqueViolation recognizes unique constraint failures from every driver
// this package opens.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" // unique_violation
	}

	// modernc and libsql report SQLite constraint failures as text.
	s := err.Error()
	return strings.Contains(s, "UNIQUE constraint failed") ||
		strings.Contains(s, "SQLITE_CONSTRAINT_UNIQUE")
}

// mapUnique turns a unique violation into sentinel; other errors pass through.
func mapUnique(err error, sentinel error) error {
	if isUniqueViolation(err) {
		return &DBError{Sentinel: sentinel, Cause: err}
	}
	return err
}
