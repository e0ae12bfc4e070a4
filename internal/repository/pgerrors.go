package repository

import (
	"errors"

	"github.com/lib/pq"
)

// Postgres SQLSTATE codes inspected by services.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgLockNotAvailable    = "55P03"
)

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	return hasCode(err, pgUniqueViolation)
}

// IsForeignKeyViolation reports whether err is a foreign key violation.
func IsForeignKeyViolation(err error) bool {
	return hasCode(err, pgForeignKeyViolation)
}

// IsLockNotAvailable reports whether err comes from a NOWAIT lock that could not be acquired.
func IsLockNotAvailable(err error) bool {
	return hasCode(err, pgLockNotAvailable)
}

func hasCode(err error, code string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == code
	}
	return false
}
