package database

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"

	apperrors "github.com/kbukum/lyrebird/errors"
)

// IsConnectionError reports whether err looks like a lost or refused connection.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	return containsAny(strings.ToLower(err.Error()),
		"connection refused",
		"connection reset",
		"broken pipe",
		"i/o timeout",
		"no route to host",
		"driver: bad connection",
		"database is locked",
	)
}

// IsNotFoundError reports whether err is GORM's record-not-found error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateError reports a unique constraint violation. Translated GORM
// errors are checked first, then the raw sqlite and postgres messages.
func IsDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return containsAny(strings.ToLower(err.Error()),
		"unique constraint failed",
		"duplicate key value",
	)
}

// IsForeignKeyError reports a foreign key violation.
func IsForeignKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return containsAny(strings.ToLower(err.Error()),
		"foreign key constraint failed",
		"violates foreign key constraint",
	)
}

// FromDatabase converts a database error to an AppError for resource.
func FromDatabase(err error, resource string) *apperrors.AppError {
	if err == nil {
		return nil
	}

	switch {
	case IsNotFoundError(err):
		return apperrors.NotFound(resource, "")
	case IsDuplicateError(err):
		return apperrors.AlreadyExists(
			fmt.Sprintf("A %s with these details already exists.", resource),
			http.StatusConflict,
		).WithCause(err)
	case IsForeignKeyError(err):
		return apperrors.InvalidInput(resource, "references a record that does not exist").WithCause(err)
	case IsConnectionError(err):
		return apperrors.New(apperrors.ErrCodeDatabaseError,
			"Database is temporarily unavailable. Please try again.",
			http.StatusServiceUnavailable,
		).WithCause(err)
	default:
		return apperrors.DatabaseError(err)
	}
}

func containsAny(s string, patterns ...string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
