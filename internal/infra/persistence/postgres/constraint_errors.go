package postgres

import (
	"strings"

	domainerrors "rentalhub/internal/domain/errors"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Helper functions for constraint error checking. Errors arrive translated
// because Configure enables TranslateError on every connection.
func isUniqueConstraintViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func isForeignKeyConstraintViolation(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated)
}

func isNotNullConstraintViolation(err error) bool {
	// Check error message for not null constraint violation patterns (PostgreSQL 23502, SQLite NOT NULL)
	errMsg := strings.ToLower(err.Error())

	return strings.Contains(errMsg, "null value") ||
		strings.Contains(errMsg, "not null") ||
		strings.Contains(errMsg, "23502")
}

func isCheckConstraintViolation(err error) bool {
	return errors.Is(err, gorm.ErrCheckConstraintViolated)
}

// escapeLike escapes LIKE wildcards so user input matches literally with ESCAPE '\'.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// containsPattern builds a case-insensitive substring pattern for LOWER(col) LIKE ? ESCAPE '\'.
func containsPattern(s string) string {
	return "%" + escapeLike(strings.ToLower(strings.TrimSpace(s))) + "%"
}

// writeError converts a failed insert/update into a domain error. Unique
// violations are handled by each repository because the message depends on the resource.
func writeError(err error, resource, op string) error {
	if isNotNullConstraintViolation(err) || isCheckConstraintViolation(err) || isForeignKeyConstraintViolation(err) {
		return domainerrors.BadRequest("Invalid " + resource + " data").WithDetails(err.Error())
	}

	return domainerrors.NewDatabaseExecuteError(err, op)
}
