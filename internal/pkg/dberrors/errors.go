package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation error
// for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	return hasCode(err, codeUniqueViolation, constraintName)
}

// IsForeignKeyError reports a foreign key violation on the named constraint.
func IsForeignKeyError(err error, constraintName string) bool {
	return hasCode(err, codeForeignKeyViolation, constraintName)
}

// IsCheckConstraintError reports a CHECK violation on the named constraint.
func IsCheckConstraintError(err error, constraintName string) bool {
	return hasCode(err, codeCheckViolation, constraintName)
}

func hasCode(err error, code, constraintName string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code && pgErr.ConstraintName == constraintName
}
