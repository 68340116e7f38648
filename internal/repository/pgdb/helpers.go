package pgdb

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

func pgErrorCode(err error) (string, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}

	return "", ""
}

func postgresDuplicate(err error) bool {
	code, _ := pgErrorCode(err)
	return code == uniqueViolation
}

// foreignKeyConstraint возвращает имя нарушенного внешнего ключа или пустую строку.
func foreignKeyConstraint(err error) string {
	code, constraint := pgErrorCode(err)
	if code != foreignKeyViolation {
		return ""
	}

	return constraint
}
