package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Código de error de PostgreSQL que el paquete traduce a domain.ErrDuplicate.
const codeUniqueViolation = "23505"

// isUniqueViolation verifica si un error es una violación de constraint único.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}
