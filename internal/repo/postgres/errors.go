package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var ErrEmailAlreadyUsed = errors.New("email already in use")

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
