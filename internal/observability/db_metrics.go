package observability

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// Error classes the portal's schema can actually produce: unique on
// users.email, foreign keys from appointments.owner_id and
// refresh_tokens.user_id, NOT NULL on every appointment column, and the
// cancellation/contention classes any pgx caller can hit.
var pgErrClasses = map[string]string{
	"23505": "unique_violation",
	"23503": "fk_violation",
	"23502": "not_null_violation",
	"57014": "query_canceled",
	"40001": "contention",
	"40P01": "contention",
}

// ObserveDB times one logical store operation (insert, list-by-owner, ...)
// and counts its failures by class. Handlers wrap whole repo calls, not
// individual statements, so the op label stays low-cardinality.
func (p *Prom) ObserveDB(op string, fn func() error) error {
	start := time.Now()
	err := fn()

	status := "ok"

	if err != nil {
		status = "error"
		p.DbErrorsTotal.WithLabelValues(op, classifyDBErr(err)).Inc()
	}

	p.DbQueryDuration.WithLabelValues(op, status).Observe(time.Since(start).Seconds())

	return err
}

func classifyDBErr(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	}

	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) {
		if class, ok := pgErrClasses[pgErr.Code]; ok {
			return class
		}
		return "pg_" + pgErr.Code
	}

	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		return "timeout"
	case strings.Contains(msg, "connection"):
		return "connection"
	default:
		return "unknown"
	}
}
