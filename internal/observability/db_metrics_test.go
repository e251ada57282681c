package observability

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
)

func pgError(code string) error {
	return &pgconn.PgError{Code: code, Message: "boom"}
}

func TestClassifyDBErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"unique_email", pgError("23505"), "unique_violation"},
		{"owner_fk", pgError("23503"), "fk_violation"},
		{"missing_column_value", pgError("23502"), "not_null_violation"},
		{"statement_canceled", pgError("57014"), "query_canceled"},
		{"serialization", pgError("40001"), "contention"},
		{"deadlock", pgError("40P01"), "contention"},
		{"other_pg_code", pgError("42P01"), "pg_42P01"},
		{"ctx_deadline", context.DeadlineExceeded, "timeout"},
		{"ctx_canceled", context.Canceled, "canceled"},
		{"wrapped_ctx_deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), "timeout"},
		{"dial_failure", errors.New("failed to connect to host"), "connection"},
		{"anything_else", errors.New("boom"), "unknown"},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			if got := classifyDBErr(tt.err); got != tt.want {
				t.Fatalf("classifyDBErr(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestObserveDBPassesErrorThrough(t *testing.T) {
	p := NewProm(prometheus.NewRegistry())

	wantErr := pgError("23503")

	err := p.ObserveDB("appointments.insert", func() error { return wantErr })
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want the callback's error", err)
	}

	if err := p.ObserveDB("appointments.list_by_owner", func() error { return nil }); err != nil {
		t.Fatalf("err = %v, want nil", err)
	}
}
