package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/medicareplus/careportal/internal/domain/appointment"
)

// AppointmentsRepo is an in-memory stand-in for the Postgres store. It keeps
// the same insert/list semantics (owner filter, newest first) so handler and
// property tests can run without a database.
type AppointmentsRepo struct {
	mu    sync.RWMutex
	items map[string]appointment.Appointment
}

func NewAppointmentsRepo() *AppointmentsRepo {
	return &AppointmentsRepo{
		items: make(map[string]appointment.Appointment),
	}
}

func (r *AppointmentsRepo) Insert(ctx context.Context, req appointment.CreateAppointmentRequest) (appointment.Appointment, error) {
	if err := req.ValidateRequired(); err != nil {
		return appointment.Appointment{}, err
	}

	a := appointment.NewFromCreateRequest(req)

	r.mu.Lock()
	r.items[a.ID] = a
	r.mu.Unlock()

	return a, nil
}

func (r *AppointmentsRepo) ListByOwner(ctx context.Context, ownerID string) ([]appointment.Appointment, error) {
	out := make([]appointment.Appointment, 0)

	if ownerID == "" {
		return out, nil
	}

	r.mu.RLock()
	for _, a := range r.items {
		if a.OwnerID == ownerID {
			out = append(out, a)
		}
	}
	r.mu.RUnlock()

	// newest first; id breaks ties for same-instant inserts
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})

	return out, nil
}
