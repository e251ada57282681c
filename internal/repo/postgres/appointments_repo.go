package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medicareplus/careportal/internal/domain/appointment"
	"github.com/medicareplus/careportal/internal/observability"
)

type AppointmentsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewAppointmentsRepo(pool *pgxpool.Pool, prom *observability.Prom) *AppointmentsRepo {
	return &AppointmentsRepo{
		pool: pool,
		prom: prom,
	}
}

func (repo *AppointmentsRepo) observe(op string, fn func() error) error {
	if repo.prom != nil {
		return repo.prom.ObserveDB(op, fn)
	}
	return fn()
}

// Insert persists a new appointment. Required-field presence is enforced
// here, before anything touches the database, so a rejected request never
// leaves a partial record behind.
func (repo *AppointmentsRepo) Insert(ctx context.Context, req appointment.CreateAppointmentRequest) (appt appointment.Appointment, err error) {
	if err = req.ValidateRequired(); err != nil {
		return
	}

	appt = appointment.NewFromCreateRequest(req)

	err = repo.observe("appointments.insert", func() error {
		_, e := repo.pool.Exec(ctx, `
			INSERT INTO appointments
				(id, owner_id, name, email, phone, doctor_name, specialist, visit_date, visit_time, symptom, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		`, appt.ID, appt.OwnerID, appt.Name, appt.Email, appt.Phone, appt.DoctorName,
			appt.Specialist, appt.Date, appt.Time, appt.Symptom, appt.CreatedAt, appt.UpdatedAt)
		return e
	})

	if err != nil {
		appt = appointment.Appointment{}
		return
	}

	return
}

// ListByOwner returns the owner's appointments, most recently created first.
// An unknown or empty owner yields an empty slice, never rows belonging to
// somebody else.
func (repo *AppointmentsRepo) ListByOwner(ctx context.Context, ownerID string) (appts []appointment.Appointment, err error) {
	appts = make([]appointment.Appointment, 0)

	if ownerID == "" {
		return
	}

	var rows pgx.Rows

	err = repo.observe("appointments.list_by_owner", func() error {
		rows, err = repo.pool.Query(ctx, `
			SELECT id, owner_id, name, email, phone, doctor_name, specialist, visit_date, visit_time, symptom, created_at, updated_at
			FROM appointments
			WHERE owner_id = $1
			ORDER BY created_at DESC, id DESC
		`, ownerID)
		return err
	})

	if err != nil {
		return
	}

	defer rows.Close()

	for rows.Next() {
		var a appointment.Appointment

		e := rows.Scan(&a.ID, &a.OwnerID, &a.Name, &a.Email, &a.Phone, &a.DoctorName,
			&a.Specialist, &a.Date, &a.Time, &a.Symptom, &a.CreatedAt, &a.UpdatedAt)

		if e != nil {
			err = e
			return
		}
		appts = append(appts, a)
	}

	e := rows.Err()

	if e != nil {
		if repo.prom != nil {
			repo.prom.DbErrorsTotal.WithLabelValues("appointments.list_by_owner", "rows_err").Inc()
		}
		err = e
		return
	}

	return
}
