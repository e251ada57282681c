package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medicareplus/careportal/internal/domain/appointment"
	"github.com/medicareplus/careportal/internal/http/handlers"
	"github.com/medicareplus/careportal/internal/queue"
)

// Make sure Gin does not spam the console during the test

func init() {
	gin.SetMode(gin.TestMode)
}

// Fake implementation of the handlers.AppointmentStore interface

type fakeAppointmentStore struct {
	insertFn func(ctx context.Context, req appointment.CreateAppointmentRequest) (appointment.Appointment, error)
	listFn   func(ctx context.Context, ownerID string) ([]appointment.Appointment, error)
}

func (f *fakeAppointmentStore) Insert(ctx context.Context, req appointment.CreateAppointmentRequest) (appointment.Appointment, error) {
	if f.insertFn != nil {
		return f.insertFn(ctx, req)
	}

	return appointment.Appointment{}, nil
}

func (f *fakeAppointmentStore) ListByOwner(ctx context.Context, ownerID string) ([]appointment.Appointment, error) {
	if f.listFn != nil {
		return f.listFn(ctx, ownerID)
	}

	return []appointment.Appointment{}, nil
}

type fakeEnqueuer struct {
	got []queue.BookingConfirmation
	err error
}

func (f *fakeEnqueuer) Enqueue(ctx context.Context, msg queue.BookingConfirmation) error {
	f.got = append(f.got, msg)
	return f.err
}

// small helper function which mounts one handler per test behind a fake
// identity middleware

func setupRouter(method, path, userID string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Handle(method, path, func(c *gin.Context) {
		if userID != "" {
			c.Set("auth.userID", userID)
		}
		c.Next()
	}, h)

	return r
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

const validBody = `{
	"name": "Jane Roe",
	"email": "jane@example.com",
	"phone": "555-0101",
	"doctorName": "Dr. Patel",
	"specialist": "Cardiology",
	"date": "2026-09-12",
	"time": "10:30",
	"symptom": "chest pain"
}`

func TestCreateAppointmentHandler(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name           string
		userID         string
		body           string
		storeSetUp     func(*fakeAppointmentStore)
		wantStatusCode int
		wantErrorBody  string
	}{
		{
			name:   "success",
			userID: "user-1",
			body:   validBody,
			storeSetUp: func(f *fakeAppointmentStore) {
				f.insertFn = func(ctx context.Context, req appointment.CreateAppointmentRequest) (appointment.Appointment, error) {
					if req.OwnerID != "user-1" {
						return appointment.Appointment{}, errors.New("owner not bound from identity")
					}
					a := appointment.NewFromCreateRequest(req)
					a.CreatedAt = now
					a.UpdatedAt = now
					return a, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			// a userId smuggled into the body must be ignored in favour of
			// the verified identity
			name:   "forged_owner_in_body_ignored",
			userID: "user-1",
			body: `{
				"userId": "someone-else",
				"name": "Jane Roe",
				"email": "jane@example.com",
				"phone": "555-0101",
				"doctorName": "Dr. Patel",
				"specialist": "Cardiology",
				"date": "2026-09-12",
				"time": "10:30",
				"symptom": "chest pain"
			}`,
			storeSetUp: func(f *fakeAppointmentStore) {
				f.insertFn = func(ctx context.Context, req appointment.CreateAppointmentRequest) (appointment.Appointment, error) {
					if req.OwnerID != "user-1" {
						return appointment.Appointment{}, errors.New("owner not bound from identity")
					}
					return appointment.NewFromCreateRequest(req), nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:   "missing_identity",
			userID: "",
			body:   validBody,
			storeSetUp: func(f *fakeAppointmentStore) {
				f.insertFn = func(ctx context.Context, req appointment.CreateAppointmentRequest) (appointment.Appointment, error) {
					return appointment.Appointment{}, errors.New("store should not be called")
				}
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:   "validation_error_surfaces_as_legacy_500",
			userID: "user-1",
			body:   `{"name": "Jane Roe"}`,
			storeSetUp: func(f *fakeAppointmentStore) {
				f.insertFn = func(ctx context.Context, req appointment.CreateAppointmentRequest) (appointment.Appointment, error) {
					return appointment.Appointment{}, req.ValidateRequired()
				}
			},
			wantStatusCode: http.StatusInternalServerError,
			wantErrorBody:  "email is required",
		},
		{
			name:   "store_error",
			userID: "user-1",
			body:   validBody,
			storeSetUp: func(f *fakeAppointmentStore) {
				f.insertFn = func(ctx context.Context, req appointment.CreateAppointmentRequest) (appointment.Appointment, error) {
					return appointment.Appointment{}, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
			wantErrorBody:  "db error",
		},
		{
			name:           "malformed_body",
			userID:         "user-1",
			body:           `{"name": `,
			wantStatusCode: http.StatusInternalServerError,
			wantErrorBody:  "invalid request body",
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			fakeStore := &fakeAppointmentStore{}

			if tt.storeSetUp != nil {
				tt.storeSetUp(fakeStore)
			}

			h := handlers.NewAppointmentsHandler(fakeStore, nil, testLogger())

			r := setupRouter(http.MethodPost, "/apoint/create", tt.userID, h.Create)

			req := httptest.NewRequest(http.MethodPost, "/apoint/create", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantStatusCode == http.StatusOK {
				var resp struct {
					Success bool                    `json:"success"`
					Data    appointment.Appointment `json:"data"`
				}

				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("unmarshal response: %v", err)
				}

				if !resp.Success {
					t.Fatalf("expected success=true, body=%s", w.Body.String())
				}

				if resp.Data.OwnerID != tt.userID {
					t.Fatalf("owner = %q, want %q", resp.Data.OwnerID, tt.userID)
				}
			}

			if tt.wantErrorBody != "" {
				var resp struct {
					Error string `json:"error"`
				}

				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("unmarshal error body: %v", err)
				}

				if !bytes.Contains([]byte(resp.Error), []byte(tt.wantErrorBody)) {
					t.Fatalf("error = %q, want it to contain %q", resp.Error, tt.wantErrorBody)
				}
			}
		})
	}
}

func TestCreateAppointmentEnqueuesConfirmation(t *testing.T) {
	store := &fakeAppointmentStore{
		insertFn: func(ctx context.Context, req appointment.CreateAppointmentRequest) (appointment.Appointment, error) {
			return appointment.NewFromCreateRequest(req), nil
		},
	}

	enq := &fakeEnqueuer{}

	h := handlers.NewAppointmentsHandler(store, enq, testLogger())

	r := setupRouter(http.MethodPost, "/apoint/create", "user-1", h.Create)

	req := httptest.NewRequest(http.MethodPost, "/apoint/create", bytes.NewBufferString(validBody))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	if len(enq.got) != 1 {
		t.Fatalf("expected one enqueued confirmation, got %d", len(enq.got))
	}

	if enq.got[0].Email != "jane@example.com" {
		t.Fatalf("confirmation email = %q", enq.got[0].Email)
	}
}

func TestCreateAppointmentEnqueueFailureStillSucceeds(t *testing.T) {
	store := &fakeAppointmentStore{
		insertFn: func(ctx context.Context, req appointment.CreateAppointmentRequest) (appointment.Appointment, error) {
			return appointment.NewFromCreateRequest(req), nil
		},
	}

	enq := &fakeEnqueuer{err: errors.New("redis down")}

	h := handlers.NewAppointmentsHandler(store, enq, testLogger())

	r := setupRouter(http.MethodPost, "/apoint/create", "user-1", h.Create)

	req := httptest.NewRequest(http.MethodPost, "/apoint/create", bytes.NewBufferString(validBody))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// the booking succeeded; a dead queue only costs the notification
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}
}

func TestListMineHandler(t *testing.T) {
	now := time.Now().UTC()

	mine := []appointment.Appointment{
		{ID: uuid.NewString(), Name: "Jane Roe", OwnerID: "user-1", CreatedAt: now},
		{ID: uuid.NewString(), Name: "Jane Roe", OwnerID: "user-1", CreatedAt: now.Add(-time.Hour)},
	}

	tests := []struct {
		name           string
		userID         string
		storeSetUp     func(*fakeAppointmentStore)
		wantStatusCode int
		wantCount      int
	}{
		{
			name:   "success",
			userID: "user-1",
			storeSetUp: func(f *fakeAppointmentStore) {
				f.listFn = func(ctx context.Context, ownerID string) ([]appointment.Appointment, error) {
					if ownerID != "user-1" {
						return nil, errors.New("wrong owner filter")
					}
					return mine, nil
				}
			},
			wantStatusCode: http.StatusOK,
			wantCount:      2,
		},
		{
			name:   "empty_owner_list",
			userID: "user-2",
			storeSetUp: func(f *fakeAppointmentStore) {
				f.listFn = func(ctx context.Context, ownerID string) ([]appointment.Appointment, error) {
					return []appointment.Appointment{}, nil
				}
			},
			wantStatusCode: http.StatusOK,
			wantCount:      0,
		},
		{
			name:           "missing_identity",
			userID:         "",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:   "store_error",
			userID: "user-1",
			storeSetUp: func(f *fakeAppointmentStore) {
				f.listFn = func(ctx context.Context, ownerID string) ([]appointment.Appointment, error) {
					return nil, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			fakeStore := &fakeAppointmentStore{}

			if tt.storeSetUp != nil {
				tt.storeSetUp(fakeStore)
			}

			h := handlers.NewAppointmentsHandler(fakeStore, nil, testLogger())

			r := setupRouter(http.MethodGet, "/apoint/my", tt.userID, h.ListMine)

			req := httptest.NewRequest(http.MethodGet, "/apoint/my", nil)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantStatusCode != http.StatusOK {
				return
			}

			var resp struct {
				Success bool                      `json:"success"`
				Data    []appointment.Appointment `json:"data"`
			}

			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal response: %v", err)
			}

			if len(resp.Data) != tt.wantCount {
				t.Fatalf("got %d records, want %d", len(resp.Data), tt.wantCount)
			}

			// an empty result must still serialize as [], never null
			if tt.wantCount == 0 && resp.Data == nil {
				t.Fatalf("data is null, want []")
			}
		})
	}
}
