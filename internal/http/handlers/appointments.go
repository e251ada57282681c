package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medicareplus/careportal/internal/config"
	"github.com/medicareplus/careportal/internal/domain/appointment"
	"github.com/medicareplus/careportal/internal/http/middlewares"
	"github.com/medicareplus/careportal/internal/queue"
)

// Keep these small so tests can fake them easily.
type AppointmentStore interface {
	Insert(ctx context.Context, req appointment.CreateAppointmentRequest) (appointment.Appointment, error)
	ListByOwner(ctx context.Context, ownerID string) ([]appointment.Appointment, error)
}

type ConfirmationEnqueuer interface {
	Enqueue(ctx context.Context, msg queue.BookingConfirmation) error
}

type AppointmentsHandler struct {
	store         AppointmentStore
	confirmations ConfirmationEnqueuer // optional; nil disables the pipeline
	log           *slog.Logger
}

func NewAppointmentsHandler(store AppointmentStore, confirmations ConfirmationEnqueuer, log *slog.Logger) *AppointmentsHandler {
	return &AppointmentsHandler{
		store:         store,
		confirmations: confirmations,
		log:           log,
	}
}

// Create books an appointment for the authenticated patient. The owner is
// always the verified identity on the context; a userId smuggled into the
// body is dropped during binding and can never end up on the record.
//
// The /apoint contract is the legacy one: 200 {success,data} or a bare
// 500 {error} with the failure message, no structured codes.
func (h *AppointmentsHandler) Create(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	var req appointment.CreateAppointmentRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		RespondLegacyFailure(ctx, "invalid request body")
		return
	}

	// force the verified identity as the owner
	req.OwnerID = userID

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	appt, err := h.store.Insert(cctx, req)

	if err != nil {
		// required-field and backend failures alike surface verbatim,
		// and nothing was persisted
		RespondLegacyFailure(ctx, err.Error())
		return
	}

	h.enqueueConfirmation(cctx, appt)

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    appt,
	})
}

// ListMine returns the caller's appointments, newest first, exactly as the
// store orders them.
func (h *AppointmentsHandler) ListMine(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	appts, err := h.store.ListByOwner(cctx, userID)

	if err != nil {
		RespondLegacyFailure(ctx, err.Error())
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    appts,
	})
}

// enqueueConfirmation is best effort: the booking already succeeded, so a
// queue outage only costs the courtesy notification.
func (h *AppointmentsHandler) enqueueConfirmation(ctx context.Context, appt appointment.Appointment) {
	if h.confirmations == nil {
		return
	}

	err := h.confirmations.Enqueue(ctx, queue.BookingConfirmation{
		AppointmentID: appt.ID,
		Email:         appt.Email,
		Name:          appt.Name,
		DoctorName:    appt.DoctorName,
		Specialist:    appt.Specialist,
		Date:          appt.Date,
		Time:          appt.Time,
		RequestedAt:   time.Now().UTC(),
	})

	if err != nil && h.log != nil {
		h.log.Warn("could not enqueue booking confirmation", "appointment_id", appt.ID, "err", err)
	}
}
