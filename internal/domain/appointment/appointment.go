package appointment

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Appointment is the persisted record. JSON tags follow the legacy wire
// shape the patient portal consumes (_id / userId).
type Appointment struct {
	ID         string    `json:"_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	DoctorName string    `json:"doctorName"`
	Specialist string    `json:"specialist"`
	Date       string    `json:"date"`
	Time       string    `json:"time"`
	Symptom    string    `json:"symptom"`
	OwnerID    string    `json:"userId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

var ErrValidation = errors.New("validation failed")

var ErrNotFound = errors.New("appointment not found")

// OwnerID is never bound from the body; it always comes from the verified
// identity on the request context.
type CreateAppointmentRequest struct {
	OwnerID    string `json:"-"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	DoctorName string `json:"doctorName"`
	Specialist string `json:"specialist"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Symptom    string `json:"symptom"`
}

// ValidateRequired enforces the schema-level required fields. It runs at the
// store boundary so a record missing any of them is never persisted.
func (req CreateAppointmentRequest) ValidateRequired() error {
	required := []struct {
		field string
		value string
	}{
		{"name", req.Name},
		{"email", req.Email},
		{"phone", req.Phone},
		{"doctorName", req.DoctorName},
		{"specialist", req.Specialist},
		{"date", req.Date},
		{"time", req.Time},
		{"symptom", req.Symptom},
	}

	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrValidation, f.field)
		}
	}

	if req.OwnerID == "" {
		return fmt.Errorf("%w: owner identity missing", ErrValidation)
	}

	return nil
}

// A factory to build an Appointment from the incoming DTO

func NewFromCreateRequest(req CreateAppointmentRequest) Appointment {
	now := time.Now().UTC()
	return Appointment{
		ID:         uuid.NewString(),
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		DoctorName: req.DoctorName,
		Specialist: req.Specialist,
		Date:       req.Date,
		Time:       req.Time,
		Symptom:    req.Symptom,
		OwnerID:    req.OwnerID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
