package notifications

import "context"

type SendBookingConfirmationInput struct {
	AppointmentID string
	Email         string
	Name          string
	DoctorName    string
	Specialist    string
	Date          string
	Time          string
}

type Notifier interface {
	SendBookingConfirmation(ctx context.Context, input SendBookingConfirmationInput) error
}
