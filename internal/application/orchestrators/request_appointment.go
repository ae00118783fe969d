package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"diylab/internal/adapters/backend"
	"diylab/internal/domain/appointment"
	"diylab/internal/domain/submission"
)

// BackendForAppointment defines the backend surface needed by RequestAppointment.
type BackendForAppointment interface {
	RequestAppointment(ctx context.Context, a appointment.Appointment) error
}

// RequestAppointmentInput carries the form instance and its field values.
type RequestAppointmentInput struct {
	Machine *submission.Machine
	Fields  map[string]string
}

// RequestAppointmentDeps holds dependencies for RequestAppointment.
type RequestAppointmentDeps struct {
	Backend BackendForAppointment
}

// ExecuteRequestAppointment validates and submits an appointment request.
// A past date is rejected before any network call.
func ExecuteRequestAppointment(ctx context.Context, input RequestAppointmentInput, deps RequestAppointmentDeps) error {
	if err := submission.ValidateRequired(input.Fields, appointment.RequiredFields); err != nil {
		return err
	}

	when, err := time.Parse("2006-01-02", input.Fields["date"])
	if err != nil {
		return appointment.ErrPastDate
	}
	if when.Before(time.Now().Truncate(24 * time.Hour)) {
		return appointment.ErrPastDate
	}

	if err := input.Machine.Begin(); err != nil {
		return err
	}

	a := appointment.Appointment{
		Name:          input.Fields["name"],
		Email:         input.Fields["email"],
		Purpose:       input.Fields["purpose"],
		RequestedDate: when,
	}
	if err := deps.Backend.RequestAppointment(ctx, a); err != nil {
		_ = input.Machine.Fail(backend.UserMessage(err))
		slog.Info("form_event", "form", "appointment", "event", "submit_failed", "reason", err.Error())
		return err
	}

	_ = input.Machine.Succeed()
	slog.Info("form_event", "form", "appointment", "event", "submit_succeeded")
	return nil
}
