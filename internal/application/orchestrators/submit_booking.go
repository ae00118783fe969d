package orchestrators

import (
	"context"
	"log/slog"

	"diylab/internal/adapters/backend"
	"diylab/internal/domain/booking"
	"diylab/internal/domain/submission"
)

// BackendForBooking defines the backend surface needed by SubmitBooking.
type BackendForBooking interface {
	CreateBooking(ctx context.Context, b booking.Booking) error
}

// SubmitBookingInput carries the form instance and its raw field values.
type SubmitBookingInput struct {
	Machine *submission.Machine
	Fields  map[string]string
	Service string
}

// SubmitBookingDeps holds dependencies for SubmitBooking.
type SubmitBookingDeps struct {
	Backend BackendForBooking
}

// ExecuteSubmitBooking validates and submits a booking request.
// Validation happens before any state transition, so an incomplete form
// never reaches the network. Duplicate submits while one is in flight are
// rejected by the machine, so rapid double-clicks produce one backend call.
// POST: On nil return the machine is succeeded and the side effect is pending
func ExecuteSubmitBooking(ctx context.Context, input SubmitBookingInput, deps SubmitBookingDeps) error {
	if err := submission.ValidateRequired(input.Fields, booking.RequiredFields); err != nil {
		return err
	}
	when, err := booking.CombineDateTime(input.Fields["date"], input.Fields["time"])
	if err != nil {
		return err
	}

	if err := input.Machine.Begin(); err != nil {
		return err
	}

	b := booking.Booking{
		FirstName:   input.Fields["first_name"],
		LastName:    input.Fields["last_name"],
		Email:       input.Fields["email"],
		Phone:       input.Fields["phone"],
		ServiceName: input.Service,
		BookingDate: when,
	}
	if err := deps.Backend.CreateBooking(ctx, b); err != nil {
		_ = input.Machine.Fail(backend.UserMessage(err))
		slog.Info("form_event", "form", "booking", "event", "submit_failed", "reason", err.Error())
		return err
	}

	_ = input.Machine.Succeed()
	slog.Info("form_event", "form", "booking", "event", "submit_succeeded")
	return nil
}
