package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"diylab/internal/domain/appointment"
)

// BackendForAppointmentAdmin defines the backend surface needed by the
// appointment back-office actions.
type BackendForAppointmentAdmin interface {
	ScheduleAppointment(ctx context.Context, cookie, id string, at time.Time) error
	RejectAppointment(ctx context.Context, cookie, id string) error
	DeleteAppointment(ctx context.Context, cookie, id string) error
}

// ScheduleAppointmentInput identifies the appointment and the slot the
// admin chose. Appt is the admin's list copy.
type ScheduleAppointmentInput struct {
	Cookie string
	Appt   *appointment.Appointment
	At     time.Time
}

// ManageAppointmentDeps holds dependencies for the appointment actions.
type ManageAppointmentDeps struct {
	Backend BackendForAppointmentAdmin
}

// ExecuteScheduleAppointment confirms a pending appointment for a slot.
func ExecuteScheduleAppointment(ctx context.Context, input ScheduleAppointmentInput, deps ManageAppointmentDeps) error {
	if err := input.Appt.MarkScheduled(input.At); err != nil {
		return err
	}
	if err := deps.Backend.ScheduleAppointment(ctx, input.Cookie, input.Appt.ID, input.At); err != nil {
		input.Appt.Status = appointment.StatusPending
		input.Appt.ScheduledFor = time.Time{}
		slog.Info("admin_event", "event", "appointment_schedule_failed", "id", input.Appt.ID, "reason", err.Error())
		return err
	}
	slog.Info("admin_event", "event", "appointment_scheduled", "id", input.Appt.ID)
	return nil
}

// ExecuteRejectAppointment declines a pending appointment.
func ExecuteRejectAppointment(ctx context.Context, cookie string, appt *appointment.Appointment, deps ManageAppointmentDeps) error {
	if err := appt.MarkRejected(); err != nil {
		return err
	}
	if err := deps.Backend.RejectAppointment(ctx, cookie, appt.ID); err != nil {
		appt.Status = appointment.StatusPending
		slog.Info("admin_event", "event", "appointment_reject_failed", "id", appt.ID, "reason", err.Error())
		return err
	}
	slog.Info("admin_event", "event", "appointment_rejected", "id", appt.ID)
	return nil
}

// ExecuteDeleteAppointment removes an appointment record outright.
func ExecuteDeleteAppointment(ctx context.Context, cookie, id string, deps ManageAppointmentDeps) error {
	if err := deps.Backend.DeleteAppointment(ctx, cookie, id); err != nil {
		slog.Info("admin_event", "event", "appointment_delete_failed", "id", id, "reason", err.Error())
		return err
	}
	slog.Info("admin_event", "event", "appointment_deleted", "id", id)
	return nil
}
