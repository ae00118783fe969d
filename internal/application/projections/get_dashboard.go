package projections

import (
	"context"

	"diylab/internal/adapters/backend"
	"diylab/internal/domain/appointment"
)

// DashboardBackend defines the backend surface for the admin dashboard.
type DashboardBackend interface {
	AdminStats(ctx context.Context, cookie string) (backend.Stats, error)
	ListAppointments(ctx context.Context, cookie string) ([]appointment.Appointment, error)
}

// DashboardDeps holds dependencies for the dashboard projection.
type DashboardDeps struct {
	Backend DashboardBackend
}

// Dashboard is the shape the admin landing page renders.
type Dashboard struct {
	Stats               backend.Stats
	PendingAppointments []appointment.Appointment
}

// QueryDashboard fetches the counters and the pending appointment queue
// shown on the admin landing page.
func QueryDashboard(ctx context.Context, cookie string, deps DashboardDeps) (Dashboard, error) {
	stats, err := deps.Backend.AdminStats(ctx, cookie)
	if err != nil {
		return Dashboard{}, err
	}

	appts, err := deps.Backend.ListAppointments(ctx, cookie)
	if err != nil {
		return Dashboard{}, err
	}
	var pending []appointment.Appointment
	for _, a := range appts {
		if a.Status == appointment.StatusPending {
			pending = append(pending, a)
		}
	}

	return Dashboard{Stats: stats, PendingAppointments: pending}, nil
}
