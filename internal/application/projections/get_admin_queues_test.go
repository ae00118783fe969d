package projections

import (
	"context"
	"testing"

	"diylab/internal/adapters/backend"
	"diylab/internal/domain/appointment"
	"diylab/internal/domain/feedback"
	"diylab/internal/domain/membership"
	"diylab/internal/domain/schoolvisit"
)

// mockQueuesBackend returns canned queues.
type mockQueuesBackend struct {
	memberships  []membership.Application
	appointments []appointment.Appointment
	visits       []schoolvisit.Visit
	feedback     []feedback.Feedback
	users        []backend.AdminUser
}

func (m *mockQueuesBackend) ListMembershipApplications(_ context.Context, cookie string) ([]membership.Application, error) {
	return m.memberships, nil
}

func (m *mockQueuesBackend) ListAppointments(_ context.Context, cookie string) ([]appointment.Appointment, error) {
	return m.appointments, nil
}

func (m *mockQueuesBackend) ListSchoolVisits(_ context.Context, cookie string) ([]schoolvisit.Visit, error) {
	return m.visits, nil
}

func (m *mockQueuesBackend) ListFeedback(_ context.Context, cookie string) ([]feedback.Feedback, error) {
	return m.feedback, nil
}

func (m *mockQueuesBackend) ListUsers(_ context.Context, cookie string) ([]backend.AdminUser, error) {
	return m.users, nil
}

func TestQueryMembershipQueue_DecidableFirst(t *testing.T) {
	be := &mockQueuesBackend{memberships: []membership.Application{
		{ID: "m1", Status: membership.StatusApproved},
		{ID: "m2", Status: membership.StatusPaymentSubmitted},
		{ID: "m3", Status: membership.StatusRejected},
		{ID: "m4", Status: membership.StatusPending},
	}}

	q, err := QueryMembershipQueue(context.Background(), "c", AdminQueuesDeps{Backend: be})
	if err != nil {
		t.Fatalf("QueryMembershipQueue: %v", err)
	}
	if q.Decidable != 2 {
		t.Errorf("Decidable = %d, want 2", q.Decidable)
	}
	if !q.Apps[0].Decidable() || !q.Apps[1].Decidable() {
		t.Errorf("decidable applications must sort first, got %v then %v", q.Apps[0].Status, q.Apps[1].Status)
	}
}

func TestQueryAppointmentQueue_PendingFirst(t *testing.T) {
	be := &mockQueuesBackend{appointments: []appointment.Appointment{
		{ID: "a1", Status: appointment.StatusScheduled},
		{ID: "a2", Status: appointment.StatusPending},
		{ID: "a3", Status: appointment.StatusRejected},
		{ID: "a4", Status: appointment.StatusPending},
	}}

	appts, err := QueryAppointmentQueue(context.Background(), "c", AdminQueuesDeps{Backend: be})
	if err != nil {
		t.Fatalf("QueryAppointmentQueue: %v", err)
	}
	if appts[0].Status != appointment.StatusPending || appts[1].Status != appointment.StatusPending {
		t.Errorf("pending appointments must sort first: %v %v", appts[0].Status, appts[1].Status)
	}
}

func TestQueryFeedbackOverview_AverageRating(t *testing.T) {
	be := &mockQueuesBackend{feedback: []feedback.Feedback{
		{ID: "f1", Rating: 5},
		{ID: "f2", Rating: 4},
		{ID: "f3", Rating: 3},
	}}

	overview, err := QueryFeedbackOverview(context.Background(), "c", AdminQueuesDeps{Backend: be})
	if err != nil {
		t.Fatalf("QueryFeedbackOverview: %v", err)
	}
	if overview.AvgRating != 4 {
		t.Errorf("AvgRating = %v, want 4", overview.AvgRating)
	}
}

func TestQueryFeedbackOverview_EmptyList(t *testing.T) {
	be := &mockQueuesBackend{}

	overview, err := QueryFeedbackOverview(context.Background(), "c", AdminQueuesDeps{Backend: be})
	if err != nil {
		t.Fatalf("QueryFeedbackOverview: %v", err)
	}
	if overview.AvgRating != 0 {
		t.Errorf("AvgRating = %v, want 0 for empty list", overview.AvgRating)
	}
}
