package projections

import (
	"context"
	"sort"

	"diylab/internal/adapters/backend"
	"diylab/internal/domain/appointment"
	"diylab/internal/domain/feedback"
	"diylab/internal/domain/membership"
	"diylab/internal/domain/schoolvisit"
)

// AdminQueuesBackend defines the backend surface for the remaining
// back-office review queues.
type AdminQueuesBackend interface {
	ListMembershipApplications(ctx context.Context, cookie string) ([]membership.Application, error)
	ListAppointments(ctx context.Context, cookie string) ([]appointment.Appointment, error)
	ListSchoolVisits(ctx context.Context, cookie string) ([]schoolvisit.Visit, error)
	ListFeedback(ctx context.Context, cookie string) ([]feedback.Feedback, error)
	ListUsers(ctx context.Context, cookie string) ([]backend.AdminUser, error)
}

// AdminQueuesDeps holds dependencies for the review queue projections.
type AdminQueuesDeps struct {
	Backend AdminQueuesBackend
}

// MembershipQueue is the shape the membership review page renders.
type MembershipQueue struct {
	Apps      []membership.Application
	Decidable int
}

// QueryMembershipQueue fetches membership applications, decidable first.
func QueryMembershipQueue(ctx context.Context, cookie string, deps AdminQueuesDeps) (MembershipQueue, error) {
	apps, err := deps.Backend.ListMembershipApplications(ctx, cookie)
	if err != nil {
		return MembershipQueue{}, err
	}

	sort.SliceStable(apps, func(i, j int) bool {
		return apps[i].Decidable() && !apps[j].Decidable()
	})
	q := MembershipQueue{Apps: apps}
	for _, a := range apps {
		if a.Decidable() {
			q.Decidable++
		}
	}
	return q, nil
}

// QueryAppointmentQueue fetches appointments, pending first.
func QueryAppointmentQueue(ctx context.Context, cookie string, deps AdminQueuesDeps) ([]appointment.Appointment, error) {
	appts, err := deps.Backend.ListAppointments(ctx, cookie)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(appts, func(i, j int) bool {
		return appts[i].Status == appointment.StatusPending && appts[j].Status != appointment.StatusPending
	})
	return appts, nil
}

// QuerySchoolVisitQueue fetches school visit requests.
func QuerySchoolVisitQueue(ctx context.Context, cookie string, deps AdminQueuesDeps) ([]schoolvisit.Visit, error) {
	return deps.Backend.ListSchoolVisits(ctx, cookie)
}

// FeedbackOverview is the shape the feedback review page renders.
type FeedbackOverview struct {
	Entries   []feedback.Feedback
	AvgRating float64
}

// QueryFeedbackOverview fetches feedback with its average rating.
func QueryFeedbackOverview(ctx context.Context, cookie string, deps AdminQueuesDeps) (FeedbackOverview, error) {
	entries, err := deps.Backend.ListFeedback(ctx, cookie)
	if err != nil {
		return FeedbackOverview{}, err
	}

	out := FeedbackOverview{Entries: entries}
	if len(entries) > 0 {
		var sum int
		for _, f := range entries {
			sum += f.Rating
		}
		out.AvgRating = float64(sum) / float64(len(entries))
	}
	return out, nil
}

// QueryUserList fetches registered accounts for the admin user page.
func QueryUserList(ctx context.Context, cookie string, deps AdminQueuesDeps) ([]backend.AdminUser, error) {
	return deps.Backend.ListUsers(ctx, cookie)
}
