package projections

import (
	"context"

	"diylab/internal/domain/application"
)

// ApplicationsBackend defines the backend surface for the application lists.
type ApplicationsBackend interface {
	ListApplications(ctx context.Context, cookie, kind string) ([]application.Application, error)
}

// ApplicationsDeps holds dependencies for the application list projection.
type ApplicationsDeps struct {
	Backend ApplicationsBackend
}

// ApplicationListInput selects which applications the admin is reviewing.
// An empty Status means all statuses.
type ApplicationListInput struct {
	Cookie string
	Kind   string
	Status string
}

// ApplicationList is the shape the admin review pages render.
type ApplicationList struct {
	Kind     string
	Status   string
	Apps     []application.Application
	Pending  int
	Approved int
	Rejected int
}

// QueryApplicationList fetches one kind of application list with an
// optional status filter. The status counters always cover the full
// unfiltered list, so the filter tabs show stable totals.
func QueryApplicationList(ctx context.Context, input ApplicationListInput, deps ApplicationsDeps) (ApplicationList, error) {
	if !application.ValidKind(input.Kind) {
		return ApplicationList{}, application.ErrUnknownKind
	}

	all, err := deps.Backend.ListApplications(ctx, input.Cookie, input.Kind)
	if err != nil {
		return ApplicationList{}, err
	}

	out := ApplicationList{Kind: input.Kind, Status: input.Status}
	for _, a := range all {
		switch a.Status {
		case application.StatusPending:
			out.Pending++
		case application.StatusApproved:
			out.Approved++
		case application.StatusRejected:
			out.Rejected++
		}
		if input.Status == "" || a.Status == input.Status {
			out.Apps = append(out.Apps, a)
		}
	}
	return out, nil
}
