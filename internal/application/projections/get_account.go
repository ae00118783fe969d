package projections

import (
	"context"

	"diylab/internal/domain/application"
	"diylab/internal/domain/identity"
)

// AccountBackend defines the backend surface for the user account page.
type AccountBackend interface {
	ListMyInternships(ctx context.Context, cookie string) ([]application.Application, error)
}

// AccountDeps holds dependencies for the account projection.
type AccountDeps struct {
	Backend AccountBackend
}

// AccountOverview is the shape the signed-in account page renders.
type AccountOverview struct {
	Identity    identity.Identity
	Internships []application.Application
}

// QueryAccountOverview fetches the signed-in user's own submissions. The
// identity comes from the local session; the internship list from the
// backend on every page view.
func QueryAccountOverview(ctx context.Context, sess identity.Session, deps AccountDeps) (AccountOverview, error) {
	internships, err := deps.Backend.ListMyInternships(ctx, sess.BackendCookie)
	if err != nil {
		return AccountOverview{}, err
	}
	return AccountOverview{Identity: sess.Identity, Internships: internships}, nil
}
