package orchestrators

import (
	"context"
	"log/slog"
)

// SessionsForLogout defines the session manager surface needed by Logout.
type SessionsForLogout interface {
	Logout(ctx context.Context, token string)
}

// SubmissionsForLogout drops any form machines tied to the session.
type SubmissionsForLogout interface {
	DropSession(token string)
}

// LogoutDeps holds dependencies for Logout.
type LogoutDeps struct {
	Sessions    SessionsForLogout
	Submissions SubmissionsForLogout
}

// ExecuteLogout erases the gateway session and its in-flight form state.
// It is idempotent; logging out an anonymous session is a no-op, and it
// never fails.
// POST: The token no longer resolves to a session
func ExecuteLogout(ctx context.Context, token string, deps LogoutDeps) {
	if token == "" {
		return
	}
	deps.Sessions.Logout(ctx, token)
	if deps.Submissions != nil {
		deps.Submissions.DropSession(token)
	}
	slog.Info("auth_event", "event", "logout")
}
