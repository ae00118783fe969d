package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"diylab/internal/domain/identity"
)

// BackendForVerify defines the backend surface needed by VerifyAdmin.
type BackendForVerify interface {
	WhoAmI(ctx context.Context, cookie string) (identity.Identity, error)
}

// SessionsForVerify defines the session manager surface needed by VerifyAdmin.
type SessionsForVerify interface {
	Current(ctx context.Context, token string) (identity.Session, bool)
	Refresh(ctx context.Context, token string, id identity.Identity)
	Logout(ctx context.Context, token string)
}

// VerifyAdminDeps holds dependencies for VerifyAdmin.
type VerifyAdminDeps struct {
	Backend  BackendForVerify
	Sessions SessionsForVerify
}

var (
	ErrNoSession = errors.New("no local session")
	ErrNotAdmin  = errors.New("authenticated but not an administrator")
)

// ExecuteVerifyAdmin re-checks a session against the backend's identity
// endpoint. The persisted local role is never trusted for admin access;
// the backend's answer is authoritative and refreshes the local cache.
// An unauthenticated or unreachable backend erases the local session.
// POST: nil return means the backend confirmed the admin role just now
func ExecuteVerifyAdmin(ctx context.Context, token string, deps VerifyAdminDeps) error {
	sess, ok := deps.Sessions.Current(ctx, token)
	if !ok || sess.IsAnonymous() {
		return ErrNoSession
	}

	id, err := deps.Backend.WhoAmI(ctx, sess.BackendCookie)
	if err != nil {
		slog.Info("auth_event", "event", "admin_verify_failed", "reason", err.Error())
		deps.Sessions.Logout(ctx, token)
		return err
	}

	// Heal the local cache whether or not the role qualifies.
	deps.Sessions.Refresh(ctx, token, id)

	if id.Role != identity.RoleAdmin {
		slog.Info("auth_event", "event", "admin_verify_denied", "role", id.Role)
		return ErrNotAdmin
	}
	return nil
}
