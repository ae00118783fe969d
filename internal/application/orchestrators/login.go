package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"diylab/internal/adapters/backend"
	"diylab/internal/domain/identity"
)

// BackendForLogin defines the backend surface needed by Login.
type BackendForLogin interface {
	Login(ctx context.Context, email, password string) (backend.LoginResult, error)
}

// SessionsForLogin defines the session manager surface needed by Login.
type SessionsForLogin interface {
	Login(ctx context.Context, id identity.Identity, backendCookie string) (identity.Session, error)
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Email    string
	Password string
	// AdminGate restricts the login to admin identities. The admin login
	// page sets it; a correct user password still gets rejected there.
	AdminGate bool
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	Backend  BackendForLogin
	Sessions SessionsForLogin
}

var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrNotAnAdmin         = errors.New("this login is for administrators only")
)

// ExecuteLogin authenticates against the backend and opens a gateway
// session carrying the backend's credentialed cookie.
// PRE: Email and password provided
// POST: On success a session exists whose kind matches the backend role
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (identity.Session, error) {
	if input.Email == "" || input.Password == "" {
		return identity.Session{}, ErrMissingCredentials
	}

	result, err := deps.Backend.Login(ctx, input.Email, input.Password)
	if err != nil {
		slog.Info("auth_event", "event", "login_failed", "email", input.Email, "reason", err.Error())
		return identity.Session{}, err
	}

	if input.AdminGate && result.Identity.Role != identity.RoleAdmin {
		slog.Info("auth_event", "event", "login_blocked", "email", input.Email, "reason", "not_admin")
		return identity.Session{}, ErrNotAnAdmin
	}

	sess, err := deps.Sessions.Login(ctx, result.Identity, result.Cookie)
	if err != nil {
		return identity.Session{}, err
	}

	slog.Info("auth_event", "event", "login_success", "email", input.Email, "role", result.Identity.Role)
	return sess, nil
}
