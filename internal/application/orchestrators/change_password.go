package orchestrators

import (
	"context"
	"log/slog"
)

// BackendForChangePassword defines the backend surface needed by ChangePassword.
type BackendForChangePassword interface {
	ChangePassword(ctx context.Context, cookie, current, next string) error
}

// ChangePasswordInput carries input for the change password orchestrator.
type ChangePasswordInput struct {
	Cookie          string
	CurrentPassword string
	NewPassword     string
	Confirm         string
}

// ChangePasswordDeps holds dependencies for ChangePassword.
type ChangePasswordDeps struct {
	Backend BackendForChangePassword
}

// ExecuteChangePassword updates the signed-in user's password through the
// backend. The current password is re-checked there, not locally.
func ExecuteChangePassword(ctx context.Context, input ChangePasswordInput, deps ChangePasswordDeps) error {
	if input.CurrentPassword == "" || input.NewPassword == "" {
		return ErrMissingCredentials
	}
	if input.NewPassword != input.Confirm {
		return ErrPasswordMismatch
	}
	if len(input.NewPassword) < 8 {
		return ErrPasswordTooShort
	}

	if err := deps.Backend.ChangePassword(ctx, input.Cookie, input.CurrentPassword, input.NewPassword); err != nil {
		slog.Info("auth_event", "event", "password_change_failed", "reason", err.Error())
		return err
	}
	slog.Info("auth_event", "event", "password_change_success")
	return nil
}
