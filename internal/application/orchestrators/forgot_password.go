package orchestrators

import (
	"context"
	"log/slog"
)

// BackendForPasswordReset defines the backend surface needed by the
// three-step forgot-password flow.
type BackendForPasswordReset interface {
	ForgotPasswordSendCode(ctx context.Context, email string) error
	ForgotPasswordVerifyCode(ctx context.Context, email, code string) error
	ForgotPasswordReset(ctx context.Context, email, code, newPassword string) error
}

// ForgotPasswordDeps holds dependencies for the forgot-password flow.
type ForgotPasswordDeps struct {
	Backend BackendForPasswordReset
}

// ExecuteForgotPasswordSendCode starts the reset flow by emailing a code.
func ExecuteForgotPasswordSendCode(ctx context.Context, email string, deps ForgotPasswordDeps) error {
	if email == "" {
		return ErrMissingCredentials
	}
	if err := deps.Backend.ForgotPasswordSendCode(ctx, email); err != nil {
		slog.Info("auth_event", "event", "reset_code_send_failed", "email", email, "reason", err.Error())
		return err
	}
	slog.Info("auth_event", "event", "reset_code_sent", "email", email)
	return nil
}

// ExecuteForgotPasswordVerifyCode checks the emailed code before the new
// password step is shown.
func ExecuteForgotPasswordVerifyCode(ctx context.Context, email, code string, deps ForgotPasswordDeps) error {
	if code == "" {
		return ErrMissingCode
	}
	return deps.Backend.ForgotPasswordVerifyCode(ctx, email, code)
}

// ForgotPasswordResetInput carries the final reset step's input.
type ForgotPasswordResetInput struct {
	Email    string
	Code     string
	Password string
	Confirm  string
}

// ExecuteForgotPasswordReset sets the new password after code verification.
func ExecuteForgotPasswordReset(ctx context.Context, input ForgotPasswordResetInput, deps ForgotPasswordDeps) error {
	if input.Password != input.Confirm {
		return ErrPasswordMismatch
	}
	if len(input.Password) < 8 {
		return ErrPasswordTooShort
	}
	if err := deps.Backend.ForgotPasswordReset(ctx, input.Email, input.Code, input.Password); err != nil {
		slog.Info("auth_event", "event", "password_reset_failed", "email", input.Email, "reason", err.Error())
		return err
	}
	slog.Info("auth_event", "event", "password_reset_success", "email", input.Email)
	return nil
}
