package orchestrators

import (
	"context"
	"errors"
	"log/slog"
)

// BackendForRegistration defines the backend surface needed by the
// multi-step registration flow.
type BackendForRegistration interface {
	RegisterUser(ctx context.Context, email, password string) error
	SendVerification(ctx context.Context, email string) error
	VerifyCode(ctx context.Context, email, code string) error
}

// CreateAccountInput carries input for one registration step.
type CreateAccountInput struct {
	Email    string
	Password string
	Confirm  string
}

// CreateAccountDeps holds dependencies for the registration flow.
type CreateAccountDeps struct {
	Backend BackendForRegistration
}

var (
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrMissingCode      = errors.New("verification code is required")
)

// ExecuteCreateAccount registers a new user account and triggers the
// verification email. Local checks run before any network call; the
// backend owns email delivery and code issuance.
// POST: On nil return the backend has queued a verification email
func ExecuteCreateAccount(ctx context.Context, input CreateAccountInput, deps CreateAccountDeps) error {
	if input.Email == "" || input.Password == "" {
		return ErrMissingCredentials
	}
	if input.Password != input.Confirm {
		return ErrPasswordMismatch
	}
	if len(input.Password) < 8 {
		return ErrPasswordTooShort
	}

	if err := deps.Backend.RegisterUser(ctx, input.Email, input.Password); err != nil {
		slog.Info("auth_event", "event", "register_failed", "email", input.Email, "reason", err.Error())
		return err
	}
	if err := deps.Backend.SendVerification(ctx, input.Email); err != nil {
		// Account exists; the user can re-request the code from the verify page.
		slog.Warn("auth_event", "event", "verification_send_failed", "email", input.Email, "reason", err.Error())
		return err
	}

	slog.Info("auth_event", "event", "register_success", "email", input.Email)
	return nil
}

// ExecuteVerifyAccount confirms the emailed verification code, completing
// registration.
func ExecuteVerifyAccount(ctx context.Context, email, code string, deps CreateAccountDeps) error {
	if code == "" {
		return ErrMissingCode
	}
	if err := deps.Backend.VerifyCode(ctx, email, code); err != nil {
		slog.Info("auth_event", "event", "verify_failed", "email", email, "reason", err.Error())
		return err
	}
	slog.Info("auth_event", "event", "verify_success", "email", email)
	return nil
}

// ExecuteResendVerification re-sends the verification code email.
func ExecuteResendVerification(ctx context.Context, email string, deps CreateAccountDeps) error {
	if email == "" {
		return ErrMissingCredentials
	}
	return deps.Backend.SendVerification(ctx, email)
}
