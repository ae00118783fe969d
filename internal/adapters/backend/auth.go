package backend

import (
	"context"
	"net/http"

	"diylab/internal/domain/identity"
)

// LoginResult carries the outcome of a successful backend login.
type LoginResult struct {
	Identity identity.Identity
	// Cookie is the credentialed cookie issued by the backend, replayed on
	// every later call made for this gateway session.
	Cookie string
}

// Login authenticates against the backend.
// POST: On success returns the identity and the backend session cookie;
// a 2xx with success=false is surfaced as a RequestError with the backend's
// message, without mutating anything
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	buf, resp, err := c.rawJSON(ctx, "", http.MethodPost, "/api/login", body)
	if err != nil {
		return LoginResult{}, err
	}

	var payload struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		User    struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	if err := decodeBytes(buf, &payload); err != nil {
		return LoginResult{}, err
	}
	if !payload.Success {
		msg := payload.Message
		if msg == "" {
			msg = "Invalid credentials"
		}
		return LoginResult{}, &RequestError{Status: resp.StatusCode, Message: msg}
	}
	return LoginResult{
		Identity: identity.Identity{
			ID:    payload.User.ID,
			Email: payload.User.Email,
			Role:  payload.User.Role,
		},
		Cookie: joinCookies(resp),
	}, nil
}

// WhoAmI asks the backend which identity the credentialed cookie belongs
// to. This is the authoritative check the admin gate runs on every access.
func (c *Client) WhoAmI(ctx context.Context, cookie string) (identity.Identity, error) {
	var payload struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err := c.getJSON(ctx, cookie, "/api/auth/me", &payload); err != nil {
		return identity.Identity{}, err
	}
	return identity.Identity{ID: payload.ID, Email: payload.Email, Role: payload.Role}, nil
}

// RegisterUser creates a user account. The backend sends the verification
// email; the gateway only relays the request.
func (c *Client) RegisterUser(ctx context.Context, email, password string) error {
	return c.sendJSON(ctx, "", http.MethodPost, "/api/register/users",
		map[string]string{"email": email, "password": password}, nil)
}

// SendVerification asks the backend to email a verification code.
func (c *Client) SendVerification(ctx context.Context, email string) error {
	return c.sendJSON(ctx, "", http.MethodPost, "/api/send-verification",
		map[string]string{"email": email}, nil)
}

// VerifyCode confirms an emailed verification code.
func (c *Client) VerifyCode(ctx context.Context, email, code string) error {
	return c.sendJSON(ctx, "", http.MethodPost, "/api/verify-code",
		map[string]string{"email": email, "code": code}, nil)
}

// ForgotPasswordSendCode starts the password reset flow.
func (c *Client) ForgotPasswordSendCode(ctx context.Context, email string) error {
	return c.sendJSON(ctx, "", http.MethodPost, "/api/forgot-password/send-code",
		map[string]string{"email": email}, nil)
}

// ForgotPasswordVerifyCode checks an emailed reset code.
func (c *Client) ForgotPasswordVerifyCode(ctx context.Context, email, code string) error {
	return c.sendJSON(ctx, "", http.MethodPost, "/api/forgot-password/verify-code",
		map[string]string{"email": email, "code": code}, nil)
}

// ForgotPasswordReset sets a new password after code verification.
func (c *Client) ForgotPasswordReset(ctx context.Context, email, code, newPassword string) error {
	return c.sendJSON(ctx, "", http.MethodPost, "/api/forgot-password/reset",
		map[string]string{"email": email, "code": code, "newPassword": newPassword}, nil)
}

// ChangePassword updates the signed-in user's password.
func (c *Client) ChangePassword(ctx context.Context, cookie, current, next string) error {
	return c.sendJSON(ctx, cookie, http.MethodPost, "/account/change-password",
		map[string]string{"currentPassword": current, "newPassword": next}, nil)
}
