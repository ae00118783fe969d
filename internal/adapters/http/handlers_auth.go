package web

import (
	"net/http"
	"net/url"

	"github.com/gorilla/csrf"

	"diylab/internal/adapters/backend"
	"diylab/internal/adapters/http/middleware"
	"diylab/internal/application/orchestrators"
	"diylab/internal/application/projections"
)

// handleUserLogin handles GET (form) and POST (login) for /user-login.
func handleUserLogin(w http.ResponseWriter, r *http.Request) {
	handleLogin(w, r, false)
}

// handleAdminLogin handles GET (form) and POST (login) for /admin-login.
// The admin gate rejects non-admin credentials here, before any session
// opens.
func handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	handleLogin(w, r, true)
}

func handleLogin(w http.ResponseWriter, r *http.Request, adminGate bool) {
	page := "user_login.html"
	home := "/account"
	if adminGate {
		page = "admin_login.html"
		home = "/admin"
	}

	if r.Method == http.MethodGet {
		if sess, ok := middleware.GetSessionFromContext(r.Context()); ok && !sess.IsAnonymous() {
			http.Redirect(w, r, home, http.StatusSeeOther)
			return
		}
		renderTemplate(w, r, page, map[string]any{
			"CSRFToken": csrf.Token(r),
		})
		return
	}

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}

		input := orchestrators.LoginInput{
			Email:     r.FormValue("email"),
			Password:  r.FormValue("password"),
			AdminGate: adminGate,
		}
		sess, err := orchestrators.ExecuteLogin(r.Context(), input, orchestrators.LoginDeps{
			Backend:  deps.Backend,
			Sessions: deps.Sessions,
		})
		if err != nil {
			renderTemplate(w, r, page, map[string]any{
				"CSRFToken": csrf.Token(r),
				"Error":     backend.UserMessage(err),
				"Email":     r.FormValue("email"),
			})
			return
		}

		deps.Sessions.SetSessionCookie(w, sess.Token)
		http.Redirect(w, r, home, http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleLogout handles POST /logout. Idempotent; always lands on the home
// page with an anonymous session.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	token := deps.Sessions.TokenFromRequest(r)
	orchestrators.ExecuteLogout(r.Context(), token, orchestrators.LogoutDeps{
		Sessions:    deps.Sessions,
		Submissions: deps.Forms,
	})
	deps.Sessions.ClearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleRegister handles GET (form) and POST (create account) for /register.
// A successful registration moves to the verification code step.
func handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		renderTemplate(w, r, "register.html", map[string]any{
			"CSRFToken": csrf.Token(r),
		})
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	input := orchestrators.CreateAccountInput{
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
		Confirm:  r.FormValue("confirm"),
	}
	if err := orchestrators.ExecuteCreateAccount(r.Context(), input, orchestrators.CreateAccountDeps{Backend: deps.Backend}); err != nil {
		renderTemplate(w, r, "register.html", map[string]any{
			"CSRFToken": csrf.Token(r),
			"Error":     backend.UserMessage(err),
			"Email":     input.Email,
		})
		return
	}
	http.Redirect(w, r, "/verify?email="+url.QueryEscape(input.Email), http.StatusSeeOther)
}

// handleVerify handles the emailed-code step of registration. POST with
// action=resend re-requests the code.
func handleVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		renderTemplate(w, r, "verify.html", map[string]any{
			"CSRFToken": csrf.Token(r),
			"Email":     r.URL.Query().Get("email"),
		})
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	email := r.FormValue("email")
	accountDeps := orchestrators.CreateAccountDeps{Backend: deps.Backend}

	if r.FormValue("action") == "resend" {
		if err := orchestrators.ExecuteResendVerification(r.Context(), email, accountDeps); err != nil {
			renderTemplate(w, r, "verify.html", map[string]any{
				"CSRFToken": csrf.Token(r),
				"Email":     email,
				"Error":     backend.UserMessage(err),
			})
			return
		}
		renderTemplate(w, r, "verify.html", map[string]any{
			"CSRFToken": csrf.Token(r),
			"Email":     email,
			"Notice":    "A new code is on its way.",
		})
		return
	}

	if err := orchestrators.ExecuteVerifyAccount(r.Context(), email, r.FormValue("code"), accountDeps); err != nil {
		renderTemplate(w, r, "verify.html", map[string]any{
			"CSRFToken": csrf.Token(r),
			"Email":     email,
			"Error":     backend.UserMessage(err),
		})
		return
	}
	http.Redirect(w, r, "/user-login", http.StatusSeeOther)
}

// handleForgotPassword walks the three reset steps on one page: send the
// code, verify it, set the new password. The step travels as a hidden
// field.
func handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		renderTemplate(w, r, "forgot_password.html", map[string]any{
			"CSRFToken": csrf.Token(r),
			"Step":      "email",
		})
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	email := r.FormValue("email")
	code := r.FormValue("code")
	resetDeps := orchestrators.ForgotPasswordDeps{Backend: deps.Backend}
	fail := func(step string, err error) {
		renderTemplate(w, r, "forgot_password.html", map[string]any{
			"CSRFToken": csrf.Token(r),
			"Step":      step,
			"Email":     email,
			"Code":      code,
			"Error":     backend.UserMessage(err),
		})
	}

	switch r.FormValue("step") {
	case "email":
		if err := orchestrators.ExecuteForgotPasswordSendCode(r.Context(), email, resetDeps); err != nil {
			fail("email", err)
			return
		}
		renderTemplate(w, r, "forgot_password.html", map[string]any{
			"CSRFToken": csrf.Token(r),
			"Step":      "code",
			"Email":     email,
		})
	case "code":
		if err := orchestrators.ExecuteForgotPasswordVerifyCode(r.Context(), email, code, resetDeps); err != nil {
			fail("code", err)
			return
		}
		renderTemplate(w, r, "forgot_password.html", map[string]any{
			"CSRFToken": csrf.Token(r),
			"Step":      "reset",
			"Email":     email,
			"Code":      code,
		})
	case "reset":
		input := orchestrators.ForgotPasswordResetInput{
			Email:    email,
			Code:     code,
			Password: r.FormValue("password"),
			Confirm:  r.FormValue("confirm"),
		}
		if err := orchestrators.ExecuteForgotPasswordReset(r.Context(), input, resetDeps); err != nil {
			fail("reset", err)
			return
		}
		http.Redirect(w, r, "/user-login", http.StatusSeeOther)
	default:
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
	}
}

// handleAccount renders the signed-in user's account page with their own
// submissions, fetched fresh from the backend.
func handleAccount(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	overview, err := projections.QueryAccountOverview(r.Context(), sess, projections.AccountDeps{Backend: deps.Backend})
	if err != nil {
		if sessionExpired(w, r, err, "/user-login") {
			return
		}
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "account.html", map[string]any{
		"CSRFToken":   csrf.Token(r),
		"Identity":    overview.Identity,
		"Internships": overview.Internships,
	})
}

// handleChangePassword handles GET (form) and POST (update) for
// /change-password.
func handleChangePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		renderTemplate(w, r, "change_password.html", map[string]any{
			"CSRFToken": csrf.Token(r),
		})
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	input := orchestrators.ChangePasswordInput{
		Cookie:          backendCookie(r),
		CurrentPassword: r.FormValue("current_password"),
		NewPassword:     r.FormValue("new_password"),
		Confirm:         r.FormValue("confirm"),
	}
	if err := orchestrators.ExecuteChangePassword(r.Context(), input, orchestrators.ChangePasswordDeps{Backend: deps.Backend}); err != nil {
		if sessionExpired(w, r, err, "/user-login") {
			return
		}
		renderTemplate(w, r, "change_password.html", map[string]any{
			"CSRFToken": csrf.Token(r),
			"Error":     backend.UserMessage(err),
		})
		return
	}
	renderTemplate(w, r, "change_password.html", map[string]any{
		"CSRFToken": csrf.Token(r),
		"Notice":    "Password updated.",
	})
}
