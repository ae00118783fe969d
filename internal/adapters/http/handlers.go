package web

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"diylab/internal/adapters/backend"
	"diylab/internal/adapters/http/middleware"
	"diylab/internal/domain/submission"
)

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

const templatesDir = "internal/adapters/http/templates"

// formTokenCookie ties anonymous visitors' form machines to one browser.
const formTokenCookie = "diylab_form"

// formToken returns the key that scopes this visitor's form machines: the
// session token when signed in, a plain browser cookie otherwise.
func formToken(w http.ResponseWriter, r *http.Request) string {
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
		return sess.Token
	}
	if ck, err := r.Cookie(formTokenCookie); err == nil && ck.Value != "" {
		return ck.Value
	}
	token := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     formTokenCookie,
		Value:    token,
		HttpOnly: true,
		Secure:   middleware.SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})
	return token
}

// newFormMachine registers a machine for a rendering form page and returns
// it. Its ID travels as a hidden field and comes back with the POST.
func newFormMachine(w http.ResponseWriter, r *http.Request, form string) *submission.Machine {
	return deps.Forms.Create(formToken(w, r), form)
}

// formMachine resolves the posted machine ID. A missing machine (expired
// session, tampered ID) gets a fresh one so the submit still works; the
// single-flight guarantee only ever applies within one rendered form.
func formMachine(w http.ResponseWriter, r *http.Request, form string) *submission.Machine {
	token := formToken(w, r)
	if id := r.FormValue("form_id"); id != "" {
		if m, ok := deps.Forms.Get(token, id); ok {
			return m
		}
	}
	return deps.Forms.Create(token, form)
}

// finishSubmission redirects after a successful submit, firing the
// side effect exactly once. A replayed success URL re-renders without
// re-triggering anything.
func finishSubmission(w http.ResponseWriter, r *http.Request, m *submission.Machine, successPath string) {
	if m.ConsumeSideEffect() {
		deps.Forms.Drop(formToken(w, r), m.ID)
	}
	http.Redirect(w, r, successPath, http.StatusSeeOther)
}

// backendCookie returns the signed-in session's backend credential, or "".
func backendCookie(r *http.Request) string {
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
		return sess.BackendCookie
	}
	return ""
}

// sessionExpired consumes a backend 401 on an authenticated request. The
// credential is dead, so the local session is torn down in full and the
// visitor lands on the matching login page. Every authenticated error path
// routes through here; a dead session never renders as signed in.
func sessionExpired(w http.ResponseWriter, r *http.Request, err error, loginPath string) bool {
	if !backend.IsUnauthorized(err) {
		return false
	}
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok && !sess.IsAnonymous() {
		deps.Forms.DropSession(sess.Token)
		deps.Sessions.Logout(r.Context(), sess.Token)
	}
	deps.Sessions.ClearSessionCookie(w)
	http.Redirect(w, r, loginPath, http.StatusSeeOther)
	return true
}

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	email := ""
	role := ""
	if ok {
		email = sess.Identity.Email
		role = sess.Identity.Role
	}

	funcMap := template.FuncMap{
		"currentEmail": func() string { return email },
		"currentRole":  func() string { return role },
		"isLoggedIn":   func() bool { return ok && !sess.IsAnonymous() },
		"isAdmin":      func() bool { return ok && sess.IsAdmin() },
		"csrfToken":    func() string { return csrf.Token(r) },
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
		"userMessage": backend.UserMessage,
	}

	layoutPath := filepath.Join(templatesDir, "layout.html")
	pagePath := filepath.Join(templatesDir, templateName)
	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFiles(layoutPath, pagePath)
	if err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tpl.Execute(w, data); err != nil {
		internalError(w, err)
	}
}
