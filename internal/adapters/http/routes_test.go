package web

import (
	"context"
	"html"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"diylab/internal/adapters/backend"
	"diylab/internal/adapters/http/middleware"
	"diylab/internal/adapters/http/perf"
	sessionStore "diylab/internal/adapters/storage/session"
	"diylab/internal/domain/identity"
	"diylab/internal/domain/submission"
)

// memorySessionStore implements the session store interface for testing.
type memorySessionStore struct {
	rows map[string]identity.Session
}

func (s *memorySessionStore) Get(ctx context.Context, token string) (identity.Session, error) {
	if sess, ok := s.rows[token]; ok {
		return sess, nil
	}
	return identity.Session{}, sessionStore.ErrNotFound
}

func (s *memorySessionStore) Save(ctx context.Context, sess identity.Session) error {
	s.rows[sess.Token] = sess
	return nil
}

func (s *memorySessionStore) Delete(ctx context.Context, token string) error {
	delete(s.rows, token)
	return nil
}

func (s *memorySessionStore) DeleteExpired(ctx context.Context, before time.Time) (int, error) {
	return 0, nil
}

// stubBackend serves the backend endpoints the routed pages fetch.
func stubBackend() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/workshops", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"w1","title":"Laser cutting basics","category":"Learn&Engage","description":"Cut things."}]`))
	})
	mux.HandleFunc("/api/courses", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"c1","title":"Woodworking 101","description":"Eight evenings."}]`))
	})
	mux.HandleFunc("/api/blogs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"b1","title":"New lathe","content":"It spins.","published":true},` +
			`{"id":"b2","title":"Secret draft","content":"Shh.","published":false}]`))
	})
	mux.HandleFunc("/api/student/internships", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"a1","fullName":"Sam Park","status":"pending","kind":"internship"}]`))
	})
	mux.HandleFunc("/api/bookings", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	})
	mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"u9","email":"boss@example.com","role":"ADMIN"}`))
	})
	mux.HandleFunc("/api/register/users", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	})
	// Credential-dead endpoints for the session-teardown tests.
	mux.HandleFunc("/account/change-password", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/api/admin/stats", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	return mux
}

// sessionCookies signs in an identity and returns the cookies a browser
// would hold afterwards.
func sessionCookies(t *testing.T, sessions *middleware.SessionManager, id identity.Identity) (identity.Session, []*http.Cookie) {
	t.Helper()
	sess, err := sessions.Login(context.Background(), id, "backend-cookie")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	rec := httptest.NewRecorder()
	sessions.SetSessionCookie(rec, sess.Token)
	return sess, rec.Result().Cookies()
}

// fetchCSRF renders a page and returns the embedded token plus the cookies
// to replay on the following POST.
func fetchCSRF(t *testing.T, mux http.Handler, path string, cookies []*http.Cookie) (string, []*http.Cookie) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET %s = %d, want 200", path, rec.Code)
	}
	const marker = `name="gorilla.csrf.Token" value="`
	body := rec.Body.String()
	i := strings.Index(body, marker)
	if i < 0 {
		t.Fatalf("no CSRF token on %s", path)
	}
	rest := body[i+len(marker):]
	token := html.UnescapeString(rest[:strings.Index(rest, `"`)])
	return token, append(cookies, rec.Result().Cookies()...)
}

// postForm replays cookies and submits a form through the full stack.
func postForm(mux http.Handler, path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

// newTestMux builds a full handler stack against a stubbed backend.
// Templates resolve relative to the repo root.
func newTestMux(t *testing.T) (http.Handler, *middleware.SessionManager) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir("../../.."); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	srv := httptest.NewServer(stubBackend())
	t.Cleanup(srv.Close)

	sessions := middleware.NewSessionManager(
		&memorySessionStore{rows: make(map[string]identity.Session)},
		[]byte("0123456789abcdef0123456789abcdef"))
	d := &Deps{
		Backend:  backend.New(srv.URL),
		Sessions: sessions,
		Forms:    submission.NewRegistry(),
	}

	RateLimitPerSecond = 1000
	csrfKey := []byte("fedcba9876543210fedcba9876543210")
	return NewMux(t.TempDir(), d, perf.NewCollector(perf.DefaultRingSize), csrfKey, nil), sessions
}

func TestRoutes_AnonymousGateRedirects(t *testing.T) {
	mux, _ := newTestMux(t)

	tests := []struct {
		path string
		want string
	}{
		{"/account", "/user-login"},
		{"/change-password", "/user-login"},
		{"/admin", "/admin-login"},
		{"/admin/workshops", "/admin-login"},
		{"/admin/perf", "/admin-login"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))

			if rec.Code != http.StatusSeeOther {
				t.Fatalf("got status %d, want %d", rec.Code, http.StatusSeeOther)
			}
			if loc := rec.Header().Get("Location"); loc != tt.want {
				t.Errorf("got redirect %q, want %q", loc, tt.want)
			}
		})
	}
}

func TestRoutes_PublicPages(t *testing.T) {
	mux, _ := newTestMux(t)

	tests := []struct {
		path     string
		contains string
	}{
		{"/", "Laser cutting basics"},
		{"/workshops", "Laser cutting basics"},
		{"/courses", "Woodworking 101"},
		{"/blog", "New lathe"},
		{"/about", "community makerspace"},
		{"/booking", "form_id"},
		{"/feedback", "form_id"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("got status %d, want 200. Body: %s", rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tt.contains) {
				t.Errorf("body missing %q", tt.contains)
			}
		})
	}
}

// Unpublished posts never reach the public blog page.
func TestRoutes_BlogHidesDrafts(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/blog", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "Secret draft") {
		t.Error("draft post leaked into the public blog page")
	}
}

// Unknown paths fall through to the home page instead of a bare 404.
func TestRoutes_UnknownPathFallsBackToHome(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/no-such-page", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "DIY Lab") {
		t.Error("fallback did not render the home page")
	}
}

func TestRoutes_SignedInUserReachesAccount(t *testing.T) {
	mux, sessions := newTestMux(t)

	sess, err := sessions.Login(context.Background(),
		identity.Identity{ID: "u1", Email: "maker@example.com", Role: identity.RoleUser}, "backend-cookie")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// Capture the signed session cookie the way the login handler sets it.
	cookieRec := httptest.NewRecorder()
	sessions.SetSessionCookie(cookieRec, sess.Token)

	req := httptest.NewRequest("GET", "/account", nil)
	for _, c := range cookieRec.Result().Cookies() {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200. Body: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "maker@example.com") {
		t.Error("account page missing the signed-in email")
	}
	if !strings.Contains(rec.Body.String(), "Sam Park") {
		t.Error("account page missing the internship list")
	}
}

// Method checks run inside the handlers, after the gates.
func TestRoutes_MethodNotAllowed(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/logout", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("got status %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

// A 401 from the backend on a user-area action tears the gateway session
// down and redirects to login; it never re-renders as signed in.
func TestRoutes_BackendUnauthorizedClearsUserSession(t *testing.T) {
	mux, sessions := newTestMux(t)
	sess, cookies := sessionCookies(t, sessions,
		identity.Identity{ID: "u1", Email: "maker@example.com", Role: identity.RoleUser})

	token, cookies := fetchCSRF(t, mux, "/change-password", cookies)
	rec := postForm(mux, "/change-password", url.Values{
		"current_password":   {"old-pass-1"},
		"new_password":       {"new-pass-22"},
		"confirm":            {"new-pass-22"},
		"gorilla.csrf.Token": {token},
	}, cookies)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("got status %d, want %d. Body: %s", rec.Code, http.StatusSeeOther, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/user-login" {
		t.Errorf("got redirect %q, want /user-login", loc)
	}
	if _, ok := sessions.Current(context.Background(), sess.Token); ok {
		t.Error("session still resolves after the backend rejected its credential")
	}
}

// The same teardown applies in the back office: a dead credential on an
// admin page sends the admin back to the admin login.
func TestRoutes_BackendUnauthorizedClearsAdminSession(t *testing.T) {
	mux, sessions := newTestMux(t)
	sess, cookies := sessionCookies(t, sessions,
		identity.Identity{ID: "u9", Email: "boss@example.com", Role: identity.RoleAdmin})

	req := httptest.NewRequest("GET", "/admin", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("got status %d, want %d. Body: %s", rec.Code, http.StatusSeeOther, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/admin-login" {
		t.Errorf("got redirect %q, want /admin-login", loc)
	}
	if _, ok := sessions.Current(context.Background(), sess.Token); ok {
		t.Error("admin session still resolves after the backend rejected its credential")
	}
}

// Register hands the address to the verify page intact, plus signs and all.
func TestRoutes_RegisterRedirectEscapesEmail(t *testing.T) {
	mux, _ := newTestMux(t)

	token, cookies := fetchCSRF(t, mux, "/register", nil)
	rec := postForm(mux, "/register", url.Values{
		"email":              {"sam+maker@example.com"},
		"password":           {"hunter22!"},
		"confirm":            {"hunter22!"},
		"gorilla.csrf.Token": {token},
	}, cookies)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("got status %d, want %d. Body: %s", rec.Code, http.StatusSeeOther, rec.Body.String())
	}
	want := "/verify?email=" + url.QueryEscape("sam+maker@example.com")
	if loc := rec.Header().Get("Location"); loc != want {
		t.Errorf("got redirect %q, want %q", loc, want)
	}
}

// Form submits without a CSRF token are rejected before any handler runs.
func TestRoutes_PostWithoutCSRFTokenRejected(t *testing.T) {
	mux, _ := newTestMux(t)

	form := url.Values{"email": {"maker@example.com"}, "password": {"hunter22"}}
	req := httptest.NewRequest("POST", "/user-login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("got status %d, want %d", rec.Code, http.StatusForbidden)
	}
}
