package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"

	sessionStore "diylab/internal/adapters/storage/session"
	"diylab/internal/domain/identity"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const sessionContextKey contextKey = "session"

const sessionCookieName = "diylab_session"

// SecureCookies is set to true in production by web.NewMux.
var SecureCookies = false

// SessionManager is the single source of truth for "who is using the app
// right now". Sessions live in an in-memory cache hydrated lazily from the
// durable SQLite slot, so they survive gateway restarts. A durable write
// failure degrades that session to memory-only and is surfaced as a
// warning, never as a request failure.
type SessionManager struct {
	mu    sync.RWMutex
	cache map[string]identity.Session

	store sessionStore.Store
	codec *securecookie.SecureCookie
}

// NewSessionManager creates a session manager over the durable store.
// hashKey signs the session cookie (32 bytes).
func NewSessionManager(store sessionStore.Store, hashKey []byte) *SessionManager {
	return &SessionManager{
		cache: make(map[string]identity.Session),
		store: store,
		codec: securecookie.New(hashKey, nil),
	}
}

// Login stores the identity returned by the backend under a fresh session
// token, in memory and durably.
// POST: Returned session's kind agrees with the identity's role
func (sm *SessionManager) Login(ctx context.Context, id identity.Identity, backendCookie string) (identity.Session, error) {
	sess := identity.Session{
		Token:         uuid.New().String(),
		Identity:      id,
		Kind:          identity.KindFor(id),
		BackendCookie: backendCookie,
		CreatedAt:     time.Now().UTC(),
	}
	if err := sess.Validate(); err != nil {
		return identity.Session{}, err
	}

	sm.mu.Lock()
	sm.cache[sess.Token] = sess
	sm.mu.Unlock()

	if err := sm.store.Save(ctx, sess); err != nil {
		slog.Warn("session_persist_failed", "error", err.Error())
	}
	return sess, nil
}

// Logout erases the session from memory and durable storage. It never
// fails and is idempotent; logging out an already-anonymous session is a
// no-op.
func (sm *SessionManager) Logout(ctx context.Context, token string) {
	if token == "" {
		return
	}
	sm.mu.Lock()
	delete(sm.cache, token)
	sm.mu.Unlock()

	if err := sm.store.Delete(ctx, token); err != nil {
		slog.Warn("session_erase_failed", "error", err.Error())
	}
}

// Current resolves a token to its session, restoring from durable storage
// on a cache miss. Missing, malformed, and expired slots all read as
// anonymous.
func (sm *SessionManager) Current(ctx context.Context, token string) (identity.Session, bool) {
	if token == "" {
		return identity.Anonymous(), false
	}

	sm.mu.RLock()
	sess, ok := sm.cache[token]
	sm.mu.RUnlock()

	if !ok {
		var err error
		sess, err = sm.store.Get(ctx, token)
		if err != nil {
			if !errors.Is(err, sessionStore.ErrNotFound) {
				slog.Warn("session_restore_failed", "error", err.Error())
			}
			return identity.Anonymous(), false
		}
		sm.mu.Lock()
		sm.cache[token] = sess
		sm.mu.Unlock()
	}

	if sess.IsExpired(time.Now()) {
		sm.Logout(ctx, token)
		return identity.Anonymous(), false
	}
	return sess, true
}

// Refresh overwrites a session's identity with the authoritative one from
// the backend, keeping token and backend cookie. The verify-remote admin
// gate uses it to heal stale local role caches.
func (sm *SessionManager) Refresh(ctx context.Context, token string, id identity.Identity) {
	sm.mu.Lock()
	sess, ok := sm.cache[token]
	if ok {
		sess.Identity = id
		sess.Kind = identity.KindFor(id)
		sm.cache[token] = sess
	}
	sm.mu.Unlock()
	if !ok {
		return
	}
	if err := sm.store.Save(ctx, sess); err != nil {
		slog.Warn("session_persist_failed", "error", err.Error())
	}
}

// SweepExpired deletes expired durable sessions.
func (sm *SessionManager) SweepExpired(ctx context.Context) {
	n, err := sm.store.DeleteExpired(ctx, time.Now().UTC().Add(-identity.MaxAge))
	if err != nil {
		slog.Warn("session_sweep_failed", "error", err.Error())
		return
	}
	if n > 0 {
		slog.Info("session_sweep", "removed", n)
	}
}

// SetSessionCookie writes the signed session cookie on the response.
func (sm *SessionManager) SetSessionCookie(w http.ResponseWriter, token string) {
	encoded, err := sm.codec.Encode(sessionCookieName, token)
	if err != nil {
		slog.Error("session_cookie_encode_failed", "error", err.Error())
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    encoded,
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   int(identity.MaxAge / time.Second),
	})
}

// ClearSessionCookie removes the session cookie.
func (sm *SessionManager) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

// TokenFromRequest decodes the signed session cookie. Tampered or
// malformed cookies read as anonymous.
func (sm *SessionManager) TokenFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	var token string
	if err := sm.codec.Decode(sessionCookieName, cookie.Value, &token); err != nil {
		return ""
	}
	return token
}

// Auth returns middleware that resolves the session cookie and sets the
// session in context. It does NOT block anonymous requests — use
// RequireUser or RequireAdmin for that.
func Auth(sessions *SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessions.TokenFromRequest(r)
			if sess, ok := sessions.Current(r.Context(), token); ok {
				ctx := context.WithValue(r.Context(), sessionContextKey, sess)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireUser blocks requests without an authenticated session. The user
// area trusts the local session; admins pass too.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := GetSessionFromContext(r.Context())
		if !ok || sess.IsAnonymous() {
			http.Redirect(w, r, "/user-login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AdminVerifier re-checks a session against the backend's identity
// endpoint. Implemented by the verify-admin orchestrator.
type AdminVerifier interface {
	VerifyAdmin(ctx context.Context, token string) error
}

// Errors an AdminVerifier distinguishes. Unauthorized means the backend no
// longer recognizes the session; Forbidden means authenticated but not an
// admin, and the session survives.
var (
	ErrVerifyUnauthorized = errors.New("admin verification: not authenticated")
	ErrVerifyForbidden    = errors.New("admin verification: insufficient role")
)

// RequireAdmin blocks requests the backend does not confirm as admin. The
// guarded handler never runs before the check completes, so protected
// content cannot flash ahead of a redirect. Every access is re-verified;
// the persisted local role is only a rendering hint.
func RequireAdmin(verifier AdminVerifier, sessions *SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := GetSessionFromContext(r.Context())
			if !ok || sess.IsAnonymous() {
				http.Redirect(w, r, "/admin-login", http.StatusSeeOther)
				return
			}

			err := verifier.VerifyAdmin(r.Context(), sess.Token)
			switch {
			case err == nil:
				next.ServeHTTP(w, r)
			case errors.Is(err, ErrVerifyForbidden):
				http.Redirect(w, r, "/unauthorized", http.StatusSeeOther)
			default:
				sessions.Logout(r.Context(), sess.Token)
				sessions.ClearSessionCookie(w)
				http.Redirect(w, r, "/admin-login", http.StatusSeeOther)
			}
		})
	}
}

// GetSessionFromContext extracts the session from the request context.
func GetSessionFromContext(ctx context.Context) (identity.Session, bool) {
	sess, ok := ctx.Value(sessionContextKey).(identity.Session)
	return sess, ok
}

// ContextWithSession returns a context with the given session set.
// Intended for use in tests.
func ContextWithSession(ctx context.Context, sess identity.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

// IsAdmin checks if the current session's cached role is admin. Rendering
// hints only — protected routes go through RequireAdmin.
func IsAdmin(ctx context.Context) bool {
	sess, ok := GetSessionFromContext(ctx)
	return ok && sess.IsAdmin()
}

// IsLoggedIn checks if the current session carries any identity.
func IsLoggedIn(ctx context.Context) bool {
	sess, ok := GetSessionFromContext(ctx)
	return ok && !sess.IsAnonymous()
}
