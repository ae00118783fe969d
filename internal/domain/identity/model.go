package identity

import (
	"errors"
	"strings"
	"time"
)

// Session kinds.
const (
	KindAnonymous = "anonymous"
	KindUser      = "user"
	KindAdmin     = "admin"
)

// Role constants as issued by the backend.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// Session lifetime. Expired sessions are treated as anonymous.
const MaxAge = 24 * time.Hour

// Domain errors
var (
	ErrKindMismatch = errors.New("session kind does not agree with identity shape")
	ErrUnknownKind  = errors.New("session kind must be anonymous, user, or admin")
)

// Identity is the authenticated principal associated with a session.
// Anonymous sessions carry a zero Identity. No password material is ever
// held client-side.
type Identity struct {
	ID    string
	Email string
	Role  string
}

// Session is the single source of truth for "who is using the app".
// At most one identity is active at a time; Kind must agree with the shape
// of Identity.
type Session struct {
	Token     string
	Identity  Identity
	Kind      string
	CreatedAt time.Time

	// BackendCookie is the credentialed cookie value issued by the backend
	// on login; attached to every backend call made on this session's behalf.
	BackendCookie string
}

// Anonymous returns a session with no identity.
func Anonymous() Session {
	return Session{Kind: KindAnonymous}
}

// KindFor derives the session kind from an identity's shape.
// INVARIANT: an identity with role ADMIN is always admin-kind, regardless
// of other fields; a non-admin identity needs id and email to count as a user.
func KindFor(id Identity) string {
	if id.Role == RoleAdmin {
		return KindAdmin
	}
	if strings.TrimSpace(id.ID) != "" && strings.TrimSpace(id.Email) != "" {
		return KindUser
	}
	return KindAnonymous
}

// Validate checks the kind-agreement invariant.
// POST: Returns nil only when Kind matches what Identity's shape implies
func (s *Session) Validate() error {
	switch s.Kind {
	case KindAnonymous, KindUser, KindAdmin:
	default:
		return ErrUnknownKind
	}
	if KindFor(s.Identity) != s.Kind {
		return ErrKindMismatch
	}
	return nil
}

// IsAnonymous reports whether the session carries no identity.
// INVARIANT: Session fields are not mutated
func (s *Session) IsAnonymous() bool {
	return s.Kind == KindAnonymous || s.Kind == ""
}

// IsUser reports whether an end-user is signed in.
// INVARIANT: Session fields are not mutated
func (s *Session) IsUser() bool {
	return s.Kind == KindUser
}

// IsAdmin reports whether an admin is signed in. Protected admin views must
// NOT rely on this alone: the stored role can be stale or tampered with, so
// the admin gate re-verifies against the backend on every access.
// INVARIANT: Session fields are not mutated
func (s *Session) IsAdmin() bool {
	return s.Kind == KindAdmin
}

// IsExpired reports whether the session has outlived its lifetime.
// INVARIANT: Session fields are not mutated
func (s *Session) IsExpired(now time.Time) bool {
	if s.IsAnonymous() {
		return false
	}
	return now.Sub(s.CreatedAt) > MaxAge
}
