package session

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"diylab/internal/adapters/storage"
	"diylab/internal/domain/identity"
)

// timeLayout is fixed-width UTC so stored timestamps compare correctly as
// strings; the trimmed ".999999999" form would sort a whole second after
// its own fractions.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new session store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get retrieves a session by token.
// POST: Returns the session, or ErrNotFound for missing AND malformed rows —
// a corrupted slot degrades to anonymous, never to a crash
func (s *SQLiteStore) Get(ctx context.Context, token string) (identity.Session, error) {
	query := "SELECT token, identity_id, email, role, kind, backend_cookie, created_at FROM gateway_session WHERE token = ?"
	row := s.db.QueryRowContext(ctx, query, token)

	var sess identity.Session
	var createdAt string
	err := row.Scan(&sess.Token, &sess.Identity.ID, &sess.Identity.Email, &sess.Identity.Role, &sess.Kind, &sess.BackendCookie, &createdAt)
	if err == sql.ErrNoRows {
		return identity.Session{}, ErrNotFound
	}
	if err != nil {
		return identity.Session{}, fmt.Errorf("failed to read session: %w", err)
	}

	sess.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return identity.Session{}, ErrNotFound
	}
	if sess.Validate() != nil {
		return identity.Session{}, ErrNotFound
	}
	return sess, nil
}

// Save persists a session to the slot (insert or overwrite).
// POST: The row for the token equals s; last write wins
func (s *SQLiteStore) Save(ctx context.Context, sess identity.Session) error {
	query := `INSERT INTO gateway_session (token, identity_id, email, role, kind, backend_cookie, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(token) DO UPDATE SET
		identity_id=excluded.identity_id,
		email=excluded.email,
		role=excluded.role,
		kind=excluded.kind,
		backend_cookie=excluded.backend_cookie,
		created_at=excluded.created_at`

	_, err := s.db.ExecContext(ctx, query,
		sess.Token,
		sess.Identity.ID,
		sess.Identity.Email,
		sess.Identity.Role,
		sess.Kind,
		sess.BackendCookie,
		sess.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete erases the slot for a token. Deleting an absent token is not an
// error; logout must be idempotent.
func (s *SQLiteStore) Delete(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM gateway_session WHERE token = ?", token)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes sessions created before the cutoff.
func (s *SQLiteStore) DeleteExpired(ctx context.Context, before time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM gateway_session WHERE created_at < ?", before.UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("failed to sweep sessions: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
