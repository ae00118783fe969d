package session

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"diylab/internal/adapters/storage"
	"diylab/internal/domain/identity"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open test DB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.MigrateDB(db); err != nil {
		t.Fatalf("migrate test DB: %v", err)
	}
	return NewSQLiteStore(db)
}

func userSession(token string) identity.Session {
	return identity.Session{
		Token:         token,
		Identity:      identity.Identity{ID: "u1", Email: "u@example.com", Role: identity.RoleUser},
		Kind:          identity.KindUser,
		BackendCookie: "backend_session=abc",
		CreatedAt:     time.Now().UTC().Truncate(time.Millisecond),
	}
}

func TestSaveGetRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	want := userSession("tok-1")
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Get(ctx, "tok-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Identity != want.Identity || got.Kind != want.Kind || got.BackendCookie != want.BackendCookie {
		t.Errorf("round trip mismatch: got %+v want %+v", got, want)
	}
}

func TestGetMissing(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveLastWriteWins(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := userSession("tok-1")
	if err := store.Save(ctx, first); err != nil {
		t.Fatal(err)
	}

	second := identity.Session{
		Token:     "tok-1",
		Identity:  identity.Identity{Role: identity.RoleAdmin},
		Kind:      identity.KindAdmin,
		CreatedAt: time.Now().UTC(),
	}
	if err := store.Save(ctx, second); err != nil {
		t.Fatal(err)
	}

	got, err := store.Get(ctx, "tok-1")
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsAdmin() {
		t.Errorf("expected the later write to win, got %+v", got)
	}
}

func TestMalformedRowReadsAsNotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Write a row whose kind disagrees with its identity shape.
	db := store.db
	_, err := db.ExecContext(ctx,
		"INSERT INTO gateway_session (token, identity_id, email, role, kind, backend_cookie, created_at) VALUES (?, '', '', '', 'admin', '', ?)",
		"tok-bad", time.Now().UTC().Format(timeLayout))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := store.Get(ctx, "tok-bad"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("malformed row must read as not found, got %v", err)
	}

	// Unparseable timestamp likewise.
	_, err = db.ExecContext(ctx,
		"INSERT INTO gateway_session (token, identity_id, email, role, kind, backend_cookie, created_at) VALUES (?, 'u1', 'u@example.com', 'USER', 'user', '', 'garbage')",
		"tok-bad-2")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get(ctx, "tok-bad-2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unparseable timestamp must read as not found, got %v", err)
	}
}

func TestDeleteIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, userSession("tok-1")); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(ctx, "tok-1"); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := store.Delete(ctx, "tok-1"); err != nil {
		t.Fatalf("second delete must not error: %v", err)
	}
	if _, err := store.Get(ctx, "tok-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestDeleteExpired(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	old := userSession("tok-old")
	old.CreatedAt = time.Now().UTC().Add(-48 * time.Hour)
	fresh := userSession("tok-fresh")
	if err := store.Save(ctx, old); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(ctx, fresh); err != nil {
		t.Fatal(err)
	}

	n, err := store.DeleteExpired(ctx, time.Now().UTC().Add(-identity.MaxAge))
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 swept session, got %d", n)
	}
	if _, err := store.Get(ctx, "tok-fresh"); err != nil {
		t.Fatalf("fresh session must survive sweep: %v", err)
	}
}

// A session created on a whole second must sort before a cutoff with a
// fraction in the same second; the stored format is fixed-width so the
// string comparison in the DELETE agrees with time order.
func TestDeleteExpiredWholeSecondBoundary(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	onTheSecond := userSession("tok-boundary")
	onTheSecond.CreatedAt = time.Now().UTC().Add(-identity.MaxAge).Truncate(time.Second)
	if err := store.Save(ctx, onTheSecond); err != nil {
		t.Fatal(err)
	}

	cutoff := onTheSecond.CreatedAt.Add(500 * time.Millisecond)
	n, err := store.DeleteExpired(ctx, cutoff)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if n != 1 {
		t.Fatalf("session on the second boundary not swept, got %d deletions", n)
	}
	if _, err := store.Get(ctx, "tok-boundary"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after sweep, got %v", err)
	}
}
