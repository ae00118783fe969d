package session

import (
	"context"
	"errors"
	"time"

	"diylab/internal/domain/identity"
)

// ErrNotFound is returned when no usable session exists for a token.
// Malformed rows are reported as not found, never as a fatal error.
var ErrNotFound = errors.New("session not found")

// Store persists the durable session slot. One row per gateway session;
// Save is last-write-wins with no versioning.
type Store interface {
	Get(ctx context.Context, token string) (identity.Session, error)
	Save(ctx context.Context, s identity.Session) error
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, before time.Time) (int, error)
}
