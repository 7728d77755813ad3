package model

import (
	"context"
	"time"
)

// RevocationStore tracks refresh tokens invalidated before their natural
// expiry. Tokens are keyed by fingerprint (a digest of the raw token), and
// each entry carries the token's embedded expiry so implementations can
// prune entries that could no longer be honored anyway.
type RevocationStore interface {
	// Revoke marks a token fingerprint as revoked. Idempotent.
	Revoke(ctx context.Context, fingerprint string, expiresAt time.Time) error
	// IsRevoked reports whether the fingerprint has been revoked and is
	// still within its natural lifetime.
	IsRevoked(ctx context.Context, fingerprint string) (bool, error)
	// Close releases any underlying resources.
	Close() error
}
