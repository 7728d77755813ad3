// Package revocation provides stores for refresh tokens invalidated ahead
// of their natural expiry. Both backends prune entries lazily once the
// token's own deadline passes, so the set stays bounded by the refresh TTL.
package revocation

import (
	"context"
	"sync"
	"time"
)

// Memory is a process-wide in-memory revocation set. State is lost on
// restart; use Bolt when revocations must survive one.
type Memory struct {
	mu      sync.Mutex
	revoked map[string]time.Time

	now func() time.Time
}

// NewMemory creates an empty in-memory revocation store.
func NewMemory() *Memory {
	return &Memory{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Revoke marks the fingerprint as revoked until expiresAt. Idempotent.
func (m *Memory) Revoke(ctx context.Context, fingerprint string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.prune()
	m.revoked[fingerprint] = expiresAt

	return nil
}

// IsRevoked reports whether the fingerprint is revoked and still within
// its natural lifetime.
func (m *Memory) IsRevoked(ctx context.Context, fingerprint string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.prune()
	_, ok := m.revoked[fingerprint]

	return ok, nil
}

// Close implements model.RevocationStore. No-op for the memory backend.
func (m *Memory) Close() error {
	return nil
}

// prune drops entries whose token would have expired on its own. Caller
// must hold the mutex.
func (m *Memory) prune() {
	now := m.now()
	for fingerprint, expiresAt := range m.revoked {
		if now.After(expiresAt) {
			delete(m.revoked, fingerprint)
		}
	}
}
