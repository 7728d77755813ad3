package revocation

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var revokedBucket = []byte("revoked_tokens")

// Bolt is a file-backed revocation set. Unlike Memory it survives process
// restarts, so a logged-out refresh token stays rejected across deploys.
type Bolt struct {
	db  *bolt.DB
	now func() time.Time
}

// NewBolt opens (or creates) the revocation database at path.
func NewBolt(path string) (*Bolt, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open revocation db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(revokedBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create revocation bucket: %w", err)
	}

	return &Bolt{db: db, now: time.Now}, nil
}

// Revoke marks the fingerprint as revoked until expiresAt. Idempotent.
func (b *Bolt) Revoke(ctx context.Context, fingerprint string, expiresAt time.Time) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(revokedBucket)
		b.pruneBucket(bucket)

		var value [8]byte
		binary.BigEndian.PutUint64(value[:], uint64(expiresAt.Unix()))
		return bucket.Put([]byte(fingerprint), value[:])
	})
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	return nil
}

// IsRevoked reports whether the fingerprint is revoked and still within
// its natural lifetime.
func (b *Bolt) IsRevoked(ctx context.Context, fingerprint string) (bool, error) {
	var revoked bool
	err := b.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket(revokedBucket).Get([]byte(fingerprint))
		if value == nil {
			return nil
		}
		expiresAt := time.Unix(int64(binary.BigEndian.Uint64(value)), 0)
		revoked = !b.now().After(expiresAt)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to check revocation: %w", err)
	}

	return revoked, nil
}

// Close closes the underlying database.
func (b *Bolt) Close() error {
	return b.db.Close()
}

// pruneBucket drops entries whose token would have expired on its own.
// Runs inside a write transaction on every Revoke; the set is small enough
// that a full scan is cheaper than bookkeeping an index.
func (b *Bolt) pruneBucket(bucket *bolt.Bucket) {
	now := b.now()
	c := bucket.Cursor()
	for k, v := c.First(); k != nil; k, v = c.Next() {
		expiresAt := time.Unix(int64(binary.BigEndian.Uint64(v)), 0)
		if now.After(expiresAt) {
			_ = c.Delete()
		}
	}
}
