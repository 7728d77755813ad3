package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"backoffice/internal/logger"
	"backoffice/internal/model"
	"backoffice/internal/token"
)

// TokenService provides high-level operations for issuing, refreshing, and
// revoking session tokens. It composes the TokenManager and RevocationStore.
type TokenService struct {
	manager model.TokenManager
	store   model.RevocationStore
	logger  *logger.Logger
}

func NewTokenService(manager model.TokenManager, store model.RevocationStore, logger *logger.Logger) *TokenService {
	return &TokenService{manager: manager, store: store, logger: logger}
}

// IssuePair mints a fresh access/refresh token pair for the subject.
func (s *TokenService) IssuePair(ctx context.Context, subject string) (accessToken string, refreshToken string, err error) {
	access, err := s.manager.Issue(subject, model.KindAccess)
	if err != nil {
		return "", "", fmt.Errorf("issue access: %w", err)
	}

	refresh, err := s.manager.Issue(subject, model.KindRefresh)
	if err != nil {
		return "", "", fmt.Errorf("issue refresh: %w", err)
	}

	return access, refresh, nil
}

// Refresh validates a presented refresh token and mints a new access token
// with a fresh JTI. The refresh token itself is left in place: reuse is
// allowed until logout (no rotation in this design).
func (s *TokenService) Refresh(ctx context.Context, presentedRefresh string) (newAccess string, err error) {
	revoked, err := s.store.IsRevoked(ctx, fingerprint(presentedRefresh))
	if err != nil {
		return "", fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return "", model.ErrTokenRevoked
	}

	claims, err := s.manager.Decode(presentedRefresh, model.KindRefresh)
	if err != nil {
		return "", err
	}

	access, err := s.manager.Issue(claims.Subject, model.KindAccess)
	if err != nil {
		return "", fmt.Errorf("issue new access: %w", err)
	}

	return access, nil
}

// RevokeByToken adds the presented refresh token to the revocation set.
// An expired token needs no revocation; a malformed one is revoked with a
// conservative expiry bound so even an undecodable value stays rejected.
func (s *TokenService) RevokeByToken(ctx context.Context, presentedRefresh string) error {
	expiresAt := time.Now().Add(token.RefreshTTL)

	claims, err := s.manager.Decode(presentedRefresh, model.KindRefresh)
	switch {
	case err == nil:
		expiresAt = claims.ExpiresAt
	case errors.Is(err, model.ErrTokenExpired):
		return nil
	default:
		s.logger.Debug("Token service: revoking undecodable refresh token", "error", err.Error())
	}

	if err := s.store.Revoke(ctx, fingerprint(presentedRefresh), expiresAt); err != nil {
		return fmt.Errorf("revoke refresh: %w", err)
	}

	return nil
}

// IsRevoked reports whether the presented refresh token has been revoked.
func (s *TokenService) IsRevoked(ctx context.Context, presentedRefresh string) (bool, error) {
	return s.store.IsRevoked(ctx, fingerprint(presentedRefresh))
}

// GetSubject decodes an access token and returns its subject.
func (s *TokenService) GetSubject(ctx context.Context, accessToken string) (string, error) {
	claims, err := s.manager.Decode(accessToken, model.KindAccess)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// fingerprint keys the revocation set off a digest so raw bearer tokens
// never sit in the store.
func fingerprint(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}
