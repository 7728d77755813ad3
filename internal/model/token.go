package model

import "time"

// TokenKind discriminates the two session token flavors.
type TokenKind string

const (
	// KindAccess is the short-lived token checked on every protected request.
	KindAccess TokenKind = "access"
	// KindRefresh is the long-lived token used only to mint new access tokens.
	KindRefresh TokenKind = "refresh"
)

// TokenClaims is the decoded content of a session token.
type TokenClaims struct {
	Subject   string
	JTI       string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenManager issues and validates signed session tokens.
type TokenManager interface {
	Issue(subject string, kind TokenKind) (string, error)
	Decode(token string, kind TokenKind) (TokenClaims, error)
}
