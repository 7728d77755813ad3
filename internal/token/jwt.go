package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"backoffice/internal/model"
)

// Claims represents JWT claims with token type.
type Claims struct {
	jwt.RegisteredClaims
	TokenType string `json:"typ"`
}

// JWT implements model.TokenManager backed by symmetric HMAC. Tokens are
// bearer-equivalent: a valid, unexpired, unrevoked token is sufficient
// proof of identity.
type JWT struct {
	secretKey  string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

const (
	// AccessTTL bounds the window a stolen access token stays usable; it
	// also sets the cadence of the client refresh script.
	AccessTTL = 15 * time.Minute
	// RefreshTTL is how long a session survives without re-login.
	RefreshTTL = 7 * 24 * time.Hour
)

// NewJWT creates a new JWT token manager with the provided secret key.
func NewJWT(secretKey string) *JWT {
	return &JWT{
		secretKey:  secretKey,
		accessTTL:  AccessTTL,
		refreshTTL: RefreshTTL,
	}
}

// Issue creates a signed token of the given kind for the subject, with a
// freshly generated JTI.
func (j *JWT) Issue(subject string, kind model.TokenKind) (string, error) {
	ttl, err := j.ttlFor(kind)
	if err != nil {
		return "", err
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TokenType: string(kind),
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", kind, err)
	}

	return tokenString, nil
}

// Decode validates a token of the given kind and extracts its claims.
// Expiry is reported as model.ErrTokenExpired; every other failure (bad
// signature, wrong structure, kind mismatch) as model.ErrTokenMalformed,
// so callers can redirect silently on expiry but clear the session on
// anything else.
func (j *JWT) Decode(tokenString string, kind model.TokenKind) (model.TokenClaims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.TokenClaims{}, fmt.Errorf("%w: %s", model.ErrTokenExpired, kind)
		}
		return model.TokenClaims{}, fmt.Errorf("%w: %s", model.ErrTokenMalformed, err)
	}
	if !token.Valid {
		return model.TokenClaims{}, fmt.Errorf("%w: token invalid", model.ErrTokenMalformed)
	}
	if claims.TokenType != string(kind) {
		return model.TokenClaims{}, fmt.Errorf("%w: token type mismatch: %s", model.ErrTokenMalformed, claims.TokenType)
	}

	decoded := model.TokenClaims{
		Subject: claims.Subject,
		JTI:     claims.ID,
	}
	if claims.IssuedAt != nil {
		decoded.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		decoded.ExpiresAt = claims.ExpiresAt.Time
	}

	return decoded, nil
}

func (j *JWT) ttlFor(kind model.TokenKind) (time.Duration, error) {
	switch kind {
	case model.KindAccess:
		return j.accessTTL, nil
	case model.KindRefresh:
		return j.refreshTTL, nil
	default:
		return 0, fmt.Errorf("unknown token kind %q", kind)
	}
}
