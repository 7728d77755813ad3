package service

import (
	"crypto/subtle"
	"fmt"

	"backoffice/internal/logger"
	"backoffice/internal/model"
	"backoffice/internal/totp"
)

// Auth implements the credential and two-factor checks of the login flow.
type Auth struct {
	creds   model.AdminCredentials
	deriver *totp.Deriver
	skew    uint
	logger  *logger.Logger
}

func NewAuth(creds model.AdminCredentials, deriver *totp.Deriver, skew uint, logger *logger.Logger) *Auth {
	return &Auth{
		creds:   creds,
		deriver: deriver,
		skew:    skew,
		logger:  logger,
	}
}

// CheckCredentials compares submitted credentials against the configured
// admin identity. Comparison is constant-time; the match itself is plain
// equality, there is no password hashing in this design.
func (a *Auth) CheckCredentials(username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.creds.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.creds.Password)) == 1
	if !userOK || !passOK {
		a.logger.Info("Auth service: credential check failed", "username", username)
		return model.ErrInvalidCredentials
	}

	a.logger.Debug("Auth service: credentials accepted", "username", username)
	return nil
}

// VerifyCode checks a submitted one-time code. When secret is empty the
// admin's derived secret is used; otherwise the caller-provided one (the
// enrollment flow carries it in a short-lived cookie).
func (a *Auth) VerifyCode(secret, code string) error {
	if secret == "" {
		secret = a.deriver.DeriveSecret(a.creds.Username)
	}

	if !totp.Verify(secret, code, a.skew) {
		a.logger.Info("Auth service: one-time code rejected", "username", a.creds.Username)
		return model.ErrCodeInvalid
	}

	a.logger.Debug("Auth service: one-time code accepted", "username", a.creds.Username)
	return nil
}

// Enrollment describes the material rendered on the 2FA setup page.
type Enrollment struct {
	Secret string
	URI    string
	QRPNG  string // base64-encoded PNG
}

// Enrollment derives the admin's secret and builds the provisioning URI
// and QR code for the setup page.
func (a *Auth) Enrollment() (Enrollment, error) {
	secret := a.deriver.DeriveSecret(a.creds.Username)

	key, err := a.deriver.ProvisioningKey(a.creds.Username, secret)
	if err != nil {
		return Enrollment{}, fmt.Errorf("build provisioning key: %w", err)
	}

	qr, err := totp.QRCodePNG(key, 200)
	if err != nil {
		return Enrollment{}, fmt.Errorf("render enrollment QR: %w", err)
	}

	return Enrollment{
		Secret: secret,
		URI:    key.URL(),
		QRPNG:  qr,
	}, nil
}

// Subject is the opaque identifier embedded in session tokens.
func (a *Auth) Subject() string {
	return a.creds.Subject
}
