// Package totp implements two-factor secret derivation and one-time code
// verification. Per-user secrets are not stored anywhere: they are derived
// deterministically from a master seed, so the same username always
// enrolls with the same secret for a given deployment.
package totp

import (
	"bytes"
	"crypto/sha256"
	"encoding/base32"
	"encoding/base64"
	"fmt"
	"image/png"
	"net/url"
	"sync"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	// secretBytes is how much of the derivation hash becomes the secret.
	// 20 bytes matches the RFC 4226 recommended key size for SHA-1.
	secretBytes = 20

	period = 30
)

// Deriver computes and caches per-username TOTP secrets.
type Deriver struct {
	masterSeed string
	issuer     string

	mu    sync.Mutex
	cache map[string]string
}

// NewDeriver creates a Deriver for the given master seed. The issuer is the
// label shown by authenticator apps.
func NewDeriver(masterSeed, issuer string) *Deriver {
	return &Deriver{
		masterSeed: masterSeed,
		issuer:     issuer,
		cache:      make(map[string]string),
	}
}

// DeriveSecret returns the Base32 secret for a username. Deterministic:
// hash(master_seed ":" username) truncated, so no per-user state survives
// beyond the process cache.
func (d *Deriver) DeriveSecret(username string) string {
	d.mu.Lock()
	defer d.mu.Unlock()

	if secret, ok := d.cache[username]; ok {
		return secret
	}

	sum := sha256.Sum256([]byte(d.masterSeed + ":" + username))
	secret := base32.StdEncoding.EncodeToString(sum[:secretBytes])
	d.cache[username] = secret

	return secret
}

// ProvisioningKey builds the otpauth:// key for enrollment. The key renders
// both the manual code and the scannable QR image.
func (d *Deriver) ProvisioningKey(username, secret string) (*otp.Key, error) {
	v := url.Values{}
	v.Set("secret", secret)
	v.Set("issuer", d.issuer)
	v.Set("algorithm", otp.AlgorithmSHA1.String())
	v.Set("digits", otp.DigitsSix.String())
	v.Set("period", fmt.Sprintf("%d", period))

	u := url.URL{
		Scheme:   "otpauth",
		Host:     "totp",
		Path:     "/" + d.issuer + ":" + username,
		RawQuery: v.Encode(),
	}

	key, err := otp.NewKeyFromURL(u.String())
	if err != nil {
		return nil, fmt.Errorf("failed to build provisioning key: %w", err)
	}

	return key, nil
}

// QRCodePNG renders the provisioning key as a base64-encoded PNG suitable
// for inlining into an <img> tag.
func QRCodePNG(key *otp.Key, size int) (string, error) {
	img, err := key.Image(size, size)
	if err != nil {
		return "", fmt.Errorf("failed to render QR image: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode QR image: %w", err)
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// CodeAt returns the 6-digit code for a secret at the given time.
func CodeAt(secret string, t time.Time) (string, error) {
	code, err := totp.GenerateCodeCustom(secret, t, validateOpts(0))
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return code, nil
}

// Verify reports whether code matches the secret at any step within ±skew
// steps of now. Skew should stay at 1 or 2 steps; anything wider weakens the
// guarantee the second factor provides.
func Verify(secret, code string, skew uint) bool {
	return VerifyAt(secret, code, skew, time.Now())
}

// VerifyAt is Verify against an explicit reference time.
func VerifyAt(secret, code string, skew uint, at time.Time) bool {
	ok, err := totp.ValidateCustom(code, secret, at, validateOpts(skew))
	if err != nil {
		return false
	}
	return ok
}

func validateOpts(skew uint) totp.ValidateOpts {
	return totp.ValidateOpts{
		Period:    period,
		Skew:      skew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	}
}
