package api

import (
	"encoding/base64"
	"net/http"
	"strings"
)

// Cookie names. Everything the login flow tracks between requests lives
// here; the server itself stays stateless apart from the revocation set.
const (
	accessCookie     = "access_token"
	refreshCookie    = "refresh_token"
	pendingCookie    = "auth_pending"
	configuredCookie = "2fa_configured"
	totpSecretCookie = "user_totp_secret"
	verifiedCookie   = "2fa_verified"
)

// Max-Age values in seconds. sessionCookie means the cookie dies with the
// browser session.
const (
	sessionCookie = 0
	pendingTTL    = 300
	totpSecretTTL = 300
	configuredTTL = 365 * 24 * 60 * 60
	accessTTL     = 15 * 60
	refreshTTL    = 7 * 24 * 60 * 60
	flashTTL      = 10
)

// requestIsSecure reports whether the request arrived over HTTPS, either
// directly or behind a terminating proxy.
func requestIsSecure(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// setCookie writes an HTTP-only cookie whose Secure/SameSite policy adapts
// to the request: strict over HTTPS, lax over plain HTTP so the flow stays
// usable in local deployments.
func setCookie(w http.ResponseWriter, r *http.Request, name, value string, maxAge int) {
	secure := requestIsSecure(r)
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteStrictMode
	}

	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
	})
}

func clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	secure := requestIsSecure(r)
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteStrictMode
	}

	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
	})
}

func cookieValue(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// setFlash stores a short status message for the next page load. Base64
// keeps arbitrary UTF-8 text inside the cookie value charset.
func setFlash(w http.ResponseWriter, r *http.Request, name, message string) {
	encoded := base64.StdEncoding.EncodeToString([]byte(message))
	setCookie(w, r, name, encoded, flashTTL)
}

// popFlash reads, decodes, and clears a status message cookie.
func popFlash(w http.ResponseWriter, r *http.Request, name string) string {
	encoded := cookieValue(r, name)
	if encoded == "" {
		return ""
	}
	clearCookie(w, r, name)

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return ""
	}
	return string(decoded)
}
