package api

import (
	"html/template"
	"net/http"

	"backoffice/internal/metrics"
)

const (
	errWrongCredentials = "Неверный логин или пароль"
	errWrongCode        = "Неверный код 2FA"
)

type loginPage struct {
	Error string
}

type twoFactorPage struct {
	Error string
}

type enrollmentPage struct {
	QRDataURI  template.URL
	ManualCode string
}

// Root shows the login page, or forwards straight to /home when an access
// cookie is already present (its validity is checked there).
func (a *API) Root(w http.ResponseWriter, r *http.Request) {
	if cookieValue(r, accessCookie) != "" {
		http.Redirect(w, r, "/home", http.StatusSeeOther)
		return
	}
	a.renderPage(w, http.StatusOK, "login.html", loginPage{})
}

// Login checks submitted credentials. On success it opens the short
// "pending" window and sends the client to 2FA verification, or to
// enrollment when this browser has never configured 2FA.
func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	if err := a.auth.CheckCredentials(username, password); err != nil {
		metrics.LoginAttempts.WithLabelValues(metrics.ResultError).Inc()
		a.renderPage(w, http.StatusUnauthorized, "login.html", loginPage{Error: errWrongCredentials})
		return
	}
	metrics.LoginAttempts.WithLabelValues(metrics.ResultOK).Inc()

	target := "/configure-2fa"
	if cookieValue(r, configuredCookie) != "" {
		target = "/2fa"
	}

	setCookie(w, r, pendingCookie, "true", pendingTTL)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// TwoFactorPage shows the one-time code prompt.
func (a *API) TwoFactorPage(w http.ResponseWriter, r *http.Request) {
	a.renderPage(w, http.StatusOK, "two_factor.html", twoFactorPage{})
}

// TwoFactorVerify checks the submitted code. The enrollment flow carries
// the freshly derived secret in a short-lived cookie; outside of it the
// admin's derived secret is used.
func (a *API) TwoFactorVerify(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	secret := cookieValue(r, totpSecretCookie)
	code := r.PostFormValue("token")

	if err := a.auth.VerifyCode(secret, code); err != nil {
		metrics.TwoFactorChecks.WithLabelValues(metrics.ResultError).Inc()
		a.renderPage(w, http.StatusUnauthorized, "two_factor.html", twoFactorPage{Error: errWrongCode})
		return
	}
	metrics.TwoFactorChecks.WithLabelValues(metrics.ResultOK).Inc()

	setCookie(w, r, verifiedCookie, "true", sessionCookie)
	http.Redirect(w, r, "/setup-session", http.StatusSeeOther)
}

// SetupSession finalizes the login: it requires the "verified" marker and
// only then issues the real session token pair.
func (a *API) SetupSession(w http.ResponseWriter, r *http.Request) {
	if cookieValue(r, verifiedCookie) != "true" {
		http.Redirect(w, r, "/2fa", http.StatusSeeOther)
		return
	}

	access, refresh, err := a.tokens.IssuePair(r.Context(), a.auth.Subject())
	if err != nil {
		a.logger.Error("API: failed to issue session tokens", "error", err.Error())
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	setCookie(w, r, accessCookie, access, accessTTL)
	setCookie(w, r, refreshCookie, refresh, refreshTTL)
	clearCookie(w, r, pendingCookie)
	metrics.SessionsIssued.Inc()

	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

// ConfigureTwoFactor renders the enrollment page during login. Reachable
// only inside the pending window opened by a successful credential check.
// Rendering it marks this browser as configured and stashes the secret for
// the verification step.
func (a *API) ConfigureTwoFactor(w http.ResponseWriter, r *http.Request) {
	if cookieValue(r, pendingCookie) == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	enrollment, err := a.auth.Enrollment()
	if err != nil {
		a.logger.Error("API: failed to build enrollment", "error", err.Error())
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	setCookie(w, r, totpSecretCookie, enrollment.Secret, totpSecretTTL)
	setCookie(w, r, configuredCookie, "true", configuredTTL)

	a.renderPage(w, http.StatusOK, "setup_2fa.html", enrollmentPage{
		QRDataURI:  template.URL("data:image/png;base64," + enrollment.QRPNG),
		ManualCode: enrollment.Secret,
	})
}

// SetupTwoFactor shows the same enrollment page to an already
// authenticated session (re-pairing a device). No cookies change.
func (a *API) SetupTwoFactor(w http.ResponseWriter, r *http.Request) {
	enrollment, err := a.auth.Enrollment()
	if err != nil {
		a.logger.Error("API: failed to build enrollment", "error", err.Error())
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	a.renderPage(w, http.StatusOK, "setup_2fa.html", enrollmentPage{
		QRDataURI:  template.URL("data:image/png;base64," + enrollment.QRPNG),
		ManualCode: enrollment.Secret,
	})
}

// Refresh mints a new access token from the refresh cookie. Absent,
// revoked, or undecodable refresh tokens all fail closed to the entry
// point; the refresh token itself is reusable until logout.
func (a *API) Refresh(w http.ResponseWriter, r *http.Request) {
	refreshToken := cookieValue(r, refreshCookie)
	if refreshToken == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	access, err := a.tokens.Refresh(r.Context(), refreshToken)
	if err != nil {
		metrics.TokenRefreshes.WithLabelValues(metrics.ResultError).Inc()
		a.logger.Info("API: refresh rejected", "error", err.Error())
		clearCookie(w, r, accessCookie)
		clearCookie(w, r, refreshCookie)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	metrics.TokenRefreshes.WithLabelValues(metrics.ResultOK).Inc()

	setCookie(w, r, accessCookie, access, accessTTL)
	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

// Logout revokes the refresh token and clears every session cookie.
func (a *API) Logout(w http.ResponseWriter, r *http.Request) {
	if refreshToken := cookieValue(r, refreshCookie); refreshToken != "" {
		if err := a.tokens.RevokeByToken(r.Context(), refreshToken); err != nil {
			a.logger.Error("API: failed to revoke refresh token", "error", err.Error())
		}
	}

	for _, name := range []string{accessCookie, refreshCookie, verifiedCookie, pendingCookie, totpSecretCookie} {
		clearCookie(w, r, name)
	}

	a.logger.Info("API: session closed", "subject", subjectFromContext(r.Context()))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Home is the landing page behind the session.
func (a *API) Home(w http.ResponseWriter, r *http.Request) {
	a.renderPage(w, http.StatusOK, "home.html", nil)
}
