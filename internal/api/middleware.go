package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"backoffice/internal/logger"
	"backoffice/internal/model"
)

type contextKey int

const subjectKey contextKey = iota

// RequireSession guards protected pages with the access token cookie.
// Every failure fails closed to the entry point: an expired token gets a
// silent redirect (or a JSON 401 for the refresh script), anything
// malformed additionally clears the session cookies.
func (a *API) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accessToken := cookieValue(r, accessCookie)
		if accessToken == "" {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		subject, err := a.tokens.GetSubject(r.Context(), accessToken)
		if err != nil {
			a.handleDecodeFailure(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), subjectKey, subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *API) handleDecodeFailure(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, model.ErrTokenExpired) {
		if acceptsJSON(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "token expired"})
			return
		}
		clearCookie(w, r, accessCookie)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	a.logger.Info("API: rejecting malformed access token", "error", err.Error())
	clearCookie(w, r, accessCookie)
	clearCookie(w, r, refreshCookie)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// subjectFromContext returns the authenticated subject, or "" outside of
// RequireSession.
func subjectFromContext(ctx context.Context) string {
	subject, _ := ctx.Value(subjectKey).(string)
	return subject
}

func acceptsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// requestLogger logs one line per request with status and duration.
func requestLogger(l *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			l.Info("API: request handled",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start).String(),
			)
		})
	}
}
