// Package api is the HTTP surface of the back office: the login/2FA flow
// and the form pages for reports and document generation. All state the
// flow needs travels in cookies; the server keeps only the revocation set.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"backoffice/internal/logger"
	"backoffice/internal/metrics"
	"backoffice/internal/render"
	"backoffice/internal/service"
)

// API wires services, the template renderer, and configuration for the
// HTTP handlers.
type API struct {
	auth      *service.Auth
	tokens    *service.TokenService
	reports   *service.Report
	documents *service.Documents
	renderer  *render.Engine
	logger    *logger.Logger
}

func New(
	auth *service.Auth,
	tokens *service.TokenService,
	reports *service.Report,
	documents *service.Documents,
	renderer *render.Engine,
	logger *logger.Logger,
) *API {
	return &API{
		auth:      auth,
		tokens:    tokens,
		reports:   reports,
		documents: documents,
		renderer:  renderer,
		logger:    logger,
	}
}

// Routes constructs the chi router containing all endpoints.
func (a *API) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(requestLogger(a.logger))
	r.Use(chimw.Recoverer)

	r.Get("/", a.Root)
	r.Post("/login", a.Login)
	r.Post("/refresh", a.Refresh)
	r.Get("/2fa", a.TwoFactorPage)
	r.Post("/2fa", a.TwoFactorVerify)
	r.Get("/setup-session", a.SetupSession)
	r.Get("/configure-2fa", a.ConfigureTwoFactor)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler())

	r.Group(func(pr chi.Router) {
		pr.Use(a.RequireSession)

		pr.Get("/home", a.Home)
		pr.Get("/setup-2fa", a.SetupTwoFactor)
		pr.Post("/logout", a.Logout)

		pr.Get("/send_email", a.ReportPage)
		pr.Post("/send_email", a.SendReport)
		pr.Get("/gen_rit_cert", a.CertificatePage)
		pr.Post("/gen_rit_cert", a.GenerateCertificate)
		pr.Get("/doctor_form", a.CardsPage)
		pr.Post("/doctor_form", a.GenerateCards)
	})

	return r
}

// renderPage executes a template and writes it with the given status.
func (a *API) renderPage(w http.ResponseWriter, status int, name string, data any) {
	page, err := a.renderer.Render(name, data)
	if err != nil {
		a.logger.Error("API: failed to render page", "template", name, "error", err.Error())
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(page)
}
