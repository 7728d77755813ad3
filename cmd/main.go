package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"backoffice/internal/api"
	"backoffice/internal/config"
	"backoffice/internal/convert"
	"backoffice/internal/logger"
	"backoffice/internal/mail"
	"backoffice/internal/model"
	"backoffice/internal/render"
	"backoffice/internal/revocation"
	"backoffice/internal/server"
	"backoffice/internal/service"
	"backoffice/internal/token"
	"backoffice/internal/totp"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	revocationStore, err := newRevocationStore(cfg.Revocation.Path)
	if err != nil {
		logger.Fatal("failed to initialize revocation store", "error", err)
	}
	defer revocationStore.Close()

	tokenManager := token.NewJWT(cfg.JWT.Secret)
	deriver := totp.NewDeriver(cfg.TOTP.Secret, cfg.TOTP.Issuer)
	creds := model.AdminCredentials{
		Username: cfg.Auth.Username,
		Password: cfg.Auth.Password,
		Subject:  "1",
	}

	authService := service.NewAuth(creds, deriver, cfg.TOTP.Skew, logger)
	tokenService := service.NewTokenService(tokenManager, revocationStore, logger)
	reportService := service.NewReport(mail.NewClient(cfg.SMTP), logger)

	// The converter binary is resolved lazily per conversion; a host
	// without LibreOffice still serves everything but certificates.
	if _, err := convert.Find(cfg.Docs.ConverterPath); err != nil {
		logger.Warn("slide deck converter not found, certificate generation unavailable", "error", err)
	}
	converter := convert.NewLibreOffice(cfg.Docs.ConverterPath)
	documentService := service.NewDocuments(converter, cfg.Docs.CertTemplate, cfg.Docs.CardTemplate, logger)

	renderer, err := render.New()
	if err != nil {
		logger.Fatal("failed to parse templates", "error", err)
	}

	a := api.New(authService, tokenService, reportService, documentService, renderer, logger)
	httpServer := server.NewHTTPServer(a.Routes(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer

	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(httpServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

// newRevocationStore selects the revocation backend: bbolt when a path is
// configured, otherwise in-memory.
func newRevocationStore(path string) (model.RevocationStore, error) {
	if path == "" {
		return revocation.NewMemory(), nil
	}
	return revocation.NewBolt(path)
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
