package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config contains server configuration parameters.
type Config struct {
	LogLevel   int        `env:"LOG_LEVEL" envDefault:"0"`
	HTTP       HTTP       `envPrefix:"HTTP_"`
	Auth       Auth       `envPrefix:"AUTH_"`
	JWT        JWT        `envPrefix:"JWT_"`
	TOTP       TOTP       `envPrefix:"TOTP_"`
	SMTP       SMTP       `envPrefix:"SMTP_"`
	Docs       Docs       `envPrefix:"DOCS_"`
	Revocation Revocation `envPrefix:"REVOCATION_"`
}

// HTTP contains HTTP server parameters.
type HTTP struct {
	Port               string `env:"PORT" envDefault:"8080"`
	EnableHTTPS        bool   `env:"ENABLE_HTTPS" envDefault:"false"`
	CertFileName       string `env:"CERT_FILE_NAME" envDefault:"cert.pem"`
	PrivateKeyFileName string `env:"PRIVATE_KEY_FILE_NAME" envDefault:"key.pem"`
}

// Auth contains the single admin identity. The password is compared as-is
// against the login form; there is no hashing in this design.
type Auth struct {
	Username string `env:"USERNAME" envDefault:"admin"`
	Password string `env:"PASSWORD,required,notEmpty"`
}

// JWT contains session token parameters.
type JWT struct {
	Secret string `env:"SECRET" envDefault:"devsecret"`
}

// TOTP contains two-factor parameters. Secret is the master seed that
// per-user secrets are derived from; Skew is the accepted clock drift in
// 30-second steps on either side of now.
type TOTP struct {
	Secret string `env:"SECRET,required,notEmpty"`
	Issuer string `env:"ISSUER" envDefault:"RIT-UTILS"`
	Skew   uint   `env:"SKEW" envDefault:"1"`
}

// SMTP contains report mailing parameters.
type SMTP struct {
	Host     string `env:"HOST" envDefault:"smtp.yandex.ru"`
	Port     int    `env:"PORT" envDefault:"465"`
	From     string `env:"FROM"`
	Password string `env:"PASSWORD"`
	To       string `env:"TO"`
	Bcc      string `env:"BCC"`
}

// Docs contains document generation parameters.
type Docs struct {
	CertTemplate  string `env:"CERT_TEMPLATE" envDefault:"templates/certificate.pptx"`
	CardTemplate  string `env:"CARD_TEMPLATE" envDefault:"templates/doctor_form.pptx"`
	ConverterPath string `env:"CONVERTER_PATH"`
}

// Revocation contains revocation set persistence parameters. An empty path
// selects the in-memory store (revocations are lost on restart).
type Revocation struct {
	Path string `env:"PATH"`
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
