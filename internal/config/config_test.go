package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("AUTH_PASSWORD", "hunter2")
	t.Setenv("TOTP_SECRET", "master-seed")
}

func TestNewConfig_DefaultValues(t *testing.T) {
	setRequired(t)

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.LogLevel)
	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, false, cfg.HTTP.EnableHTTPS)
	assert.Equal(t, "cert.pem", cfg.HTTP.CertFileName)
	assert.Equal(t, "key.pem", cfg.HTTP.PrivateKeyFileName)
	assert.Equal(t, "admin", cfg.Auth.Username)
	assert.Equal(t, "hunter2", cfg.Auth.Password)
	assert.Equal(t, "devsecret", cfg.JWT.Secret)
	assert.Equal(t, "master-seed", cfg.TOTP.Secret)
	assert.Equal(t, "RIT-UTILS", cfg.TOTP.Issuer)
	assert.Equal(t, uint(1), cfg.TOTP.Skew)
	assert.Equal(t, "smtp.yandex.ru", cfg.SMTP.Host)
	assert.Equal(t, 465, cfg.SMTP.Port)
	assert.Equal(t, "templates/certificate.pptx", cfg.Docs.CertTemplate)
	assert.Equal(t, "templates/doctor_form.pptx", cfg.Docs.CardTemplate)
	assert.Equal(t, "", cfg.Revocation.Path)
}

func TestNewConfig_EnvironmentOverrides(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		expected func(*Config)
	}{
		{
			name: "log level override",
			envVars: map[string]string{
				"LOG_LEVEL": "2",
			},
			expected: func(cfg *Config) {
				assert.Equal(t, 2, cfg.LogLevel)
			},
		},
		{
			name: "http config override",
			envVars: map[string]string{
				"HTTP_PORT":                  "9090",
				"HTTP_ENABLE_HTTPS":          "true",
				"HTTP_CERT_FILE_NAME":        "custom.pem",
				"HTTP_PRIVATE_KEY_FILE_NAME": "custom-key.pem",
			},
			expected: func(cfg *Config) {
				assert.Equal(t, "9090", cfg.HTTP.Port)
				assert.Equal(t, true, cfg.HTTP.EnableHTTPS)
				assert.Equal(t, "custom.pem", cfg.HTTP.CertFileName)
				assert.Equal(t, "custom-key.pem", cfg.HTTP.PrivateKeyFileName)
			},
		},
		{
			name: "auth config override",
			envVars: map[string]string{
				"AUTH_USERNAME": "backoffice",
			},
			expected: func(cfg *Config) {
				assert.Equal(t, "backoffice", cfg.Auth.Username)
			},
		},
		{
			name: "totp config override",
			envVars: map[string]string{
				"TOTP_ISSUER": "Example",
				"TOTP_SKEW":   "2",
			},
			expected: func(cfg *Config) {
				assert.Equal(t, "Example", cfg.TOTP.Issuer)
				assert.Equal(t, uint(2), cfg.TOTP.Skew)
			},
		},
		{
			name: "smtp config override",
			envVars: map[string]string{
				"SMTP_HOST": "smtp.example.com",
				"SMTP_PORT": "587",
				"SMTP_FROM": "reports@example.com",
				"SMTP_TO":   "boss@example.com",
				"SMTP_BCC":  "archive@example.com",
			},
			expected: func(cfg *Config) {
				assert.Equal(t, "smtp.example.com", cfg.SMTP.Host)
				assert.Equal(t, 587, cfg.SMTP.Port)
				assert.Equal(t, "reports@example.com", cfg.SMTP.From)
				assert.Equal(t, "boss@example.com", cfg.SMTP.To)
				assert.Equal(t, "archive@example.com", cfg.SMTP.Bcc)
			},
		},
		{
			name: "revocation config override",
			envVars: map[string]string{
				"REVOCATION_PATH": "/var/lib/backoffice/revoked.db",
			},
			expected: func(cfg *Config) {
				assert.Equal(t, "/var/lib/backoffice/revoked.db", cfg.Revocation.Path)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg, err := NewConfig()
			require.NoError(t, err)
			tt.expected(cfg)
		})
	}
}

func TestNewConfig_MissingRequired(t *testing.T) {
	t.Setenv("AUTH_PASSWORD", "hunter2")
	// TOTP_SECRET deliberately unset.
	t.Setenv("TOTP_SECRET", "")

	_, err := NewConfig()
	require.Error(t, err)
}
