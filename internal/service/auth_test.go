package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/model"
	"backoffice/internal/testutil"
	"backoffice/internal/totp"
)

func newAuth(t *testing.T) *Auth {
	t.Helper()
	creds := model.AdminCredentials{Username: "admin", Password: "hunter2", Subject: "1"}
	deriver := totp.NewDeriver("master-seed", "RIT-UTILS")
	return NewAuth(creds, deriver, 1, testutil.MakeNoopLogger())
}

func TestAuth_CheckCredentials(t *testing.T) {
	a := newAuth(t)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "valid", username: "admin", password: "hunter2", wantErr: nil},
		{name: "wrong password", username: "admin", password: "hunter3", wantErr: model.ErrInvalidCredentials},
		{name: "wrong username", username: "root", password: "hunter2", wantErr: model.ErrInvalidCredentials},
		{name: "both empty", username: "", password: "", wantErr: model.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := a.CheckCredentials(tt.username, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestAuth_VerifyCode_DerivedSecret(t *testing.T) {
	a := newAuth(t)

	secret := a.deriver.DeriveSecret("admin")
	code, err := totp.CodeAt(secret, time.Now())
	require.NoError(t, err)

	// Empty secret falls back to the admin's derived one.
	assert.NoError(t, a.VerifyCode("", code))
	assert.ErrorIs(t, a.VerifyCode("", "000000"), model.ErrCodeInvalid)
}

func TestAuth_VerifyCode_ExplicitSecret(t *testing.T) {
	a := newAuth(t)

	other := totp.NewDeriver("other-seed", "RIT-UTILS").DeriveSecret("admin")
	code, err := totp.CodeAt(other, time.Now())
	require.NoError(t, err)

	assert.NoError(t, a.VerifyCode(other, code))
	// The same code fails against the admin's own secret.
	assert.ErrorIs(t, a.VerifyCode("", code), model.ErrCodeInvalid)
}

func TestAuth_Enrollment(t *testing.T) {
	a := newAuth(t)

	enr, err := a.Enrollment()
	require.NoError(t, err)

	assert.Len(t, enr.Secret, 32)
	assert.Equal(t, enr.Secret, a.deriver.DeriveSecret("admin"))
	assert.True(t, strings.HasPrefix(enr.URI, "otpauth://totp/"))
	assert.Contains(t, enr.URI, "RIT-UTILS")
	assert.Contains(t, enr.URI, enr.Secret)
	assert.NotEmpty(t, enr.QRPNG)
}

func TestAuth_Subject(t *testing.T) {
	assert.Equal(t, "1", newAuth(t).Subject())
}
