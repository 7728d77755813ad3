package model

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenMalformed     = errors.New("token malformed")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrCodeInvalid        = errors.New("one-time code invalid")
)
