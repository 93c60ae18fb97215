package types

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNoCredential    = errors.New("login response did not include a token")
)
