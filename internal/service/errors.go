package service

import "errors"

// Sentinel service errors; the transport layer maps them to HTTP statuses
// (401 for the credential family, 404 for missing rows, 400 for the rest).
var (
	ErrMissingCredentials = errors.New("missing credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrWrongCredentials   = errors.New("wrong credentials")
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("bad request")
	ErrRegistration       = errors.New("registration failed")
)
