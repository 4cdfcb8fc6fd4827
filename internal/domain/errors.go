package domain

import "errors"

// Sentinel errors shared across services, repositories and handlers.
// ErrNotFound deliberately covers both "does not exist" and "exists but is
// owned by someone else" so that handlers never reveal another user's data.
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrValidation         = errors.New("validation failed")
)
