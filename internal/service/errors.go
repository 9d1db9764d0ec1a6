package service

import "errors"

// Client-error taxonomy shared by handlers. Handlers translate these to HTTP
// status codes; anything else is a 500.
var (
	// ErrNotFound means the referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the entity exists but the caller lacks rights.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict means a uniqueness constraint was violated (duplicate email).
	ErrConflict = errors.New("conflict")
	// ErrVersionConflict means the caller supplied a stale expected_version.
	ErrVersionConflict = errors.New("version conflict")
	// ErrInvalidCredentials means login failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
