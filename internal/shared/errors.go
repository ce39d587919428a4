package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrVersionMismatch occurs when a quote event carries a stale version snapshot.
	ErrVersionMismatch = errors.New("version mismatch")
	// ErrForbidden indicates the caller lacks permission for the resource.
	ErrForbidden = errors.New("forbidden")
)
