// Package service holds the identity and access rules that sit between the
// HTTP handlers and the repositories: credential lifecycle, identity
// resolution and the per-resource ownership check.
package service

import "errors"

var (
	// ErrUnauthorized means a verified token no longer maps to a live identity.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrConflict is returned when the email is already registered.
	ErrConflict = errors.New("email already registered")
	// ErrNotFound means the resource under an ownership check does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the requester does not own the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidProductKey rejects an elevated signup without a matching key.
	ErrInvalidProductKey = errors.New("invalid product key")
)
