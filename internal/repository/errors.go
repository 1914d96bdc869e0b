// Package repository defines error types that are reused across multiple
// repositories.  Handlers and services translate them into HTTP outcomes.
package repository

import "errors"

// ErrHomeNotFound is returned when a home id matches no row.
var ErrHomeNotFound = errors.New("home not found")
