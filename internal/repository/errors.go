// Package repository is the data access layer over MySQL.  Sentinel
// errors declared here let handlers map failure shapes to HTTP codes
// without string matching.
package repository

import "errors"

// ErrEventNotFound is returned when an event ID resolves to no row.
// Handlers translate it into HTTP 404.
var ErrEventNotFound = errors.New("event not found")

// ErrResourceNotFound is returned when a resource ID resolves to no
// row.  Handlers translate it into HTTP 404.
var ErrResourceNotFound = errors.New("resource not found")

// ErrProfileNotFound is returned when an account exists in the auth
// tables but has no profile row.  Callers usually react by lazily
// creating the profile rather than surfacing the error.
var ErrProfileNotFound = errors.New("profile not found")

// ErrEmailExists is returned when registration collides with an
// existing account.  Handlers translate it into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrForbidden is returned when the caller attempts an operation on a
// record owned by someone else.  Handlers translate it into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrNotificationNotFound is returned when a notification ID does not
// exist for the acting user.
var ErrNotificationNotFound = errors.New("notification not found")
