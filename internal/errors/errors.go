package errors

import (
	"errors"
	"fmt"
)

// Common error types for the rental site
var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTooManyAttempts    = errors.New("too many login attempts")

	// Configuration errors
	ErrMissingSecret   = errors.New("session signing secret is not configured")
	ErrMissingPassword = errors.New("admin password is not configured")

	// Lead errors
	ErrInvalidLead   = errors.New("invalid lead")
	ErrInvalidStatus = errors.New("invalid lead status")

	// Catalog errors
	ErrInvalidCatalog = errors.New("invalid catalog entry")
	ErrCategoryInUse  = errors.New("category still has machinery")

	// Company content errors
	ErrInvalidDocument = errors.New("invalid document")

	// Notification errors
	ErrNotificationFailed = errors.New("lead notification failed")

	// General errors
	ErrConflict = errors.New("already exists")
	ErrNotFound = errors.New("not found")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
