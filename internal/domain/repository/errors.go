// Package repository contains the repository interfaces and related errors.
package repository

import "errors"

// Repository errors define common error conditions across all repositories.
// These errors are used to communicate specific failure conditions
// from the data access layer to the application layer.

var (
	// ErrShipmentNotFound is returned when a shipment cannot be found by ID
	// or tracking number.
	ErrShipmentNotFound = errors.New("shipment not found")

	// ErrDuplicateTrackingNumber is returned when trying to create a shipment
	// with a tracking number that already exists. Callers generating tracking
	// numbers treat it as retryable.
	ErrDuplicateTrackingNumber = errors.New("tracking number already exists")

	// ErrOptimisticLock is returned when an update fails due to
	// a version mismatch (concurrent modification).
	ErrOptimisticLock = errors.New("optimistic lock conflict: record was modified by another transaction")

	// ErrConnectionFailed is returned when the database connection fails.
	ErrConnectionFailed = errors.New("database connection failed")

	// ErrInvalidInput is returned when repository receives invalid input.
	ErrInvalidInput = errors.New("invalid input provided")
)

// IsNotFoundError checks if the error is a not found error.
//
// Parameters:
//   - err: error to check
//
// Returns:
//   - bool: true if the error indicates a resource was not found
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrShipmentNotFound)
}

// IsDuplicateError checks if the error is a duplicate entry error.
//
// Parameters:
//   - err: error to check
//
// Returns:
//   - bool: true if the error indicates a duplicate key violation
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicateTrackingNumber)
}

// IsConflictError checks if the error is caused by concurrent modification.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrOptimisticLock)
}
