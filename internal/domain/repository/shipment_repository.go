// Package repository contains the repository interfaces (ports) for data access.
package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hapkiduki/freight-go/internal/domain/entity"
	"github.com/hapkiduki/freight-go/internal/domain/valueobject"
)

// ShipmentFilter contains criteria for filtering shipments.
type ShipmentFilter struct {
	// Status filters shipments by status.
	Status *entity.ShipmentStatus

	// FreightMode filters shipments by freight mode.
	FreightMode *valueobject.FreightMode

	// Origin filters shipments collected at this location.
	Origin string

	// Destination filters shipments delivered to this location.
	Destination string

	// SearchTerm searches in tracking number, sender and receiver.
	SearchTerm string

	// Limit specifies the maximum number of results
	Limit int

	// Offset specifies the starting position for pagination
	Offset int

	// SortBy specifies the field to sort by
	SortBy string

	// SortOrder specifies ascending ("asc") or descending ("desc")
	SortOrder string
}

// TrackingNumberChecker answers whether a tracking number is already taken.
// It is the only storage capability tracking number generation needs.
type TrackingNumberChecker interface {
	// ExistsByTrackingNumber checks for a shipment with exactly this tracking number.
	//
	// Parameters:
	//   - ctx: context for cancellation and deadlines
	//   - trackingNumber: the candidate tracking number
	//
	// Returns:
	//   - bool: true if a shipment already uses it
	//   - error: any error encountered during the check
	ExistsByTrackingNumber(ctx context.Context, trackingNumber valueobject.TrackingNumber) (bool, error)
}

// ShipmentRepository defines the interface for shipment persistance operations.
// It abstracts the data access layer for shipment entities.
//
// Example usage:
//
//	repo, err := sqlite.NewShipmentRepository(db)
//	shipment, err := repo.GetByTrackingNumber(ctx, "WW123456782")
type ShipmentRepository interface {
	TrackingNumberChecker

	// Create persists a new shipment to the data store.
	// The store enforces tracking number uniqueness.
	//
	// Parameters:
	//   - ctx: context for cancellation and deadlines
	//   - shipment: The shipment to create
	//
	// Returns:
	//   - error: ErrDuplicateTrackingNumber if the tracking number is taken
	Create(ctx context.Context, shipment *entity.Shipment) error

	// GetByID retrieves a shipment by its unique identifier.
	//
	// Parameters:
	//   - ctx: context for cancellation and deadlines
	//   - id: The shipment's UUID
	//
	// Returns:
	//   - *entity.Shipment: The retrieved shipment
	//   - error: ErrShipmentNotFound if shipment doesn't exist
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Shipment, error)

	// GetByTrackingNumber retrieves a shipment by its tracking number.
	//
	// Parameters:
	//   - ctx: context for cancellation and deadlines
	//   - trackingNumber: The shipment's tracking number
	//
	// Returns:
	//   - *entity.Shipment: The retrieved shipment
	//   - error: ErrShipmentNotFound if shipment doesn't exist
	GetByTrackingNumber(ctx context.Context, trackingNumber valueobject.TrackingNumber) (*entity.Shipment, error)

	// Update persists changes to an existing shipment.
	// The tracking number is never updated.
	//
	// Parameters:
	//   - ctx: context for cancellation and deadlines
	//   - shipment: The shipment to update
	//
	// Returns:
	//   - error: ErrOptimisticLock if version mismatch
	Update(ctx context.Context, shipment *entity.Shipment) error

	// Delete removes a shipment from the data store.
	//
	// Parameters:
	//   - ctx: context for cancellation and deadlines
	//   - id: The shipment's UUID
	//
	// Returns:
	//   - error: ErrShipmentNotFound if shipment doesn't exist
	Delete(ctx context.Context, id uuid.UUID) error

	// FindAll retrieves shipments matching the given filter criteria.
	//
	// Parameters:
	//   - ctx: context for cancellation and deadlines
	//   - filter: Criteria to filter shipments
	//
	// Returns:
	//   - []*entity.Shipment: List of matching shipments
	//   - error: any error encountered during retrieval
	FindAll(ctx context.Context, filter ShipmentFilter) ([]*entity.Shipment, error)

	// Count returns the total number of shipments matching the filter.
	// Limit and Offset are ignored.
	Count(ctx context.Context, filter ShipmentFilter) (int64, error)

	// Ping verifies the data store is reachable.
	Ping(ctx context.Context) error
}
