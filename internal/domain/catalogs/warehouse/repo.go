package warehouse

import (
	"context"

	"stitchline/internal/core/id"
	"stitchline/internal/domain"
)

// Repository defines the interface for Warehouse persistence.
type Repository interface {
	domain.CatalogRepository[*Warehouse]

	// GetForUpdate retrieves warehouse with row lock (for transactional updates).
	GetForUpdate(ctx context.Context, id id.ID) (*Warehouse, error)

	// AssignStaff replaces the staff assignment of a warehouse.
	// A staff member is attached to at most one warehouse.
	AssignStaff(ctx context.Context, warehouseID id.ID, staffIDs []id.ID) error

	// GetForStaff returns the warehouse a staff member is assigned to.
	GetForStaff(ctx context.Context, staffID id.ID) (*Warehouse, error)
}
