package item

import (
	"context"

	"stitchline/internal/core/id"
	"stitchline/internal/core/types"
	"stitchline/internal/domain"
)

// Repository defines the interface for Item persistence.
type Repository interface {
	domain.CatalogRepository[*Item]

	// GetCostForUpdate returns the current cost price with a row lock.
	// The lock serializes concurrent cost engine runs on the same item.
	GetCostForUpdate(ctx context.Context, id id.ID) (types.Money, error)

	// UpdateCostPrice writes the engine-computed cost price.
	// This is the only write path for cost_price.
	UpdateCostPrice(ctx context.Context, id id.ID, cost types.Money) error
}
