package warehouse

import (
	"context"

	"stitchline/internal/core/apperror"
	"stitchline/internal/core/id"
	"stitchline/internal/core/tx"
	"stitchline/internal/domain"
)

// Service provides business logic for Warehouse catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Warehouse]
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new Warehouse service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Warehouse]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "warehouse",
	})

	return &Service{
		CatalogService: base,
		repo:           repo,
		txManager:      txManager,
	}
}

// AssignStaff replaces the staff assignment of a warehouse.
func (s *Service) AssignStaff(ctx context.Context, warehouseID id.ID, staffIDs []id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		ok, err := s.repo.Exists(ctx, warehouseID)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.NewNotFound("warehouse", warehouseID.String())
		}
		return s.repo.AssignStaff(ctx, warehouseID, staffIDs)
	})
}

// GetForStaff returns the warehouse a staff member is assigned to.
func (s *Service) GetForStaff(ctx context.Context, staffID id.ID) (*Warehouse, error) {
	return s.repo.GetForStaff(ctx, staffID)
}
