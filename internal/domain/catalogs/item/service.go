package item

import (
	"context"

	"stitchline/internal/core/tx"
	"stitchline/internal/domain"
)

// Service provides business logic for Item catalog.
type Service struct {
	*domain.CatalogService[*Item]
	repo Repository
}

// NewService creates a new Item service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Item]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "item",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	// Cost price belongs to the cost engine. Catalog updates carry whatever
	// value the client sent; overwrite it with the stored one before saving.
	base.Hooks().On(domain.BeforeUpdate, svc.preserveCostPrice)

	return svc
}

func (s *Service) preserveCostPrice(ctx context.Context, it *Item) error {
	stored, err := s.repo.GetByID(ctx, it.ID)
	if err != nil {
		return err
	}
	it.CostPrice = stored.CostPrice
	return nil
}
