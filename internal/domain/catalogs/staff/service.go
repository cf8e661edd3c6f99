package staff

import (
	"stitchline/internal/core/tx"
	"stitchline/internal/domain"
)

// Service provides business logic for the staff directory.
type Service struct {
	*domain.CatalogService[*Profile]
	repo Repository
}

// NewService creates a new staff service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Profile]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "staff",
	})

	return &Service{
		CatalogService: base,
		repo:           repo,
	}
}
