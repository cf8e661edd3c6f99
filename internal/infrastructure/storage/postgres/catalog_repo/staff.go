package catalog_repo

import (
	"stitchline/internal/domain/catalogs/staff"
	"stitchline/internal/infrastructure/storage/postgres"
)

const staffTable = "cat_staff"

// StaffRepo implements staff.Repository.
type StaffRepo struct {
	*BaseCatalogRepo[*staff.Profile]
}

// NewStaffRepo creates a new staff repository.
func NewStaffRepo(txManager *postgres.TxManager) *StaffRepo {
	return &StaffRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*staff.Profile](
			txManager,
			staffTable,
			postgres.ExtractDBColumns[staff.Profile](),
			func() *staff.Profile { return &staff.Profile{} },
		),
	}
}
