package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stitchline/internal/core/apperror"
	"stitchline/internal/core/id"
	"stitchline/internal/domain/catalogs/warehouse"
	"stitchline/internal/infrastructure/storage/postgres"
)

const (
	warehouseTable      = "cat_warehouses"
	warehouseStaffTable = "cat_warehouse_staff"
)

// WarehouseRepo implements warehouse.Repository.
type WarehouseRepo struct {
	*BaseCatalogRepo[*warehouse.Warehouse]
}

// NewWarehouseRepo creates a new warehouse repository.
func NewWarehouseRepo(txManager *postgres.TxManager) *WarehouseRepo {
	return &WarehouseRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*warehouse.Warehouse](
			txManager,
			warehouseTable,
			postgres.ExtractDBColumns[warehouse.Warehouse](),
			func() *warehouse.Warehouse { return &warehouse.Warehouse{} },
		),
	}
}

// AssignStaff replaces the staff assignment of a warehouse.
// A staff member can only be assigned to one warehouse, so existing
// assignments of the given staff are dropped first.
func (r *WarehouseRepo) AssignStaff(ctx context.Context, warehouseID id.ID, staffIDs []id.ID) error {
	querier := r.Querier(ctx)

	del := r.Builder().
		Delete(warehouseStaffTable).
		Where(squirrel.Or{
			squirrel.Eq{"warehouse_id": warehouseID},
			squirrel.Eq{"staff_id": staffIDs},
		})

	sql, args, err := del.ToSql()
	if err != nil {
		return fmt.Errorf("build delete assignment: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}

	if len(staffIDs) == 0 {
		return nil
	}

	ins := r.Builder().
		Insert(warehouseStaffTable).
		Columns("warehouse_id", "staff_id")
	for _, staffID := range staffIDs {
		ins = ins.Values(warehouseID, staffID)
	}

	sql, args, err = ins.ToSql()
	if err != nil {
		return fmt.Errorf("build insert assignment: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert assignment: %w", err)
	}

	return nil
}

// GetForStaff returns the warehouse a staff member is assigned to.
func (r *WarehouseRepo) GetForStaff(ctx context.Context, staffID id.ID) (*warehouse.Warehouse, error) {
	cols := make([]string, 0, 8)
	for _, c := range postgres.ExtractDBColumns[warehouse.Warehouse]() {
		cols = append(cols, "w."+c)
	}

	q := r.Builder().
		Select(cols...).
		From(warehouseTable + " w").
		Join(warehouseStaffTable + " ws ON ws.warehouse_id = w.id").
		Where(squirrel.Eq{"ws.staff_id": staffID}).
		Where(squirrel.Eq{"w.deletion_mark": false}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	wh := &warehouse.Warehouse{}
	if err := pgxscan.Get(ctx, r.Querier(ctx), wh, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("warehouse for staff", staffID.String())
		}
		return nil, fmt.Errorf("get warehouse for staff: %w", err)
	}

	return wh, nil
}
