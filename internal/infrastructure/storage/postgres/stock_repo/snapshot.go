package stock_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stitchline/internal/core/id"
	"stitchline/internal/domain/stock"
	"stitchline/internal/infrastructure/storage/postgres"
)

const snapshotTable = "stock_snapshots"

// SnapshotRepo implements stock.SnapshotRepository.
type SnapshotRepo struct {
	txManager *postgres.TxManager
}

// NewSnapshotRepo creates a new snapshot repository.
func NewSnapshotRepo(txManager *postgres.TxManager) *SnapshotRepo {
	return &SnapshotRepo{txManager: txManager}
}

func (r *SnapshotRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// GetForUpdate retrieves the snapshot row with a row lock. A missing row
// yields a fresh zero-amount snapshot; the following Put creates it.
func (r *SnapshotRepo) GetForUpdate(ctx context.Context, warehouseID, itemID id.ID) (*stock.Snapshot, error) {
	q := r.builder().
		Select(postgres.ExtractDBColumns[stock.Snapshot]()...).
		From(snapshotTable).
		Where(squirrel.Eq{
			"warehouse_id": warehouseID,
			"item_id":      itemID,
		}).
		Suffix("FOR UPDATE")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	snapshot := &stock.Snapshot{}
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), snapshot, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return stock.NewSnapshot(warehouseID, itemID), nil
		}
		return nil, fmt.Errorf("get snapshot for update: %w", err)
	}
	return snapshot, nil
}

// Put upserts the snapshot by (warehouse_id, item_id).
func (r *SnapshotRepo) Put(ctx context.Context, snapshot *stock.Snapshot) error {
	q := r.builder().
		Insert(snapshotTable).
		Columns("id", "warehouse_id", "item_id", "amount", "updated_at").
		Values(
			snapshot.ID,
			snapshot.WarehouseID,
			snapshot.ItemID,
			snapshot.Amount.Int64Scaled(),
			snapshot.UpdatedAt,
		).
		Suffix("ON CONFLICT (warehouse_id, item_id) DO UPDATE SET amount = EXCLUDED.amount, updated_at = EXCLUDED.updated_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

// ListByWarehouse returns current balances with item info joined.
func (r *SnapshotRepo) ListByWarehouse(ctx context.Context, warehouseID id.ID) ([]*stock.Balance, error) {
	q := r.builder().
		Select(
			"s.item_id AS item_id",
			"i.code AS item_code",
			"i.name AS item_name",
			"i.unit AS unit",
			"s.amount AS amount",
			"i.cost_price AS cost_price",
		).
		From(snapshotTable + " s").
		Join("cat_items i ON i.id = s.item_id").
		Where(squirrel.Eq{"s.warehouse_id": warehouseID}).
		OrderBy("i.name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var balances []*stock.Balance
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &balances, sql, args...); err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	return balances, nil
}
