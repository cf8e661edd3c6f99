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

const historyTable = "stock_history"

// HistoryRepo implements stock.HistoryRepository.
// The table is insert-only; no update or delete statement exists here.
type HistoryRepo struct {
	txManager *postgres.TxManager
}

// NewHistoryRepo creates a new history repository.
func NewHistoryRepo(txManager *postgres.TxManager) *HistoryRepo {
	return &HistoryRepo{txManager: txManager}
}

func (r *HistoryRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Append inserts a trail record.
func (r *HistoryRepo) Append(ctx context.Context, record *stock.HistoryRecord) error {
	q := r.builder().
		Insert(historyTable).
		SetMap(postgres.StructToMap(record))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert history: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

// ListByWarehouse returns trail records for entries touching the warehouse,
// newest first, with the total count for pagination.
func (r *HistoryRepo) ListByWarehouse(ctx context.Context, warehouseID id.ID, limit, offset int) ([]*stock.HistoryView, int64, error) {
	warehouseCond := squirrel.Or{
		squirrel.Eq{"e.source_warehouse_id": warehouseID},
		squirrel.Eq{"e.dest_warehouse_id": warehouseID},
	}

	countQ := r.builder().
		Select("COUNT(*)").
		From(historyTable + " h").
		Join(entryTable + " e ON e.id = h.entry_id").
		Where(warehouseCond)

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	var total int64
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count history: %w", err)
	}

	q := r.builder().
		Select(
			"h.id AS id",
			"h.entry_id AS entry_id",
			"h.status AS status",
			"h.staff_id AS staff_id",
			"h.staff_name AS staff_name",
			"h.staff_surname AS staff_surname",
			"h.created_at AS created_at",
			"e.kind AS kind",
			"e.source_warehouse_id AS source_warehouse_id",
			"e.dest_warehouse_id AS dest_warehouse_id",
		).
		From(historyTable + " h").
		Join(entryTable + " e ON e.id = h.entry_id").
		Where(warehouseCond).
		OrderBy("h.created_at DESC", "h.id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}

	var views []*stock.HistoryView
	if err := pgxscan.Select(ctx, querier, &views, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("list history: %w", err)
	}
	return views, total, nil
}

// ListByEntry returns the full trail of one entry, oldest first.
func (r *HistoryRepo) ListByEntry(ctx context.Context, entryID id.ID) ([]*stock.HistoryRecord, error) {
	q := r.builder().
		Select(postgres.ExtractDBColumns[stock.HistoryRecord]()...).
		From(historyTable).
		Where(squirrel.Eq{"entry_id": entryID}).
		OrderBy("created_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var records []*stock.HistoryRecord
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &records, sql, args...); err != nil {
		return nil, fmt.Errorf("list entry history: %w", err)
	}
	return records, nil
}
