// Package stock_repo provides PostgreSQL implementations for the stock
// subsystem repositories: ledger, snapshots, history and attachments.
package stock_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stitchline/internal/core/apperror"
	"stitchline/internal/core/id"
	"stitchline/internal/domain/stock"
	"stitchline/internal/infrastructure/storage/postgres"
)

const (
	entryTable = "stock_entries"
	lineTable  = "stock_entry_lines"
)

var lineCopyColumns = []string{"id", "entry_id", "item_id", "amount", "price", "comment"}

// LedgerRepo implements stock.LedgerRepository.
type LedgerRepo struct {
	txManager *postgres.TxManager
	batch     *postgres.BatchInserter
}

// NewLedgerRepo creates a new ledger repository.
func NewLedgerRepo(txManager *postgres.TxManager) *LedgerRepo {
	return &LedgerRepo{
		txManager: txManager,
		batch:     postgres.NewBatchInserter(txManager),
	}
}

func (r *LedgerRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// CreateEntry inserts a new ledger entry.
func (r *LedgerRepo) CreateEntry(ctx context.Context, entry *stock.Entry) error {
	q := r.builder().
		Insert(entryTable).
		SetMap(postgres.StructToMap(entry))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert entry: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

// SaveLines bulk-inserts entry lines via COPY.
func (r *LedgerRepo) SaveLines(ctx context.Context, entryID id.ID, lines []*stock.Line) error {
	if len(lines) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, []any{
			line.ID,
			entryID,
			line.ItemID,
			line.Amount.Int64Scaled(),
			line.Price.String(),
			line.Comment,
		})
	}

	if _, err := r.batch.CopyFromSlice(ctx, lineTable, lineCopyColumns, rows); err != nil {
		return fmt.Errorf("copy lines: %w", err)
	}
	return nil
}

// GetEntry retrieves an entry by ID.
func (r *LedgerRepo) GetEntry(ctx context.Context, entryID id.ID) (*stock.Entry, error) {
	return r.getEntry(ctx, entryID, false)
}

// GetEntryForUpdate retrieves an entry with a row lock.
func (r *LedgerRepo) GetEntryForUpdate(ctx context.Context, entryID id.ID) (*stock.Entry, error) {
	return r.getEntry(ctx, entryID, true)
}

func (r *LedgerRepo) getEntry(ctx context.Context, entryID id.ID, forUpdate bool) (*stock.Entry, error) {
	q := r.builder().
		Select(postgres.ExtractDBColumns[stock.Entry]()...).
		From(entryTable).
		Where(squirrel.Eq{"id": entryID})
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	entry := &stock.Entry{}
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), entry, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("stock entry", entryID.String())
		}
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return entry, nil
}

// UpdateEntryStatus persists a status flip with optimistic locking.
// entry.Version holds the post-flip value; the row must still carry the
// previous one.
func (r *LedgerRepo) UpdateEntryStatus(ctx context.Context, entry *stock.Entry) error {
	q := r.builder().
		Update(entryTable).
		Set("status", entry.Status).
		Set("updated_at", entry.UpdatedAt).
		Set("version", entry.Version).
		Where(squirrel.Eq{"id": entry.ID}).
		Where(squirrel.Eq{"version": entry.Version - 1})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update entry: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update entry status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("stock entry", entry.ID.String())
	}
	return nil
}

// GetLines retrieves the lines of an entry in insertion order.
// Line IDs are UUIDv7, so ordering by id is chronological.
func (r *LedgerRepo) GetLines(ctx context.Context, entryID id.ID) ([]*stock.Line, error) {
	q := r.builder().
		Select(postgres.ExtractDBColumns[stock.Line]()...).
		From(lineTable).
		Where(squirrel.Eq{"entry_id": entryID}).
		OrderBy("id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []*stock.Line
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	return lines, nil
}

// ListPendingTransfers lists transfers awaiting confirmation at a destination.
func (r *LedgerRepo) ListPendingTransfers(ctx context.Context, destWarehouseID id.ID) ([]*stock.Entry, error) {
	q := r.builder().
		Select(postgres.ExtractDBColumns[stock.Entry]()...).
		From(entryTable).
		Where(squirrel.Eq{
			"dest_warehouse_id": destWarehouseID,
			"kind":              stock.KindTransfer,
			"status":            stock.StatusPendingTransfer,
		}).
		OrderBy("created_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []*stock.Entry
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("list pending transfers: %w", err)
	}
	return entries, nil
}
