package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"stitchline/internal/core/apperror"
	"stitchline/internal/core/id"
	"stitchline/internal/core/types"
	"stitchline/internal/domain/catalogs/item"
	"stitchline/internal/infrastructure/storage/postgres"
)

const itemTable = "cat_items"

// ItemRepo implements item.Repository and the stock service's ItemStore.
type ItemRepo struct {
	*BaseCatalogRepo[*item.Item]
}

// NewItemRepo creates a new item repository.
func NewItemRepo(txManager *postgres.TxManager) *ItemRepo {
	return &ItemRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*item.Item](
			txManager,
			itemTable,
			postgres.ExtractDBColumns[item.Item](),
			func() *item.Item { return &item.Item{} },
		),
	}
}

// GetCostForUpdate returns the current cost price with a row lock.
func (r *ItemRepo) GetCostForUpdate(ctx context.Context, itemID id.ID) (types.Money, error) {
	q := r.Builder().
		Select("cost_price").
		From(itemTable).
		Where(squirrel.Eq{"id": itemID}).
		Suffix("FOR UPDATE")

	sql, args, err := q.ToSql()
	if err != nil {
		return types.Zero(), fmt.Errorf("build query: %w", err)
	}

	var cost types.Money
	if err := r.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&cost); err != nil {
		return types.Zero(), fmt.Errorf("get cost for update: %w", err)
	}

	return cost, nil
}

// UpdateCostPrice writes the engine-computed cost price.
func (r *ItemRepo) UpdateCostPrice(ctx context.Context, itemID id.ID, cost types.Money) error {
	q := r.Builder().
		Update(itemTable).
		Set("cost_price", cost).
		Where(squirrel.Eq{"id": itemID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update cost price: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("item", itemID.String())
	}

	return nil
}
