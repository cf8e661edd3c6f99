// Package order_repo reads order-subsystem tables and manages the
// reconciliation job queue.
package order_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stitchline/internal/core/apperror"
	"stitchline/internal/core/id"
	"stitchline/internal/domain/catalogs/item"
	"stitchline/internal/domain/orders"
	"stitchline/internal/infrastructure/storage/postgres"
)

const (
	orderTable      = "orders"
	productTable    = "order_products"
	workDetailTable = "order_work_details"
	consumableTable = "order_consumables"
)

// ReaderRepo implements orders.Reader over the order subsystem's tables.
// This backend only reads them; the order subsystem owns the writes.
type ReaderRepo struct {
	txManager *postgres.TxManager
}

// NewReaderRepo creates a new order reader.
func NewReaderRepo(txManager *postgres.TxManager) *ReaderRepo {
	return &ReaderRepo{txManager: txManager}
}

func (r *ReaderRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// GetOrder retrieves the reconciliation slice of an order.
func (r *ReaderRepo) GetOrder(ctx context.Context, orderID id.ID) (*orders.Order, error) {
	q := r.builder().
		Select("id", "status", "intake_warehouse_id", "outtake_warehouse_id").
		From(orderTable).
		Where(squirrel.Eq{"id": orderID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	order := &orders.Order{}
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), order, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("order", orderID.String())
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return order, nil
}

// ProducedQuantities sums done-stage output per finished item, carrying the
// agreed unit price of the order position.
func (r *ReaderRepo) ProducedQuantities(ctx context.Context, orderID id.ID) ([]*orders.ProducedProduct, error) {
	q := r.builder().
		Select(
			"op.item_id AS item_id",
			"COALESCE(SUM(wd.amount), 0) AS amount",
			"op.price AS price",
		).
		From(productTable+" op").
		LeftJoin(workDetailTable+" wd ON wd.order_product_id = op.id AND wd.stage_done").
		Where(squirrel.Eq{"op.order_id": orderID}).
		GroupBy("op.item_id", "op.price")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var produced []*orders.ProducedProduct
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &produced, sql, args...); err != nil {
		return nil, fmt.Errorf("produced quantities: %w", err)
	}
	return produced, nil
}

// ShopConsumables lists per-unit consumption rates of materials that are in
// the shop flow stage, with the produced base quantity per position.
func (r *ReaderRepo) ShopConsumables(ctx context.Context, orderID id.ID) ([]*orders.ConsumableUse, error) {
	q := r.builder().
		Select(
			"oc.material_id AS material_id",
			"oc.per_unit AS per_unit",
			"COALESCE(SUM(wd.amount), 0) AS produced",
		).
		From(consumableTable+" oc").
		Join(productTable+" op ON op.id = oc.order_product_id").
		Join("cat_items i ON i.id = oc.material_id").
		LeftJoin(workDetailTable+" wd ON wd.order_product_id = op.id AND wd.stage_done").
		Where(squirrel.Eq{
			"op.order_id":   orderID,
			"i.flow_status": item.FlowShop,
		}).
		GroupBy("oc.material_id", "oc.per_unit")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var uses []*orders.ConsumableUse
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &uses, sql, args...); err != nil {
		return nil, fmt.Errorf("shop consumables: %w", err)
	}
	return uses, nil
}
