package orders

import (
	"context"

	"github.com/shopspring/decimal"

	appctx "stitchline/internal/core/context"
	"stitchline/internal/core/id"
	"stitchline/internal/domain/stock"
	"stitchline/pkg/logger"
)

// Reconciler books the stock effects of a completed order.
//
// Run is NOT idempotent: a second run for the same order books the same
// quantities again. Callers must dispatch through the job queue, which
// guarantees at most one unprocessed job per order.
type Reconciler struct {
	orders Reader
	stock  *stock.Service
	staff  StaffDirectory
}

// NewReconciler creates a reconciler.
func NewReconciler(orders Reader, stockSvc *stock.Service, staffDir StaffDirectory) *Reconciler {
	return &Reconciler{
		orders: orders,
		stock:  stockSvc,
		staff:  staffDir,
	}
}

// Run books produced goods into the order's intake warehouse and consumed
// materials out of its outtake warehouse.
func (r *Reconciler) Run(ctx context.Context, orderID, staffID id.ID) error {
	order, err := r.orders.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}

	profile, err := r.staff.GetByID(ctx, staffID)
	if err != nil {
		return err
	}
	actor := appctx.Actor{
		StaffID: profile.ID,
		Name:    profile.Name,
		Surname: profile.Surname,
		Role:    string(profile.Role),
	}

	if order.IntakeWarehouseID != nil {
		if err := r.bookIntake(ctx, order, actor); err != nil {
			return err
		}
	}

	if order.OuttakeWarehouseID != nil {
		if err := r.bookConsumption(ctx, order, actor); err != nil {
			return err
		}
	}

	logger.Info(ctx, "order reconciled",
		"order_id", order.ID.String(),
		"staff_id", staffID.String(),
	)
	return nil
}

func (r *Reconciler) bookIntake(ctx context.Context, order *Order, actor appctx.Actor) error {
	produced, err := r.orders.ProducedQuantities(ctx, order.ID)
	if err != nil {
		return err
	}

	lines := make([]stock.LineInput, 0, len(produced))
	for _, p := range produced {
		// Positions with no done-stage output are skipped, not booked at zero.
		if !p.Amount.IsPositive() {
			continue
		}
		lines = append(lines, stock.LineInput{
			ItemID: p.ItemID,
			Amount: p.Amount,
			Price:  p.Price,
		})
	}
	if len(lines) == 0 {
		return nil
	}

	_, err = r.stock.OrderIntake(ctx, actor, *order.IntakeWarehouseID, order.ID, lines)
	return err
}

func (r *Reconciler) bookConsumption(ctx context.Context, order *Order, actor appctx.Actor) error {
	consumables, err := r.orders.ShopConsumables(ctx, order.ID)
	if err != nil {
		return err
	}

	lines := make([]stock.LineInput, 0, len(consumables))
	for _, c := range consumables {
		consumed := c.Consumed()
		if !consumed.IsPositive() {
			continue
		}
		// The line records the full consumed quantity so it matches the
		// snapshot delta exactly.
		lines = append(lines, stock.LineInput{
			ItemID: c.MaterialID,
			Amount: consumed,
			Price:  decimal.Zero,
		})
	}
	if len(lines) == 0 {
		return nil
	}

	_, err = r.stock.OrderConsumption(ctx, actor, *order.OuttakeWarehouseID, order.ID, lines)
	return err
}
