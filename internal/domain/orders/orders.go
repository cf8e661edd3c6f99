// Package orders bridges the order subsystem and the stock subsystem:
// when an order completes, produced goods are booked into the intake
// warehouse and consumed materials out of the outtake warehouse.
package orders

import (
	"context"

	"stitchline/internal/core/id"
	"stitchline/internal/core/types"
	"stitchline/internal/domain/catalogs/staff"
)

// Order is the slice of an order the reconciler needs. Orders are owned by
// the order subsystem; this backend only reads them.
type Order struct {
	ID     id.ID  `db:"id" json:"id"`
	Status string `db:"status" json:"status"`

	// IntakeWarehouseID receives produced goods (nil: nothing to book in).
	IntakeWarehouseID *id.ID `db:"intake_warehouse_id" json:"intakeWarehouseId,omitempty"`

	// OuttakeWarehouseID supplies consumed materials (nil: nothing to book out).
	OuttakeWarehouseID *id.ID `db:"outtake_warehouse_id" json:"outtakeWarehouseId,omitempty"`
}

// ProducedProduct is the summed done-stage output of one finished item.
type ProducedProduct struct {
	ItemID id.ID          `db:"item_id"`
	Amount types.Quantity `db:"amount"`

	// Price is the agreed unit price used by the cost engine on intake.
	Price types.Money `db:"price"`
}

// ConsumableUse is the per-unit material consumption of an order position.
type ConsumableUse struct {
	MaterialID id.ID `db:"material_id"`

	// PerUnit is material spent per produced unit.
	PerUnit types.Quantity `db:"per_unit"`

	// Produced is the produced base quantity the rate applies to.
	Produced types.Quantity `db:"produced"`
}

// Consumed returns the total material quantity to book out.
func (c *ConsumableUse) Consumed() types.Quantity {
	return c.PerUnit.Mul(c.Produced)
}

// Reader reads order data from the order subsystem's tables.
type Reader interface {
	GetOrder(ctx context.Context, orderID id.ID) (*Order, error)

	// ProducedQuantities sums done-stage output per finished item.
	ProducedQuantities(ctx context.Context, orderID id.ID) ([]*ProducedProduct, error)

	// ShopConsumables lists consumption rates for materials currently in
	// the shop flow stage.
	ShopConsumables(ctx context.Context, orderID id.ID) ([]*ConsumableUse, error)
}

// StaffDirectory resolves the acting staff member for history denormalization.
type StaffDirectory interface {
	GetByID(ctx context.Context, staffID id.ID) (*staff.Profile, error)
}
