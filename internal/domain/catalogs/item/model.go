// Package item provides the Item catalog: materials, semi-finished pieces
// and finished garments tracked by the stock subsystem.
package item

import (
	"context"

	"github.com/shopspring/decimal"

	"stitchline/internal/core/apperror"
	"stitchline/internal/core/entity"
	"stitchline/internal/core/types"
)

// ItemType defines the production role of an item.
type ItemType string

const (
	TypeMaterial ItemType = "material" // fabric, thread, fittings
	TypeSemi     ItemType = "semi"     // cut or partially sewn pieces
	TypeProduct  ItemType = "product"  // finished garment
)

// Unit defines the unit of measure.
type Unit string

const (
	UnitMillimeter  Unit = "mm"
	UnitCentimeter  Unit = "cm"
	UnitSquareMeter Unit = "m2"
	UnitLiter       Unit = "liter"
	UnitPiece       Unit = "piece"
	UnitRoll        Unit = "roll"
)

// FlowStatus marks where in the production flow a material currently matters.
// Consumables of an order are booked out only while their material is in the
// shop stage.
type FlowStatus string

const (
	FlowCut  FlowStatus = "cut"
	FlowShop FlowStatus = "shop"
)

// Item represents a catalog position. Code doubles as the vendor code.
type Item struct {
	entity.Catalog

	// Type defines item category
	Type ItemType `db:"type" json:"type"`

	// Unit is the unit of measure
	Unit Unit `db:"unit" json:"unit"`

	// FlowStatus is the production flow stage, set for materials
	FlowStatus *FlowStatus `db:"flow_status" json:"flowStatus,omitempty"`

	// CostPrice is the moving weighted-average cost.
	// Written exclusively by the cost engine; catalog updates never touch it.
	CostPrice types.Money `db:"cost_price" json:"costPrice"`

	// IsActive indicates if the item is in use
	IsActive bool `db:"is_active" json:"isActive"`
}

// NewItem creates a new Item with required fields.
func NewItem(code, name string, itemType ItemType, unit Unit) *Item {
	return &Item{
		Catalog:   entity.NewCatalog(code, name),
		Type:      itemType,
		Unit:      unit,
		CostPrice: decimal.Zero,
		IsActive:  true,
	}
}

// Validate implements entity.Validatable interface.
func (i *Item) Validate(ctx context.Context) error {
	if err := i.Catalog.Validate(ctx); err != nil {
		return err
	}

	if !isValidItemType(i.Type) {
		return apperror.NewValidation("invalid item type").
			WithDetail("field", "type").
			WithDetail("value", string(i.Type))
	}

	if !isValidUnit(i.Unit) {
		return apperror.NewValidation("invalid unit").
			WithDetail("field", "unit").
			WithDetail("value", string(i.Unit))
	}

	if i.FlowStatus != nil && !isValidFlowStatus(*i.FlowStatus) {
		return apperror.NewValidation("invalid flow status").
			WithDetail("field", "flowStatus").
			WithDetail("value", string(*i.FlowStatus))
	}

	if i.CostPrice.IsNegative() {
		return apperror.NewValidation("cost price cannot be negative").
			WithDetail("field", "costPrice")
	}

	return nil
}

// IsMaterial returns true for raw materials.
func (i *Item) IsMaterial() bool {
	return i.Type == TypeMaterial
}

// --- Validation Helpers ---

func isValidItemType(t ItemType) bool {
	switch t {
	case TypeMaterial, TypeSemi, TypeProduct:
		return true
	}
	return false
}

func isValidUnit(u Unit) bool {
	switch u {
	case UnitMillimeter, UnitCentimeter, UnitSquareMeter, UnitLiter, UnitPiece, UnitRoll:
		return true
	}
	return false
}

func isValidFlowStatus(s FlowStatus) bool {
	switch s {
	case FlowCut, FlowShop:
		return true
	}
	return false
}
