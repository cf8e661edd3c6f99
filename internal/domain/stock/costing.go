package stock

import (
	"github.com/shopspring/decimal"

	"stitchline/internal/core/types"
)

// costPrecision is the number of decimal places kept on computed costs.
// Matches NUMERIC(19,6) storage of item cost_price.
const costPrecision = 6

// WeightedAverageCost computes the moving weighted-average cost of an item
// after receiving `received` units at `price`:
//
//	(oldAmount*oldCost + received*price) / (oldAmount + received)
//
// When the resulting total amount is zero or negative the cost is clamped to
// zero instead of dividing. Negative oldAmount participates arithmetically,
// so booking a receipt against negative stock pulls the average toward the
// incoming price.
func WeightedAverageCost(oldAmount types.Quantity, oldCost types.Money, received types.Quantity, price types.Money) types.Money {
	newAmount := oldAmount.Add(received)
	if newAmount.Int64Scaled() <= 0 {
		return decimal.Zero
	}

	total := oldAmount.Decimal().Mul(oldCost).
		Add(received.Decimal().Mul(price))

	return total.DivRound(newAmount.Decimal(), costPrecision)
}
