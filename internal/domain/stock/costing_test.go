package stock

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stitchline/internal/core/types"
)

func qty(v float64) types.Quantity { return types.NewQuantityFromFloat64(v) }

func TestWeightedAverageCost_BlendsOldAndNew(t *testing.T) {
	// 10 units at 5.00 plus 10 units at 7.00 averages to 6.00.
	got := WeightedAverageCost(qty(10), types.MustMoney("5"), qty(10), types.MustMoney("7"))
	assert.True(t, got.Equal(types.MustMoney("6")), "got %s", got)
}

func TestWeightedAverageCost_FirstReceipt(t *testing.T) {
	got := WeightedAverageCost(qty(0), types.Zero(), qty(3), types.MustMoney("2.5"))
	assert.True(t, got.Equal(types.MustMoney("2.5")), "got %s", got)
}

func TestWeightedAverageCost_RoundsToSixPlaces(t *testing.T) {
	// (1*0 + 2*1) / 3 = 0.666666...
	got := WeightedAverageCost(qty(1), types.Zero(), qty(2), types.MustMoney("1"))
	assert.True(t, got.Equal(types.MustMoney("0.666667")), "got %s", got)
}

func TestWeightedAverageCost_NegativeOldStock(t *testing.T) {
	// -5 units at 4.00 plus 10 units at 7.00: (-20 + 70) / 5 = 10.
	// Receipts against negative stock pull the average toward the incoming price.
	got := WeightedAverageCost(qty(-5), types.MustMoney("4"), qty(10), types.MustMoney("7"))
	assert.True(t, got.Equal(types.MustMoney("10")), "got %s", got)
}

func TestWeightedAverageCost_ClampsWhenTotalNotPositive(t *testing.T) {
	got := WeightedAverageCost(qty(-10), types.MustMoney("4"), qty(5), types.MustMoney("7"))
	assert.True(t, got.IsZero(), "got %s", got)

	got = WeightedAverageCost(qty(-5), types.MustMoney("4"), qty(5), types.MustMoney("7"))
	assert.True(t, got.IsZero(), "got %s", got)
}

func TestWeightedAverageCost_FractionalQuantities(t *testing.T) {
	// 2.5 m2 at 10.00 plus 7.5 m2 at 20.00: (25 + 150) / 10 = 17.50.
	got := WeightedAverageCost(qty(2.5), types.MustMoney("10"), qty(7.5), types.MustMoney("20"))
	assert.True(t, got.Equal(types.MustMoney("17.5")), "got %s", got)
}
