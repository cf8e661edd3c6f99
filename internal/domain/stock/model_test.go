package stock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stitchline/internal/core/apperror"
	"stitchline/internal/core/id"
	"stitchline/internal/core/types"
)

func TestNewInput(t *testing.T) {
	warehouseID, staffID := id.New(), id.New()
	e := NewInput(warehouseID, staffID)

	assert.Equal(t, KindInput, e.Kind)
	assert.Equal(t, StatusConfirmed, e.Status)
	assert.Equal(t, warehouseID, e.SourceWarehouseID)
	assert.Nil(t, e.DestWarehouseID)
	assert.Equal(t, staffID, e.CreatedByID)
	assert.Equal(t, 1, e.Version)
}

func TestNewTransfer(t *testing.T) {
	sourceID, destID := id.New(), id.New()
	e := NewTransfer(sourceID, destID, id.New())

	assert.Equal(t, KindTransfer, e.Kind)
	assert.Equal(t, StatusPendingTransfer, e.Status)
	assert.Equal(t, sourceID, e.SourceWarehouseID)
	require.NotNil(t, e.DestWarehouseID)
	assert.Equal(t, destID, *e.DestWarehouseID)
	assert.True(t, e.IsPendingTransfer())
}

func TestNewOutbound(t *testing.T) {
	e, err := NewOutbound(id.New(), id.New(), ReasonWriteOff)
	require.NoError(t, err)
	assert.Equal(t, KindOutbound, e.Kind)
	assert.Equal(t, StatusWriteOff, e.Status)

	e, err = NewOutbound(id.New(), id.New(), ReasonReturnToClient)
	require.NoError(t, err)
	assert.Equal(t, StatusReturnToClient, e.Status)
}

func TestNewOutbound_InvalidReason(t *testing.T) {
	_, err := NewOutbound(id.New(), id.New(), OutboundReason("evaporated"))
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestNewDefective(t *testing.T) {
	e := NewDefective(id.New(), id.New())
	assert.Equal(t, KindOutbound, e.Kind)
	assert.Equal(t, StatusDefect, e.Status)
}

func TestNewOrderEntries(t *testing.T) {
	orderID := id.New()

	intake := NewOrderIntake(id.New(), orderID, id.New())
	assert.Equal(t, KindOrderIntake, intake.Kind)
	assert.Equal(t, StatusConfirmed, intake.Status)
	require.NotNil(t, intake.OrderID)
	assert.Equal(t, orderID, *intake.OrderID)

	consumption := NewOrderConsumption(id.New(), orderID, id.New())
	assert.Equal(t, KindOrderConsumption, consumption.Kind)
	assert.Equal(t, StatusConfirmed, consumption.Status)
	require.NotNil(t, consumption.OrderID)
	assert.Equal(t, orderID, *consumption.OrderID)
}

func TestEntry_Resolve_Confirm(t *testing.T) {
	e := NewTransfer(id.New(), id.New(), id.New())

	require.NoError(t, e.Resolve(DecisionConfirm))
	assert.Equal(t, StatusConfirmed, e.Status)
	assert.Equal(t, 2, e.Version)
	assert.False(t, e.IsPendingTransfer())
}

func TestEntry_Resolve_Cancel(t *testing.T) {
	e := NewTransfer(id.New(), id.New(), id.New())

	require.NoError(t, e.Resolve(DecisionCancel))
	assert.Equal(t, StatusCancelled, e.Status)
	assert.Equal(t, 2, e.Version)
}

func TestEntry_Resolve_AlreadyResolved(t *testing.T) {
	e := NewTransfer(id.New(), id.New(), id.New())
	require.NoError(t, e.Resolve(DecisionConfirm))

	err := e.Resolve(DecisionCancel)
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidTransition(err))
	assert.Equal(t, StatusConfirmed, e.Status)
	assert.Equal(t, 2, e.Version)
}

func TestEntry_Resolve_NotATransfer(t *testing.T) {
	e := NewInput(id.New(), id.New())

	err := e.Resolve(DecisionConfirm)
	assert.True(t, apperror.IsInvalidTransition(err))
}

func TestEntry_Resolve_InvalidDecision(t *testing.T) {
	e := NewTransfer(id.New(), id.New(), id.New())

	err := e.Resolve(TransferDecision("maybe"))
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.True(t, e.IsPendingTransfer())
}

func TestNewLine(t *testing.T) {
	entryID, itemID := id.New(), id.New()
	line := NewLine(entryID, itemID, qty(3.5), types.MustMoney("12.50"))

	assert.Equal(t, entryID, line.EntryID)
	assert.Equal(t, itemID, line.ItemID)
	assert.Equal(t, qty(3.5), line.Amount)
	assert.True(t, line.Price.Equal(types.MustMoney("12.5")))
	assert.Nil(t, line.Comment)
}
