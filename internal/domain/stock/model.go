// Package stock implements the warehouse stock movement subsystem:
// the append-only movement ledger, per-warehouse quantity snapshots,
// the moving weighted-average cost engine and the movement history trail.
package stock

import (
	"time"

	"stitchline/internal/core/apperror"
	"stitchline/internal/core/id"
	"stitchline/internal/core/types"
)

// EntryKind classifies a ledger entry by the operation that produced it.
type EntryKind string

const (
	KindInput            EntryKind = "input"             // goods received into a warehouse
	KindTransfer         EntryKind = "transfer"          // movement between two warehouses
	KindOutbound         EntryKind = "outbound"          // terminal removal (write-off, defect, return)
	KindOrderIntake      EntryKind = "order_intake"      // produced goods booked on order completion
	KindOrderConsumption EntryKind = "order_consumption" // materials consumed on order completion
)

// EntryStatus is the lifecycle state of a ledger entry.
// Each kind allows only a subset of statuses; constructors enforce the pairing.
type EntryStatus string

const (
	// StatusPendingTransfer marks a transfer awaiting confirmation at the
	// destination. No snapshot is mutated while an entry is pending.
	StatusPendingTransfer EntryStatus = "pending_transfer"

	// StatusConfirmed is the terminal state of inputs, confirmed transfers
	// and order bookings.
	StatusConfirmed EntryStatus = "confirmed"

	// StatusCancelled is the terminal state of a rejected transfer.
	StatusCancelled EntryStatus = "cancelled"

	// Terminal outbound statuses. The status records why stock left.
	StatusWriteOff       EntryStatus = "write_off"
	StatusDefect         EntryStatus = "defect"
	StatusReturnToClient EntryStatus = "return_to_client"
)

// OutboundReason is the caller-supplied reason for a terminal outbound entry.
type OutboundReason string

const (
	ReasonWriteOff       OutboundReason = "write_off"
	ReasonReturnToClient OutboundReason = "return_to_client"
)

func (r OutboundReason) status() (EntryStatus, bool) {
	switch r {
	case ReasonWriteOff:
		return StatusWriteOff, true
	case ReasonReturnToClient:
		return StatusReturnToClient, true
	}
	return "", false
}

// TransferDecision resolves a pending transfer.
type TransferDecision string

const (
	DecisionConfirm TransferDecision = "confirm"
	DecisionCancel  TransferDecision = "cancel"
)

// Entry is a row in the stock ledger. Entries are append-only: the only
// mutable field is the status of a pending transfer.
type Entry struct {
	ID     id.ID       `db:"id" json:"id"`
	Kind   EntryKind   `db:"kind" json:"kind"`
	Status EntryStatus `db:"status" json:"status"`

	// SourceWarehouseID is where stock moves from (or into, for inbound kinds).
	SourceWarehouseID id.ID `db:"source_warehouse_id" json:"sourceWarehouseId"`

	// DestWarehouseID is set for transfers only.
	DestWarehouseID *id.ID `db:"dest_warehouse_id" json:"destWarehouseId,omitempty"`

	// OrderID links order_intake / order_consumption entries to the order.
	OrderID *id.ID `db:"order_id" json:"orderId,omitempty"`

	CreatedByID id.ID     `db:"created_by_id" json:"createdById"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`

	// Version for optimistic locking on status flips.
	Version int `db:"version" json:"version"`
}

func newEntry(kind EntryKind, status EntryStatus, source id.ID, staffID id.ID) *Entry {
	now := time.Now().UTC()
	return &Entry{
		ID:                id.New(),
		Kind:              kind,
		Status:            status,
		SourceWarehouseID: source,
		CreatedByID:       staffID,
		CreatedAt:         now,
		UpdatedAt:         now,
		Version:           1,
	}
}

// NewInput creates a confirmed inbound entry.
func NewInput(warehouseID, staffID id.ID) *Entry {
	return newEntry(KindInput, StatusConfirmed, warehouseID, staffID)
}

// NewTransfer creates a pending transfer between two warehouses.
func NewTransfer(sourceID, destID, staffID id.ID) *Entry {
	e := newEntry(KindTransfer, StatusPendingTransfer, sourceID, staffID)
	e.DestWarehouseID = &destID
	return e
}

// NewOutbound creates a terminal outbound entry with the given reason.
func NewOutbound(warehouseID, staffID id.ID, reason OutboundReason) (*Entry, error) {
	status, ok := reason.status()
	if !ok {
		return nil, apperror.NewValidation("invalid outbound reason").
			WithDetail("field", "reason").
			WithDetail("value", string(reason))
	}
	return newEntry(KindOutbound, status, warehouseID, staffID), nil
}

// NewDefective creates a terminal defect write-off entry.
func NewDefective(warehouseID, staffID id.ID) *Entry {
	return newEntry(KindOutbound, StatusDefect, warehouseID, staffID)
}

// NewOrderIntake creates a confirmed entry booking produced goods.
func NewOrderIntake(warehouseID, orderID, staffID id.ID) *Entry {
	e := newEntry(KindOrderIntake, StatusConfirmed, warehouseID, staffID)
	e.OrderID = &orderID
	return e
}

// NewOrderConsumption creates a confirmed entry booking consumed materials.
func NewOrderConsumption(warehouseID, orderID, staffID id.ID) *Entry {
	e := newEntry(KindOrderConsumption, StatusConfirmed, warehouseID, staffID)
	e.OrderID = &orderID
	return e
}

// IsPendingTransfer reports whether the entry is a transfer awaiting resolution.
func (e *Entry) IsPendingTransfer() bool {
	return e.Kind == KindTransfer && e.Status == StatusPendingTransfer
}

// Resolve flips a pending transfer to confirmed or cancelled.
// Any other starting state is an invalid transition.
func (e *Entry) Resolve(decision TransferDecision) error {
	var target EntryStatus
	switch decision {
	case DecisionConfirm:
		target = StatusConfirmed
	case DecisionCancel:
		target = StatusCancelled
	default:
		return apperror.NewValidation("invalid transfer decision").
			WithDetail("field", "decision").
			WithDetail("value", string(decision))
	}

	if !e.IsPendingTransfer() {
		return apperror.NewInvalidTransition("transfer", e.ID.String(), string(e.Status), string(target))
	}

	e.Status = target
	e.UpdatedAt = time.Now().UTC()
	e.Version++
	return nil
}

// Line is a single item position of a ledger entry.
type Line struct {
	ID      id.ID          `db:"id" json:"id"`
	EntryID id.ID          `db:"entry_id" json:"entryId"`
	ItemID  id.ID          `db:"item_id" json:"itemId"`
	Amount  types.Quantity `db:"amount" json:"amount"`

	// Price is the unit price. Meaningful for inbound movements; zero when
	// stock leaves without a price context (write-offs, consumption).
	Price types.Money `db:"price" json:"price"`

	Comment *string `db:"comment" json:"comment,omitempty"`
}

// NewLine creates a line for the given entry.
func NewLine(entryID, itemID id.ID, amount types.Quantity, price types.Money) *Line {
	return &Line{
		ID:      id.New(),
		EntryID: entryID,
		ItemID:  itemID,
		Amount:  amount,
		Price:   price,
	}
}

// Snapshot is the current quantity of one item in one warehouse.
// Rows are created lazily on first movement. Negative amounts are permitted:
// the factory routinely books consumption ahead of paperwork.
type Snapshot struct {
	ID          id.ID          `db:"id" json:"id"`
	WarehouseID id.ID          `db:"warehouse_id" json:"warehouseId"`
	ItemID      id.ID          `db:"item_id" json:"itemId"`
	Amount      types.Quantity `db:"amount" json:"amount"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updatedAt"`
}

// NewSnapshot creates an empty snapshot row for lazy initialization.
func NewSnapshot(warehouseID, itemID id.ID) *Snapshot {
	return &Snapshot{
		ID:          id.New(),
		WarehouseID: warehouseID,
		ItemID:      itemID,
		UpdatedAt:   time.Now().UTC(),
	}
}

// HistoryRecord is an append-only trail row. One record is written for every
// entry creation and every transfer resolution. Staff name is denormalized so
// the trail survives staff record changes.
type HistoryRecord struct {
	ID           id.ID       `db:"id" json:"id"`
	EntryID      id.ID       `db:"entry_id" json:"entryId"`
	Status       EntryStatus `db:"status" json:"status"`
	StaffID      id.ID       `db:"staff_id" json:"staffId"`
	StaffName    string      `db:"staff_name" json:"staffName"`
	StaffSurname string      `db:"staff_surname" json:"staffSurname"`
	CreatedAt    time.Time   `db:"created_at" json:"createdAt"`
}

// Attachment is file metadata linked to a ledger entry (waybills, photos of
// defective goods). The binary itself lives in object storage.
type Attachment struct {
	ID          id.ID     `db:"id" json:"id"`
	EntryID     id.ID     `db:"entry_id" json:"entryId"`
	Name        string    `db:"name" json:"name"`
	Size        int64     `db:"size" json:"size"`
	ContentType string    `db:"content_type" json:"contentType"`
	StoragePath string    `db:"storage_path" json:"storagePath"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}
