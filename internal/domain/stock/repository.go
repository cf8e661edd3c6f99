package stock

import (
	"context"

	"stitchline/internal/core/id"
	"stitchline/internal/core/types"
)

// LedgerRepository persists ledger entries and their lines.
type LedgerRepository interface {
	// CreateEntry inserts a new entry.
	CreateEntry(ctx context.Context, entry *Entry) error

	// SaveLines inserts the lines of an entry.
	SaveLines(ctx context.Context, entryID id.ID, lines []*Line) error

	// GetEntry retrieves an entry by ID.
	GetEntry(ctx context.Context, entryID id.ID) (*Entry, error)

	// GetEntryForUpdate retrieves an entry with a row lock.
	// Used by transfer resolution to serialize concurrent decisions.
	GetEntryForUpdate(ctx context.Context, entryID id.ID) (*Entry, error)

	// UpdateEntryStatus persists a status flip with optimistic locking
	// (expects entry.Version to be the post-flip value).
	UpdateEntryStatus(ctx context.Context, entry *Entry) error

	// GetLines retrieves the lines of an entry ordered by insertion.
	GetLines(ctx context.Context, entryID id.ID) ([]*Line, error)

	// ListPendingTransfers lists transfers awaiting confirmation at a destination.
	ListPendingTransfers(ctx context.Context, destWarehouseID id.ID) ([]*Entry, error)
}

// SnapshotRepository persists current per-warehouse quantities.
type SnapshotRepository interface {
	// GetForUpdate retrieves the snapshot row with a row lock. When no row
	// exists yet a zero-amount snapshot is returned (not persisted); the
	// following Put creates it.
	GetForUpdate(ctx context.Context, warehouseID, itemID id.ID) (*Snapshot, error)

	// Put upserts the snapshot by (warehouse_id, item_id).
	Put(ctx context.Context, snapshot *Snapshot) error

	// ListByWarehouse returns current balances with item info joined.
	ListByWarehouse(ctx context.Context, warehouseID id.ID) ([]*Balance, error)
}

// Balance is a snapshot row enriched with item data for listings.
type Balance struct {
	ItemID    id.ID          `db:"item_id" json:"itemId"`
	ItemCode  string         `db:"item_code" json:"itemCode"`
	ItemName  string         `db:"item_name" json:"itemName"`
	Unit      string         `db:"unit" json:"unit"`
	Amount    types.Quantity `db:"amount" json:"amount"`
	CostPrice types.Money    `db:"cost_price" json:"costPrice"`
}

// HistoryRepository persists the append-only movement trail.
type HistoryRepository interface {
	// Append inserts a trail record. There is deliberately no update or
	// delete: the trail is immutable.
	Append(ctx context.Context, record *HistoryRecord) error

	// ListByWarehouse returns trail records for entries touching the
	// warehouse (as source or destination), newest first.
	ListByWarehouse(ctx context.Context, warehouseID id.ID, limit, offset int) ([]*HistoryView, int64, error)

	// ListByEntry returns the full trail of one entry, oldest first.
	ListByEntry(ctx context.Context, entryID id.ID) ([]*HistoryRecord, error)
}

// HistoryView is a trail record joined with its entry for listings.
type HistoryView struct {
	HistoryRecord

	Kind              EntryKind `db:"kind" json:"kind"`
	SourceWarehouseID id.ID     `db:"source_warehouse_id" json:"sourceWarehouseId"`
	DestWarehouseID   *id.ID    `db:"dest_warehouse_id" json:"destWarehouseId,omitempty"`
}

// AttachmentRepository persists entry file metadata.
type AttachmentRepository interface {
	Add(ctx context.Context, attachments []*Attachment) error
	ListByEntry(ctx context.Context, entryID id.ID) ([]*Attachment, error)
}

// ItemStore is the slice of the item catalog the stock service needs.
// Cost price writes go only through UpdateCostPrice; the catalog update
// path must never touch it.
type ItemStore interface {
	Exists(ctx context.Context, itemID id.ID) (bool, error)

	// GetCostForUpdate returns the current cost price with a row lock.
	GetCostForUpdate(ctx context.Context, itemID id.ID) (types.Money, error)

	// UpdateCostPrice writes the engine-computed cost.
	UpdateCostPrice(ctx context.Context, itemID id.ID, cost types.Money) error
}

// WarehouseStore is the slice of the warehouse catalog the stock service needs.
type WarehouseStore interface {
	Exists(ctx context.Context, warehouseID id.ID) (bool, error)
}
