package stock

import (
	"context"
	"time"

	"stitchline/internal/core/apperror"
	appctx "stitchline/internal/core/context"
	"stitchline/internal/core/id"
	"stitchline/internal/core/tx"
	"stitchline/internal/core/types"
	"stitchline/pkg/logger"
)

// Service implements stock operations. Every operation runs in a single
// transaction: entry insert, line inserts, snapshot/cost updates and the
// history append either all land or none do.
type Service struct {
	ledger      LedgerRepository
	snapshots   SnapshotRepository
	history     HistoryRepository
	attachments AttachmentRepository
	items       ItemStore
	warehouses  WarehouseStore
	txManager   tx.ReadOnlyManager
}

// ServiceConfig wires service dependencies.
type ServiceConfig struct {
	Ledger      LedgerRepository
	Snapshots   SnapshotRepository
	History     HistoryRepository
	Attachments AttachmentRepository
	Items       ItemStore
	Warehouses  WarehouseStore
	TxManager   tx.ReadOnlyManager
}

// NewService creates a stock service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		ledger:      cfg.Ledger,
		snapshots:   cfg.Snapshots,
		history:     cfg.History,
		attachments: cfg.Attachments,
		items:       cfg.Items,
		warehouses:  cfg.Warehouses,
		txManager:   cfg.TxManager,
	}
}

// LineInput is one item position of an operation request.
type LineInput struct {
	ItemID  id.ID
	Amount  types.Quantity
	Price   types.Money
	Comment string
}

// InputRequest books goods into a warehouse.
type InputRequest struct {
	WarehouseID id.ID
	Lines       []LineInput
}

// OutputRequest moves goods out of a warehouse. With a destination it stages
// a transfer; without one it is a terminal outbound with a reason.
type OutputRequest struct {
	SourceWarehouseID id.ID
	DestWarehouseID   *id.ID
	Reason            OutboundReason
	Lines             []LineInput
}

// DefectiveRequest writes off defective goods. Comments are mandatory.
type DefectiveRequest struct {
	WarehouseID id.ID
	Lines       []LineInput
}

// AttachmentInput is file metadata to link to an entry.
type AttachmentInput struct {
	Name        string
	Size        int64
	ContentType string
	StoragePath string
}

// EntryDetail aggregates an entry with its lines, attachments and trail.
type EntryDetail struct {
	Entry       *Entry           `json:"entry"`
	Lines       []*Line          `json:"lines"`
	Attachments []*Attachment    `json:"attachments"`
	Trail       []*HistoryRecord `json:"trail"`
}

// Input books goods into a warehouse: confirmed entry, snapshot increase and
// a cost engine update per line.
func (s *Service) Input(ctx context.Context, actor appctx.Actor, req InputRequest) (*Entry, error) {
	if err := s.validateLines(req.Lines, false); err != nil {
		return nil, err
	}

	var entry *Entry
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkWarehouse(ctx, req.WarehouseID); err != nil {
			return err
		}
		if err := s.checkItems(ctx, req.Lines); err != nil {
			return err
		}

		entry = NewInput(req.WarehouseID, actor.StaffID)
		if err := s.ledger.CreateEntry(ctx, entry); err != nil {
			return err
		}
		if err := s.ledger.SaveLines(ctx, entry.ID, buildLines(entry.ID, req.Lines)); err != nil {
			return err
		}

		for _, line := range req.Lines {
			if err := s.applyInbound(ctx, req.WarehouseID, line); err != nil {
				return err
			}
		}

		return s.appendHistory(ctx, entry, actor)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "stock input booked",
		"entry_id", entry.ID.String(),
		"warehouse_id", req.WarehouseID.String(),
		"lines", len(req.Lines),
	)
	return entry, nil
}

// Output stages a transfer (destination present) or books a terminal outbound
// (reason present). A staged transfer mutates no snapshot until resolution.
func (s *Service) Output(ctx context.Context, actor appctx.Actor, req OutputRequest) (*Entry, error) {
	if err := s.validateLines(req.Lines, false); err != nil {
		return nil, err
	}
	if req.DestWarehouseID != nil && *req.DestWarehouseID == req.SourceWarehouseID {
		return nil, apperror.NewValidation("destination warehouse must differ from source").
			WithDetail("field", "destWarehouseId")
	}

	var entry *Entry
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkWarehouse(ctx, req.SourceWarehouseID); err != nil {
			return err
		}
		if err := s.checkItems(ctx, req.Lines); err != nil {
			return err
		}

		if req.DestWarehouseID != nil {
			if err := s.checkWarehouse(ctx, *req.DestWarehouseID); err != nil {
				return err
			}
			entry = NewTransfer(req.SourceWarehouseID, *req.DestWarehouseID, actor.StaffID)
		} else {
			var err error
			entry, err = NewOutbound(req.SourceWarehouseID, actor.StaffID, req.Reason)
			if err != nil {
				return err
			}
		}

		if err := s.ledger.CreateEntry(ctx, entry); err != nil {
			return err
		}
		if err := s.ledger.SaveLines(ctx, entry.ID, buildLines(entry.ID, req.Lines)); err != nil {
			return err
		}

		// Terminal outbound decrements immediately; a pending transfer waits
		// for the destination to confirm.
		if req.DestWarehouseID == nil {
			for _, line := range req.Lines {
				if err := s.applyOutbound(ctx, req.SourceWarehouseID, line); err != nil {
					return err
				}
			}
		}

		return s.appendHistory(ctx, entry, actor)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "stock output booked",
		"entry_id", entry.ID.String(),
		"kind", string(entry.Kind),
		"status", string(entry.Status),
	)
	return entry, nil
}

// Defective writes off defective goods. Every line must carry a comment
// explaining the defect.
func (s *Service) Defective(ctx context.Context, actor appctx.Actor, req DefectiveRequest) (*Entry, error) {
	if err := s.validateLines(req.Lines, true); err != nil {
		return nil, err
	}

	var entry *Entry
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkWarehouse(ctx, req.WarehouseID); err != nil {
			return err
		}
		if err := s.checkItems(ctx, req.Lines); err != nil {
			return err
		}

		entry = NewDefective(req.WarehouseID, actor.StaffID)
		if err := s.ledger.CreateEntry(ctx, entry); err != nil {
			return err
		}
		if err := s.ledger.SaveLines(ctx, entry.ID, buildLines(entry.ID, req.Lines)); err != nil {
			return err
		}

		for _, line := range req.Lines {
			if err := s.applyOutbound(ctx, req.WarehouseID, line); err != nil {
				return err
			}
		}

		return s.appendHistory(ctx, entry, actor)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "defect write-off booked",
		"entry_id", entry.ID.String(),
		"warehouse_id", req.WarehouseID.String(),
	)
	return entry, nil
}

// ResolveTransfer confirms or cancels a pending transfer. Confirmation moves
// quantity out of the source and into the destination atomically, running the
// cost engine on the destination side. Cancellation only flips the status.
func (s *Service) ResolveTransfer(ctx context.Context, actor appctx.Actor, entryID id.ID, decision TransferDecision) (*Entry, error) {
	var entry *Entry
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		entry, err = s.ledger.GetEntryForUpdate(ctx, entryID)
		if err != nil {
			return err
		}

		if err := entry.Resolve(decision); err != nil {
			return err
		}

		if entry.Status == StatusConfirmed {
			lines, err := s.ledger.GetLines(ctx, entry.ID)
			if err != nil {
				return err
			}
			for _, line := range lines {
				in := LineInput{ItemID: line.ItemID, Amount: line.Amount, Price: line.Price}
				if err := s.applyOutbound(ctx, entry.SourceWarehouseID, in); err != nil {
					return err
				}
				if err := s.applyInbound(ctx, *entry.DestWarehouseID, in); err != nil {
					return err
				}
			}
		}

		if err := s.ledger.UpdateEntryStatus(ctx, entry); err != nil {
			return err
		}
		return s.appendHistory(ctx, entry, actor)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "transfer resolved",
		"entry_id", entry.ID.String(),
		"status", string(entry.Status),
	)
	return entry, nil
}

// PendingTransfers lists transfers awaiting confirmation at a destination.
func (s *Service) PendingTransfers(ctx context.Context, destWarehouseID id.ID) ([]*Entry, error) {
	if err := s.checkWarehouse(ctx, destWarehouseID); err != nil {
		return nil, err
	}
	return s.ledger.ListPendingTransfers(ctx, destWarehouseID)
}

// EntryDetail returns an entry with its lines, attachments and trail.
func (s *Service) EntryDetail(ctx context.Context, entryID id.ID) (*EntryDetail, error) {
	var detail *EntryDetail
	err := s.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		entry, err := s.ledger.GetEntry(ctx, entryID)
		if err != nil {
			return err
		}
		lines, err := s.ledger.GetLines(ctx, entryID)
		if err != nil {
			return err
		}
		atts, err := s.attachments.ListByEntry(ctx, entryID)
		if err != nil {
			return err
		}
		trail, err := s.history.ListByEntry(ctx, entryID)
		if err != nil {
			return err
		}
		detail = &EntryDetail{Entry: entry, Lines: lines, Attachments: atts, Trail: trail}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// Balances returns current snapshot rows for a warehouse.
// Runs in a read-only transaction so the listing is a consistent cut.
func (s *Service) Balances(ctx context.Context, warehouseID id.ID) ([]*Balance, error) {
	var balances []*Balance
	err := s.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		if err := s.checkWarehouse(ctx, warehouseID); err != nil {
			return err
		}
		var err error
		balances, err = s.snapshots.ListByWarehouse(ctx, warehouseID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return balances, nil
}

// History returns trail records for entries touching a warehouse, newest first.
func (s *Service) History(ctx context.Context, warehouseID id.ID, limit, offset int) ([]*HistoryView, int64, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var (
		views []*HistoryView
		total int64
	)
	err := s.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		if err := s.checkWarehouse(ctx, warehouseID); err != nil {
			return err
		}
		var err error
		views, total, err = s.history.ListByWarehouse(ctx, warehouseID, limit, offset)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// AttachFiles links file metadata to an existing entry.
func (s *Service) AttachFiles(ctx context.Context, entryID id.ID, files []AttachmentInput) ([]*Attachment, error) {
	if len(files) == 0 {
		return nil, apperror.NewValidation("no files provided").WithDetail("field", "files")
	}
	for i, f := range files {
		if f.Name == "" {
			return nil, apperror.NewValidation("file name is required").WithDetail("index", i)
		}
	}

	var atts []*Attachment
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.ledger.GetEntry(ctx, entryID); err != nil {
			return err
		}

		now := time.Now().UTC()
		atts = make([]*Attachment, 0, len(files))
		for _, f := range files {
			atts = append(atts, &Attachment{
				ID:          id.New(),
				EntryID:     entryID,
				Name:        f.Name,
				Size:        f.Size,
				ContentType: f.ContentType,
				StoragePath: f.StoragePath,
				CreatedAt:   now,
			})
		}
		return s.attachments.Add(ctx, atts)
	})
	if err != nil {
		return nil, err
	}
	return atts, nil
}

// OrderIntake books produced goods of a completed order into a warehouse.
// Called by the order completion reconciler; same semantics as Input but the
// entry is tagged with the order.
func (s *Service) OrderIntake(ctx context.Context, actor appctx.Actor, warehouseID, orderID id.ID, lines []LineInput) (*Entry, error) {
	if err := s.validateLines(lines, false); err != nil {
		return nil, err
	}

	var entry *Entry
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkWarehouse(ctx, warehouseID); err != nil {
			return err
		}
		if err := s.checkItems(ctx, lines); err != nil {
			return err
		}

		entry = NewOrderIntake(warehouseID, orderID, actor.StaffID)
		if err := s.ledger.CreateEntry(ctx, entry); err != nil {
			return err
		}
		if err := s.ledger.SaveLines(ctx, entry.ID, buildLines(entry.ID, lines)); err != nil {
			return err
		}

		for _, line := range lines {
			if err := s.applyInbound(ctx, warehouseID, line); err != nil {
				return err
			}
		}

		return s.appendHistory(ctx, entry, actor)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// OrderConsumption books materials consumed by a completed order out of a
// warehouse. Cost prices are not touched.
func (s *Service) OrderConsumption(ctx context.Context, actor appctx.Actor, warehouseID, orderID id.ID, lines []LineInput) (*Entry, error) {
	if err := s.validateLines(lines, false); err != nil {
		return nil, err
	}

	var entry *Entry
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkWarehouse(ctx, warehouseID); err != nil {
			return err
		}
		if err := s.checkItems(ctx, lines); err != nil {
			return err
		}

		entry = NewOrderConsumption(warehouseID, orderID, actor.StaffID)
		if err := s.ledger.CreateEntry(ctx, entry); err != nil {
			return err
		}
		if err := s.ledger.SaveLines(ctx, entry.ID, buildLines(entry.ID, lines)); err != nil {
			return err
		}

		for _, line := range lines {
			if err := s.applyOutbound(ctx, warehouseID, line); err != nil {
				return err
			}
		}

		return s.appendHistory(ctx, entry, actor)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// --- internals ---

// applyInbound increases the snapshot and recomputes the item's moving
// weighted-average cost. The snapshot row is locked for the whole
// read-modify-write.
func (s *Service) applyInbound(ctx context.Context, warehouseID id.ID, line LineInput) error {
	snapshot, err := s.snapshots.GetForUpdate(ctx, warehouseID, line.ItemID)
	if err != nil {
		return err
	}

	oldCost, err := s.items.GetCostForUpdate(ctx, line.ItemID)
	if err != nil {
		return err
	}

	newCost := WeightedAverageCost(snapshot.Amount, oldCost, line.Amount, line.Price)

	snapshot.Amount = snapshot.Amount.Add(line.Amount)
	snapshot.UpdatedAt = time.Now().UTC()
	if err := s.snapshots.Put(ctx, snapshot); err != nil {
		return err
	}

	return s.items.UpdateCostPrice(ctx, line.ItemID, newCost)
}

// applyOutbound decreases the snapshot. Cost is never touched on the way out.
func (s *Service) applyOutbound(ctx context.Context, warehouseID id.ID, line LineInput) error {
	snapshot, err := s.snapshots.GetForUpdate(ctx, warehouseID, line.ItemID)
	if err != nil {
		return err
	}

	snapshot.Amount = snapshot.Amount.Sub(line.Amount)
	snapshot.UpdatedAt = time.Now().UTC()
	return s.snapshots.Put(ctx, snapshot)
}

func (s *Service) appendHistory(ctx context.Context, entry *Entry, actor appctx.Actor) error {
	return s.history.Append(ctx, &HistoryRecord{
		ID:           id.New(),
		EntryID:      entry.ID,
		Status:       entry.Status,
		StaffID:      actor.StaffID,
		StaffName:    actor.Name,
		StaffSurname: actor.Surname,
		CreatedAt:    time.Now().UTC(),
	})
}

func (s *Service) checkWarehouse(ctx context.Context, warehouseID id.ID) error {
	ok, err := s.warehouses.Exists(ctx, warehouseID)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NewNotFound("warehouse", warehouseID.String())
	}
	return nil
}

func (s *Service) checkItems(ctx context.Context, lines []LineInput) error {
	for _, line := range lines {
		ok, err := s.items.Exists(ctx, line.ItemID)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.NewNotFound("item", line.ItemID.String())
		}
	}
	return nil
}

func (s *Service) validateLines(lines []LineInput, requireComment bool) error {
	if len(lines) == 0 {
		return apperror.NewValidation("at least one line is required").WithDetail("field", "lines")
	}
	for i, line := range lines {
		if id.IsNil(line.ItemID) {
			return apperror.NewValidation("item is required").
				WithDetail("field", "itemId").WithDetail("line", i)
		}
		if !line.Amount.IsPositive() {
			return apperror.NewValidation("amount must be positive").
				WithDetail("field", "amount").WithDetail("line", i)
		}
		if line.Price.IsNegative() {
			return apperror.NewValidation("price must not be negative").
				WithDetail("field", "price").WithDetail("line", i)
		}
		if requireComment && line.Comment == "" {
			return apperror.NewValidation("comment is required for defect write-off").
				WithDetail("field", "comment").WithDetail("line", i)
		}
	}
	return nil
}

func buildLines(entryID id.ID, inputs []LineInput) []*Line {
	lines := make([]*Line, 0, len(inputs))
	for _, in := range inputs {
		line := NewLine(entryID, in.ItemID, in.Amount, in.Price)
		if in.Comment != "" {
			c := in.Comment
			line.Comment = &c
		}
		lines = append(lines, line)
	}
	return lines
}
