package stock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stitchline/internal/core/apperror"
	appctx "stitchline/internal/core/context"
	"stitchline/internal/core/id"
	"stitchline/internal/core/types"
)

// --- in-memory fakes ---

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeLedger struct {
	entries map[id.ID]*Entry
	lines   map[id.ID][]*Line
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		entries: make(map[id.ID]*Entry),
		lines:   make(map[id.ID][]*Line),
	}
}

func (f *fakeLedger) CreateEntry(_ context.Context, entry *Entry) error {
	cp := *entry
	f.entries[entry.ID] = &cp
	return nil
}

func (f *fakeLedger) SaveLines(_ context.Context, entryID id.ID, lines []*Line) error {
	f.lines[entryID] = lines
	return nil
}

func (f *fakeLedger) GetEntry(_ context.Context, entryID id.ID) (*Entry, error) {
	e, ok := f.entries[entryID]
	if !ok {
		return nil, apperror.NewNotFound("stock entry", entryID.String())
	}
	cp := *e
	return &cp, nil
}

func (f *fakeLedger) GetEntryForUpdate(ctx context.Context, entryID id.ID) (*Entry, error) {
	return f.GetEntry(ctx, entryID)
}

func (f *fakeLedger) UpdateEntryStatus(_ context.Context, entry *Entry) error {
	stored, ok := f.entries[entry.ID]
	if !ok {
		return apperror.NewNotFound("stock entry", entry.ID.String())
	}
	if stored.Version != entry.Version-1 {
		return apperror.NewConcurrentModification("stock entry", entry.ID.String())
	}
	cp := *entry
	f.entries[entry.ID] = &cp
	return nil
}

func (f *fakeLedger) GetLines(_ context.Context, entryID id.ID) ([]*Line, error) {
	return f.lines[entryID], nil
}

func (f *fakeLedger) ListPendingTransfers(_ context.Context, destWarehouseID id.ID) ([]*Entry, error) {
	var out []*Entry
	for _, e := range f.entries {
		if e.IsPendingTransfer() && e.DestWarehouseID != nil && *e.DestWarehouseID == destWarehouseID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

type snapshotKey struct {
	warehouseID id.ID
	itemID      id.ID
}

type fakeSnapshots struct {
	rows map[snapshotKey]*Snapshot
}

func newFakeSnapshots() *fakeSnapshots {
	return &fakeSnapshots{rows: make(map[snapshotKey]*Snapshot)}
}

func (f *fakeSnapshots) GetForUpdate(_ context.Context, warehouseID, itemID id.ID) (*Snapshot, error) {
	if s, ok := f.rows[snapshotKey{warehouseID, itemID}]; ok {
		cp := *s
		return &cp, nil
	}
	return NewSnapshot(warehouseID, itemID), nil
}

func (f *fakeSnapshots) Put(_ context.Context, snapshot *Snapshot) error {
	cp := *snapshot
	f.rows[snapshotKey{snapshot.WarehouseID, snapshot.ItemID}] = &cp
	return nil
}

func (f *fakeSnapshots) ListByWarehouse(_ context.Context, warehouseID id.ID) ([]*Balance, error) {
	var out []*Balance
	for key, s := range f.rows {
		if key.warehouseID == warehouseID {
			out = append(out, &Balance{ItemID: s.ItemID, Amount: s.Amount})
		}
	}
	return out, nil
}

func (f *fakeSnapshots) amount(warehouseID, itemID id.ID) types.Quantity {
	if s, ok := f.rows[snapshotKey{warehouseID, itemID}]; ok {
		return s.Amount
	}
	return 0
}

type fakeHistory struct {
	records   []*HistoryRecord
	lastLimit int
}

func (f *fakeHistory) Append(_ context.Context, record *HistoryRecord) error {
	f.records = append(f.records, record)
	return nil
}

func (f *fakeHistory) ListByWarehouse(_ context.Context, _ id.ID, limit, _ int) ([]*HistoryView, int64, error) {
	f.lastLimit = limit
	return nil, 0, nil
}

func (f *fakeHistory) ListByEntry(_ context.Context, entryID id.ID) ([]*HistoryRecord, error) {
	var out []*HistoryRecord
	for _, r := range f.records {
		if r.EntryID == entryID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeAttachments struct {
	byEntry map[id.ID][]*Attachment
}

func newFakeAttachments() *fakeAttachments {
	return &fakeAttachments{byEntry: make(map[id.ID][]*Attachment)}
}

func (f *fakeAttachments) Add(_ context.Context, attachments []*Attachment) error {
	for _, a := range attachments {
		f.byEntry[a.EntryID] = append(f.byEntry[a.EntryID], a)
	}
	return nil
}

func (f *fakeAttachments) ListByEntry(_ context.Context, entryID id.ID) ([]*Attachment, error) {
	return f.byEntry[entryID], nil
}

type fakeItems struct {
	known map[id.ID]bool
	costs map[id.ID]types.Money
}

func newFakeItems(ids ...id.ID) *fakeItems {
	f := &fakeItems{known: make(map[id.ID]bool), costs: make(map[id.ID]types.Money)}
	for _, itemID := range ids {
		f.known[itemID] = true
		f.costs[itemID] = types.Zero()
	}
	return f
}

func (f *fakeItems) Exists(_ context.Context, itemID id.ID) (bool, error) {
	return f.known[itemID], nil
}

func (f *fakeItems) GetCostForUpdate(_ context.Context, itemID id.ID) (types.Money, error) {
	if !f.known[itemID] {
		return types.Zero(), apperror.NewNotFound("item", itemID.String())
	}
	return f.costs[itemID], nil
}

func (f *fakeItems) UpdateCostPrice(_ context.Context, itemID id.ID, cost types.Money) error {
	f.costs[itemID] = cost
	return nil
}

type fakeWarehouses struct {
	known map[id.ID]bool
}

func newFakeWarehouses(ids ...id.ID) *fakeWarehouses {
	f := &fakeWarehouses{known: make(map[id.ID]bool)}
	for _, warehouseID := range ids {
		f.known[warehouseID] = true
	}
	return f
}

func (f *fakeWarehouses) Exists(_ context.Context, warehouseID id.ID) (bool, error) {
	return f.known[warehouseID], nil
}

// --- fixture ---

type fixture struct {
	service   *Service
	ledger    *fakeLedger
	snapshots *fakeSnapshots
	history   *fakeHistory
	atts      *fakeAttachments
	items     *fakeItems

	warehouseID id.ID
	destID      id.ID
	itemID      id.ID
	actor       appctx.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		ledger:      newFakeLedger(),
		snapshots:   newFakeSnapshots(),
		history:     &fakeHistory{},
		atts:        newFakeAttachments(),
		warehouseID: id.New(),
		destID:      id.New(),
		itemID:      id.New(),
		actor: appctx.Actor{
			StaffID: id.New(),
			Name:    "Petro",
			Surname: "Melnyk",
			Role:    "warehouse",
		},
	}
	f.items = newFakeItems(f.itemID)

	f.service = NewService(ServiceConfig{
		Ledger:      f.ledger,
		Snapshots:   f.snapshots,
		History:     f.history,
		Attachments: f.atts,
		Items:       f.items,
		Warehouses:  newFakeWarehouses(f.warehouseID, f.destID),
		TxManager:   fakeTxManager{},
	})
	return f
}

func (f *fixture) line(amount float64, price string) LineInput {
	return LineInput{ItemID: f.itemID, Amount: qty(amount), Price: types.MustMoney(price)}
}

// --- tests ---

func TestService_Input(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entry, err := f.service.Input(ctx, f.actor, InputRequest{
		WarehouseID: f.warehouseID,
		Lines:       []LineInput{f.line(10, "5")},
	})
	require.NoError(t, err)
	assert.Equal(t, KindInput, entry.Kind)
	assert.Equal(t, StatusConfirmed, entry.Status)

	assert.Equal(t, qty(10), f.snapshots.amount(f.warehouseID, f.itemID))
	assert.True(t, f.items.costs[f.itemID].Equal(types.MustMoney("5")))

	require.Len(t, f.history.records, 1)
	rec := f.history.records[0]
	assert.Equal(t, entry.ID, rec.EntryID)
	assert.Equal(t, StatusConfirmed, rec.Status)
	assert.Equal(t, f.actor.StaffID, rec.StaffID)
	assert.Equal(t, "Petro", rec.StaffName)
	assert.Equal(t, "Melnyk", rec.StaffSurname)
}

func TestService_Input_RecomputesAverageCost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Input(ctx, f.actor, InputRequest{
		WarehouseID: f.warehouseID,
		Lines:       []LineInput{f.line(10, "5")},
	})
	require.NoError(t, err)

	_, err = f.service.Input(ctx, f.actor, InputRequest{
		WarehouseID: f.warehouseID,
		Lines:       []LineInput{f.line(10, "7")},
	})
	require.NoError(t, err)

	assert.Equal(t, qty(20), f.snapshots.amount(f.warehouseID, f.itemID))
	assert.True(t, f.items.costs[f.itemID].Equal(types.MustMoney("6")),
		"got %s", f.items.costs[f.itemID])
}

func TestService_Input_UnknownWarehouse(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Input(context.Background(), f.actor, InputRequest{
		WarehouseID: id.New(),
		Lines:       []LineInput{f.line(1, "1")},
	})
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_Input_UnknownItem(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Input(context.Background(), f.actor, InputRequest{
		WarehouseID: f.warehouseID,
		Lines:       []LineInput{{ItemID: id.New(), Amount: qty(1), Price: types.Zero()}},
	})
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_Input_ValidatesLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Input(ctx, f.actor, InputRequest{WarehouseID: f.warehouseID})
	require.Error(t, err)

	_, err = f.service.Input(ctx, f.actor, InputRequest{
		WarehouseID: f.warehouseID,
		Lines:       []LineInput{{ItemID: f.itemID, Amount: qty(0), Price: types.Zero()}},
	})
	require.Error(t, err)

	_, err = f.service.Input(ctx, f.actor, InputRequest{
		WarehouseID: f.warehouseID,
		Lines:       []LineInput{{ItemID: f.itemID, Amount: qty(1), Price: types.MustMoney("-1")}},
	})
	require.Error(t, err)
}

func TestService_Output_StagesTransfer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entry, err := f.service.Output(ctx, f.actor, OutputRequest{
		SourceWarehouseID: f.warehouseID,
		DestWarehouseID:   &f.destID,
		Lines:             []LineInput{f.line(4, "0")},
	})
	require.NoError(t, err)
	assert.True(t, entry.IsPendingTransfer())

	// Nothing moves until the destination confirms.
	assert.Equal(t, qty(0), f.snapshots.amount(f.warehouseID, f.itemID))
	assert.Equal(t, qty(0), f.snapshots.amount(f.destID, f.itemID))

	pending, err := f.service.PendingTransfers(ctx, f.destID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, entry.ID, pending[0].ID)
}

func TestService_Output_SameSourceAndDest(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Output(context.Background(), f.actor, OutputRequest{
		SourceWarehouseID: f.warehouseID,
		DestWarehouseID:   &f.warehouseID,
		Lines:             []LineInput{f.line(1, "0")},
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestService_Output_TerminalWriteOff(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Input(ctx, f.actor, InputRequest{
		WarehouseID: f.warehouseID,
		Lines:       []LineInput{f.line(10, "5")},
	})
	require.NoError(t, err)

	entry, err := f.service.Output(ctx, f.actor, OutputRequest{
		SourceWarehouseID: f.warehouseID,
		Reason:            ReasonWriteOff,
		Lines:             []LineInput{f.line(3, "0")},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusWriteOff, entry.Status)
	assert.Equal(t, qty(7), f.snapshots.amount(f.warehouseID, f.itemID))

	// Cost is untouched on the way out.
	assert.True(t, f.items.costs[f.itemID].Equal(types.MustMoney("5")))
}

func TestService_Output_AllowsNegativeStock(t *testing.T) {
	f := newFixture(t)

	entry, err := f.service.Output(context.Background(), f.actor, OutputRequest{
		SourceWarehouseID: f.warehouseID,
		Reason:            ReasonReturnToClient,
		Lines:             []LineInput{f.line(5, "0")},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusReturnToClient, entry.Status)
	assert.Equal(t, qty(-5), f.snapshots.amount(f.warehouseID, f.itemID))
}

func TestService_Output_InvalidReason(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Output(context.Background(), f.actor, OutputRequest{
		SourceWarehouseID: f.warehouseID,
		Reason:            OutboundReason("lost"),
		Lines:             []LineInput{f.line(1, "0")},
	})
	require.Error(t, err)
}

func TestService_Defective(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	line := f.line(2, "0")
	line.Comment = "torn seam on the left sleeve"

	entry, err := f.service.Defective(ctx, f.actor, DefectiveRequest{
		WarehouseID: f.warehouseID,
		Lines:       []LineInput{line},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusDefect, entry.Status)
	assert.Equal(t, qty(-2), f.snapshots.amount(f.warehouseID, f.itemID))

	lines, err := f.ledger.GetLines(ctx, entry.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.NotNil(t, lines[0].Comment)
	assert.Equal(t, "torn seam on the left sleeve", *lines[0].Comment)
}

func TestService_Defective_RequiresComment(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Defective(context.Background(), f.actor, DefectiveRequest{
		WarehouseID: f.warehouseID,
		Lines:       []LineInput{f.line(2, "0")},
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestService_ResolveTransfer_Confirm(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Input(ctx, f.actor, InputRequest{
		WarehouseID: f.warehouseID,
		Lines:       []LineInput{f.line(10, "5")},
	})
	require.NoError(t, err)

	staged, err := f.service.Output(ctx, f.actor, OutputRequest{
		SourceWarehouseID: f.warehouseID,
		DestWarehouseID:   &f.destID,
		Lines:             []LineInput{f.line(4, "5")},
	})
	require.NoError(t, err)

	resolved, err := f.service.ResolveTransfer(ctx, f.actor, staged.ID, DecisionConfirm)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, resolved.Status)
	assert.Equal(t, 2, resolved.Version)

	assert.Equal(t, qty(6), f.snapshots.amount(f.warehouseID, f.itemID))
	assert.Equal(t, qty(4), f.snapshots.amount(f.destID, f.itemID))

	// One record for the staging, one for the resolution.
	trail, err := f.history.ListByEntry(ctx, staged.ID)
	require.NoError(t, err)
	require.Len(t, trail, 2)
	assert.Equal(t, StatusPendingTransfer, trail[0].Status)
	assert.Equal(t, StatusConfirmed, trail[1].Status)
}

func TestService_ResolveTransfer_Cancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Input(ctx, f.actor, InputRequest{
		WarehouseID: f.warehouseID,
		Lines:       []LineInput{f.line(10, "5")},
	})
	require.NoError(t, err)

	staged, err := f.service.Output(ctx, f.actor, OutputRequest{
		SourceWarehouseID: f.warehouseID,
		DestWarehouseID:   &f.destID,
		Lines:             []LineInput{f.line(4, "5")},
	})
	require.NoError(t, err)

	resolved, err := f.service.ResolveTransfer(ctx, f.actor, staged.ID, DecisionCancel)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, resolved.Status)

	// Cancellation only flips the status.
	assert.Equal(t, qty(10), f.snapshots.amount(f.warehouseID, f.itemID))
	assert.Equal(t, qty(0), f.snapshots.amount(f.destID, f.itemID))
}

func TestService_ResolveTransfer_Twice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	staged, err := f.service.Output(ctx, f.actor, OutputRequest{
		SourceWarehouseID: f.warehouseID,
		DestWarehouseID:   &f.destID,
		Lines:             []LineInput{f.line(4, "0")},
	})
	require.NoError(t, err)

	_, err = f.service.ResolveTransfer(ctx, f.actor, staged.ID, DecisionConfirm)
	require.NoError(t, err)

	_, err = f.service.ResolveTransfer(ctx, f.actor, staged.ID, DecisionConfirm)
	assert.True(t, apperror.IsInvalidTransition(err))

	// Quantities moved exactly once.
	assert.Equal(t, qty(-4), f.snapshots.amount(f.warehouseID, f.itemID))
	assert.Equal(t, qty(4), f.snapshots.amount(f.destID, f.itemID))
}

func TestService_ResolveTransfer_RunsCostEngineAtDestination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Input(ctx, f.actor, InputRequest{
		WarehouseID: f.warehouseID,
		Lines:       []LineInput{f.line(10, "5")},
	})
	require.NoError(t, err)

	staged, err := f.service.Output(ctx, f.actor, OutputRequest{
		SourceWarehouseID: f.warehouseID,
		DestWarehouseID:   &f.destID,
		Lines:             []LineInput{f.line(10, "8")},
	})
	require.NoError(t, err)

	_, err = f.service.ResolveTransfer(ctx, f.actor, staged.ID, DecisionConfirm)
	require.NoError(t, err)

	// Dest received 10 at 8.00 onto empty stock.
	assert.True(t, f.items.costs[f.itemID].Equal(types.MustMoney("8")),
		"got %s", f.items.costs[f.itemID])
}

func TestService_EntryDetail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entry, err := f.service.Input(ctx, f.actor, InputRequest{
		WarehouseID: f.warehouseID,
		Lines:       []LineInput{f.line(1, "2")},
	})
	require.NoError(t, err)

	atts, err := f.service.AttachFiles(ctx, entry.ID, []AttachmentInput{
		{Name: "waybill.pdf", Size: 2048, ContentType: "application/pdf", StoragePath: "entries/waybill.pdf"},
	})
	require.NoError(t, err)
	require.Len(t, atts, 1)

	detail, err := f.service.EntryDetail(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, detail.Entry.ID)
	require.Len(t, detail.Lines, 1)
	require.Len(t, detail.Attachments, 1)
	assert.Equal(t, "waybill.pdf", detail.Attachments[0].Name)

	require.Len(t, detail.Trail, 1)
	assert.Equal(t, StatusConfirmed, detail.Trail[0].Status)
	assert.Equal(t, f.actor.StaffID, detail.Trail[0].StaffID)
	assert.Equal(t, f.actor.Name, detail.Trail[0].StaffName)
}

func TestService_AttachFiles_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.AttachFiles(ctx, id.New(), nil)
	require.Error(t, err)

	_, err = f.service.AttachFiles(ctx, id.New(), []AttachmentInput{{Name: ""}})
	require.Error(t, err)

	// Unknown entry.
	_, err = f.service.AttachFiles(ctx, id.New(), []AttachmentInput{{Name: "photo.jpg"}})
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_History_ClampsLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, _, err := f.service.History(ctx, f.warehouseID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 50, f.history.lastLimit)

	_, _, err = f.service.History(ctx, f.warehouseID, 500, 0)
	require.NoError(t, err)
	assert.Equal(t, 50, f.history.lastLimit)

	_, _, err = f.service.History(ctx, f.warehouseID, 25, 0)
	require.NoError(t, err)
	assert.Equal(t, 25, f.history.lastLimit)
}

func TestService_OrderBookings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	orderID := id.New()

	intake, err := f.service.OrderIntake(ctx, f.actor, f.warehouseID, orderID,
		[]LineInput{f.line(6, "20")})
	require.NoError(t, err)
	assert.Equal(t, KindOrderIntake, intake.Kind)
	require.NotNil(t, intake.OrderID)
	assert.Equal(t, orderID, *intake.OrderID)
	assert.Equal(t, qty(6), f.snapshots.amount(f.warehouseID, f.itemID))
	assert.True(t, f.items.costs[f.itemID].Equal(types.MustMoney("20")))

	consumption, err := f.service.OrderConsumption(ctx, f.actor, f.warehouseID, orderID,
		[]LineInput{f.line(2, "0")})
	require.NoError(t, err)
	assert.Equal(t, KindOrderConsumption, consumption.Kind)
	assert.Equal(t, qty(4), f.snapshots.amount(f.warehouseID, f.itemID))

	// Consumption never touches cost.
	assert.True(t, f.items.costs[f.itemID].Equal(types.MustMoney("20")))
}

func TestService_SnapshotUpdatedAtAdvances(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	before := time.Now().UTC()
	_, err := f.service.Input(ctx, f.actor, InputRequest{
		WarehouseID: f.warehouseID,
		Lines:       []LineInput{f.line(1, "1")},
	})
	require.NoError(t, err)

	s, ok := f.snapshots.rows[snapshotKey{f.warehouseID, f.itemID}]
	require.True(t, ok)
	assert.False(t, s.UpdatedAt.Before(before))
}
