package warehouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stitchline/internal/core/apperror"
	"stitchline/internal/core/id"
	"stitchline/internal/domain"
)

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRepo struct {
	warehouses  map[id.ID]*Warehouse
	assignments map[id.ID][]id.ID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		warehouses:  make(map[id.ID]*Warehouse),
		assignments: make(map[id.ID][]id.ID),
	}
}

func (f *fakeRepo) Create(_ context.Context, w *Warehouse) error {
	cp := *w
	f.warehouses[w.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, warehouseID id.ID) (*Warehouse, error) {
	w, ok := f.warehouses[warehouseID]
	if !ok {
		return nil, apperror.NewNotFound("warehouse", warehouseID.String())
	}
	cp := *w
	return &cp, nil
}

func (f *fakeRepo) GetByCode(_ context.Context, code string) (*Warehouse, error) {
	for _, w := range f.warehouses {
		if w.Code == code {
			cp := *w
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("warehouse", code)
}

func (f *fakeRepo) Update(_ context.Context, w *Warehouse) error {
	if _, ok := f.warehouses[w.ID]; !ok {
		return apperror.NewNotFound("warehouse", w.ID.String())
	}
	cp := *w
	f.warehouses[w.ID] = &cp
	return nil
}

func (f *fakeRepo) SetDeletionMark(_ context.Context, warehouseID id.ID, marked bool) error {
	w, ok := f.warehouses[warehouseID]
	if !ok {
		return apperror.NewNotFound("warehouse", warehouseID.String())
	}
	w.DeletionMark = marked
	return nil
}

func (f *fakeRepo) List(_ context.Context, _ domain.ListFilter) (domain.ListResult[*Warehouse], error) {
	return domain.ListResult[*Warehouse]{}, nil
}

func (f *fakeRepo) Exists(_ context.Context, warehouseID id.ID) (bool, error) {
	_, ok := f.warehouses[warehouseID]
	return ok, nil
}

func (f *fakeRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	for _, w := range f.warehouses {
		if w.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) GetForUpdate(ctx context.Context, warehouseID id.ID) (*Warehouse, error) {
	return f.GetByID(ctx, warehouseID)
}

func (f *fakeRepo) AssignStaff(_ context.Context, warehouseID id.ID, staffIDs []id.ID) error {
	f.assignments[warehouseID] = staffIDs
	return nil
}

func (f *fakeRepo) GetForStaff(_ context.Context, staffID id.ID) (*Warehouse, error) {
	for warehouseID, assigned := range f.assignments {
		for _, sid := range assigned {
			if sid == staffID {
				return f.warehouses[warehouseID], nil
			}
		}
	}
	return nil, apperror.NewNotFound("warehouse", staffID.String())
}

func TestService_AssignStaff(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, fakeTxManager{})
	ctx := context.Background()

	w := NewWarehouse("WH-001", "Raw material store")
	require.NoError(t, svc.Create(ctx, w))

	staffIDs := []id.ID{id.New(), id.New()}
	require.NoError(t, svc.AssignStaff(ctx, w.ID, staffIDs))
	assert.Equal(t, staffIDs, repo.assignments[w.ID])

	got, err := svc.GetForStaff(ctx, staffIDs[0])
	require.NoError(t, err)
	assert.Equal(t, w.ID, got.ID)
}

func TestService_AssignStaff_UnknownWarehouse(t *testing.T) {
	svc := NewService(newFakeRepo(), fakeTxManager{})

	err := svc.AssignStaff(context.Background(), id.New(), []id.ID{id.New()})
	assert.True(t, apperror.IsNotFound(err))
}

func TestWarehouse_CanAcceptStock(t *testing.T) {
	w := NewWarehouse("WH-002", "Cutting shop store")
	assert.True(t, w.CanAcceptStock())

	w.IsActive = false
	assert.False(t, w.CanAcceptStock())

	w.IsActive = true
	w.MarkDeleted()
	assert.False(t, w.CanAcceptStock())
}
