package item

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stitchline/internal/core/apperror"
	"stitchline/internal/core/id"
	"stitchline/internal/core/types"
	"stitchline/internal/domain"
)

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRepo struct {
	items map[id.ID]*Item
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[id.ID]*Item)}
}

func (f *fakeRepo) Create(_ context.Context, it *Item) error {
	cp := *it
	f.items[it.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, itemID id.ID) (*Item, error) {
	it, ok := f.items[itemID]
	if !ok {
		return nil, apperror.NewNotFound("item", itemID.String())
	}
	cp := *it
	return &cp, nil
}

func (f *fakeRepo) GetByCode(_ context.Context, code string) (*Item, error) {
	for _, it := range f.items {
		if it.Code == code {
			cp := *it
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("item", code)
}

func (f *fakeRepo) Update(_ context.Context, it *Item) error {
	if _, ok := f.items[it.ID]; !ok {
		return apperror.NewNotFound("item", it.ID.String())
	}
	cp := *it
	f.items[it.ID] = &cp
	return nil
}

func (f *fakeRepo) SetDeletionMark(_ context.Context, itemID id.ID, marked bool) error {
	it, ok := f.items[itemID]
	if !ok {
		return apperror.NewNotFound("item", itemID.String())
	}
	it.DeletionMark = marked
	return nil
}

func (f *fakeRepo) List(_ context.Context, _ domain.ListFilter) (domain.ListResult[*Item], error) {
	return domain.ListResult[*Item]{}, nil
}

func (f *fakeRepo) Exists(_ context.Context, itemID id.ID) (bool, error) {
	_, ok := f.items[itemID]
	return ok, nil
}

func (f *fakeRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	for _, it := range f.items {
		if it.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) GetCostForUpdate(_ context.Context, itemID id.ID) (types.Money, error) {
	it, ok := f.items[itemID]
	if !ok {
		return types.Zero(), apperror.NewNotFound("item", itemID.String())
	}
	return it.CostPrice, nil
}

func (f *fakeRepo) UpdateCostPrice(_ context.Context, itemID id.ID, cost types.Money) error {
	it, ok := f.items[itemID]
	if !ok {
		return apperror.NewNotFound("item", itemID.String())
	}
	it.CostPrice = cost
	return nil
}

func TestService_Update_PreservesCostPrice(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, fakeTxManager{})
	ctx := context.Background()

	it := NewItem("MAT-00001", "Cotton fabric", TypeMaterial, UnitSquareMeter)
	require.NoError(t, svc.Create(ctx, it))

	// Cost engine writes the price out of band.
	require.NoError(t, repo.UpdateCostPrice(ctx, it.ID, types.MustMoney("12.50")))

	// A catalog update carrying a stale or forged cost must not stick.
	update, err := svc.GetByID(ctx, it.ID)
	require.NoError(t, err)
	update.Name = "Cotton fabric, bleached"
	update.CostPrice = types.MustMoney("999")
	require.NoError(t, svc.Update(ctx, update))

	stored, err := svc.GetByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cotton fabric, bleached", stored.Name)
	assert.True(t, stored.CostPrice.Equal(types.MustMoney("12.50")),
		"got %s", stored.CostPrice)
}

func TestService_Create_Validates(t *testing.T) {
	svc := NewService(newFakeRepo(), fakeTxManager{})
	ctx := context.Background()

	err := svc.Create(ctx, NewItem("MAT-00002", "", TypeMaterial, UnitPiece))
	require.Error(t, err)

	err = svc.Create(ctx, NewItem("MAT-00003", "Thread", ItemType("imaginary"), UnitPiece))
	require.Error(t, err)

	err = svc.Create(ctx, NewItem("MAT-00004", "Thread", TypeMaterial, Unit("barrel")))
	require.Error(t, err)
}

func TestItem_Validate_FlowStatus(t *testing.T) {
	it := NewItem("MAT-00005", "Interlining", TypeMaterial, UnitRoll)

	flow := FlowCut
	it.FlowStatus = &flow
	assert.NoError(t, it.Validate(context.Background()))

	bad := FlowStatus("warehouse")
	it.FlowStatus = &bad
	assert.Error(t, it.Validate(context.Background()))
}

func TestService_Delete_SoftDeletes(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, fakeTxManager{})
	ctx := context.Background()

	it := NewItem("PRD-00001", "Men's shirt", TypeProduct, UnitPiece)
	require.NoError(t, svc.Create(ctx, it))

	require.NoError(t, svc.Delete(ctx, it.ID))

	stored, err := repo.GetByID(ctx, it.ID)
	require.NoError(t, err)
	assert.True(t, stored.DeletionMark)
}
