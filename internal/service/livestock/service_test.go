package livestock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdledger/internal/domain/models"
)

type fixture struct {
	service  *Service
	animals  *memoryAnimals
	costs    *memoryCosts
	settings *memorySettings
}

func newFixture() fixture {
	f := fixture{
		animals:  newMemoryAnimals(),
		costs:    &memoryCosts{},
		settings: &memorySettings{},
	}
	f.service = NewService(f.animals, f.costs, f.settings, zap.NewNop())
	f.service.now = func() time.Time { return time.Date(2024, 7, 8, 12, 0, 0, 0, time.UTC) }
	return f
}

func (f fixture) createAnimal(t *testing.T, in AnimalInput) models.Animal {
	t.Helper()
	animal, err := f.service.CreateAnimal(context.Background(), in)
	require.NoError(t, err)
	return animal
}

func TestServiceAnimalLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	animal := f.createAnimal(t, AnimalInput{Type: "Boi", PurchaseDate: "2024-01-10", PurchaseValue: decPtr("5000")})
	assert.NotEmpty(t, animal.ID)
	assert.Equal(t, models.AnimalStatusActive, animal.Status)

	_, err := f.service.AddCost(ctx, animal.ID, CostInput{Date: "2024-02-01", Amount: decPtr("200"), Category: "feed", Description: "hay"})
	require.NoError(t, err)
	_, err = f.service.AddCost(ctx, animal.ID, CostInput{Date: "2024-03-01", Amount: decPtr("300"), Category: "vaccines", Description: "aftosa"})
	require.NoError(t, err)

	sold, err := f.service.UpdateAnimal(ctx, animal.ID, AnimalInput{
		Type: "Boi", PurchaseDate: "2024-01-10", PurchaseValue: decPtr("5000"),
		SaleDate: "2024-07-08", SaleValue: decPtr("6000"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.AnimalStatusSold, sold.Status)

	details, err := f.service.GetAnimal(ctx, animal.ID)
	require.NoError(t, err)
	require.Len(t, details.Costs, 2)
	assert.Equal(t, "aftosa", details.Costs[0].Description)
	assert.Equal(t, "1000.00", details.Metrics.GrossProfit.StringFixed(2))
	assert.Equal(t, "500.00", details.Metrics.TotalCosts.StringFixed(2))
	assert.Equal(t, "500.00", details.Metrics.NetProfit.StringFixed(2))
	assert.Equal(t, "10.00", details.Metrics.ROI.StringFixed(2))
	assert.Equal(t, 180, details.Metrics.HoldingDays)
}

func TestServiceDeleteAnimalCascadesCosts(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	keep := f.createAnimal(t, AnimalInput{Type: "Vaca", PurchaseDate: "2024-01-01", PurchaseValue: decPtr("3000")})
	drop := f.createAnimal(t, AnimalInput{Type: "Boi", PurchaseDate: "2024-01-01", PurchaseValue: decPtr("4000")})

	for _, id := range []string{keep.ID, drop.ID, drop.ID} {
		_, err := f.service.AddCost(ctx, id, CostInput{Date: "2024-02-01", Amount: decPtr("10"), Category: "other", Description: "misc"})
		require.NoError(t, err)
	}

	require.NoError(t, f.service.DeleteAnimal(ctx, drop.ID))

	_, err := f.service.GetAnimal(ctx, drop.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	remaining, err := f.costs.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, keep.ID, remaining[0].AnimalID)

	assert.ErrorIs(t, f.service.DeleteAnimal(ctx, drop.ID), models.ErrNotFound)
}

func TestServiceCostsRequireExistingAnimal(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.service.AddCost(ctx, "missing", CostInput{Date: "2024-02-01", Amount: decPtr("10"), Category: "feed", Description: "hay"})
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = f.service.ListCosts(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)

	animal := f.createAnimal(t, AnimalInput{Type: "Boi", PurchaseDate: "2024-01-10", PurchaseValue: decPtr("5000")})

	costs, err := f.service.ListCosts(ctx, animal.ID)
	require.NoError(t, err)
	assert.Empty(t, costs)

	assert.ErrorIs(t, f.service.DeleteCost(ctx, animal.ID, "cost-404"), models.ErrNotFound)

	cost, err := f.service.AddCost(ctx, animal.ID, CostInput{Date: "2024-02-01", Amount: decPtr("10"), Category: "feed", Description: "hay"})
	require.NoError(t, err)
	require.NoError(t, f.service.DeleteCost(ctx, animal.ID, cost.ID))

	costs, err = f.service.ListCosts(ctx, animal.ID)
	require.NoError(t, err)
	assert.Empty(t, costs)
}

func TestServiceRejectsInvalidInputBeforeStoring(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.service.CreateAnimal(ctx, AnimalInput{Type: "Boi", PurchaseDate: "2024-01-10", PurchaseValue: decPtr("5000"), Status: "sold"})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)

	all, err := f.animals.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	_, err = f.service.UpdateAnimal(ctx, "missing", AnimalInput{Type: "Boi", PurchaseDate: "2024-01-10", PurchaseValue: decPtr("5000")})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestServiceListAnimalsPaginates(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	for i := 0; i < 12; i++ {
		f.createAnimal(t, AnimalInput{Type: "Boi", PurchaseDate: "2024-01-10", PurchaseValue: decPtr("100")})
	}
	f.createAnimal(t, AnimalInput{Type: "Vaca", PurchaseDate: "2024-01-10", PurchaseValue: decPtr("100")})

	list, err := f.service.ListAnimals(ctx, ListQuery{})
	require.NoError(t, err)
	assert.Len(t, list.Animals, 10)
	assert.Equal(t, models.Pagination{Page: 1, Limit: 10, Total: 13, TotalPages: 2}, list.Pagination)
	assert.Equal(t, "Vaca", list.Animals[0].Type)
	assert.NotNil(t, list.Animals[0].Costs)

	list, err = f.service.ListAnimals(ctx, ListQuery{Type: "Boi", Page: 3, Limit: 5})
	require.NoError(t, err)
	assert.Len(t, list.Animals, 2)
	assert.Equal(t, models.Pagination{Page: 3, Limit: 5, Total: 12, TotalPages: 3}, list.Pagination)

	list, err = f.service.ListAnimals(ctx, ListQuery{Status: "sold"})
	require.NoError(t, err)
	assert.Empty(t, list.Animals)
	assert.Equal(t, int64(0), list.Pagination.TotalPages)
}

func TestServiceSettings(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	first, err := f.service.GetSettings(ctx)
	require.NoError(t, err)
	second, err := f.service.GetSettings(ctx)
	require.NoError(t, err)

	assert.Equal(t, models.DefaultAnimalTypes, first.AnimalTypes)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.settings.creates)

	stale := first.Version
	updated, err := f.service.UpdateSettings(ctx, SettingsInput{AnimalTypes: []string{"Boi"}, Cash: decPtr("250"), Version: &stale})
	require.NoError(t, err)
	assert.Equal(t, []string{"Boi"}, updated.AnimalTypes)
	assert.Equal(t, stale+1, updated.Version)

	_, err = f.service.UpdateSettings(ctx, SettingsInput{AnimalTypes: []string{"Vaca"}, Version: &stale})
	assert.ErrorIs(t, err, models.ErrVersionConflict)

	lastWrite, err := f.service.UpdateSettings(ctx, SettingsInput{AnimalTypes: []string{"Vaca"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Vaca"}, lastWrite.AnimalTypes)
	assert.True(t, lastWrite.Cash.IsZero())
}

func TestServiceVersionedSettingsUpdateNeedsStoredRecord(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	zero := int64(0)
	_, err := f.service.UpdateSettings(ctx, SettingsInput{AnimalTypes: []string{"Boi"}, Version: &zero})
	assert.ErrorIs(t, err, models.ErrVersionConflict)

	created, err := f.service.UpdateSettings(ctx, SettingsInput{AnimalTypes: []string{"Boi"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.Version)
}
