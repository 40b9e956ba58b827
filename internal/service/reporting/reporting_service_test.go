package reporting

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdledger/internal/domain/models"
	"github.com/mamadbah2/herdledger/internal/indicators"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

var takenAt = time.Date(2024, 7, 8, 20, 0, 0, 0, time.UTC)

func herdStores() (Stores, *memorySnapshots) {
	saleDate := time.Date(2024, 7, 8, 0, 0, 0, 0, time.UTC)
	snapshots := &memorySnapshots{}
	return Stores{
		Animals: &stubAnimals{records: []models.Animal{
			{ID: "a1", Type: "Vaca", PurchaseDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), PurchaseValue: dec("4000"), Status: models.AnimalStatusActive},
			{ID: "a2", Type: "Boi", PurchaseDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), PurchaseValue: dec("5000"),
				SaleDate: &saleDate, SaleValue: decPtr("6000"), Status: models.AnimalStatusSold},
		}},
		Costs: &stubCosts{records: []models.Cost{
			{ID: "c1", AnimalID: "a1", Amount: dec("100"), Category: models.CostCategoryFeed},
			{ID: "c2", AnimalID: "a2", Amount: dec("200"), Category: models.CostCategoryFeed},
			{ID: "c3", AnimalID: "a2", Amount: dec("300"), Category: models.CostCategoryVaccines},
		}},
		Settings:  &stubSettings{settings: models.Settings{AnimalTypes: []string{"Boi", "Vaca"}, Cash: dec("1000")}},
		Snapshots: snapshots,
	}, snapshots
}

func newTestService(t *testing.T, stores Stores, opts ...Option) *Service {
	t.Helper()
	formatter, err := indicators.NewFormatter("pt-BR", "BRL")
	require.NoError(t, err)
	svc := NewService(stores, formatter, zap.NewNop(), opts...)
	svc.now = func() time.Time { return takenAt }
	return svc
}

func TestIndicators(t *testing.T) {
	stores, _ := herdStores()
	svc := newTestService(t, stores)

	summary, err := svc.Indicators(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "5000.00", summary.NetWorth.StringFixed(2))
	assert.Equal(t, "4000.00", summary.CurrentInvestedValue.StringFixed(2))
	assert.Equal(t, "600.00", summary.TotalCosts.StringFixed(2))
	assert.Equal(t, "1000.00", summary.TotalGrossProfit.StringFixed(2))
	assert.Equal(t, "400.00", summary.TotalNetProfit.StringFixed(2))
	assert.Equal(t, "10.00", summary.AverageROI.StringFixed(2))
	assert.Equal(t, "1000.00", summary.Cash.StringFixed(2))
	assert.Equal(t, 1, summary.ActiveAnimalCount)
	assert.Equal(t, 1, summary.SoldAnimalCount)
}

func TestCaptureSnapshotPublishes(t *testing.T) {
	stores, snapshots := herdStores()
	sheet := &memorySheet{}
	sender := &recordingSender{}
	svc := newTestService(t, stores, WithSheet(sheet), WithDigest(sender, "5511999999999"))

	snapshot, err := svc.CaptureSnapshot(context.Background(), takenAt)
	require.NoError(t, err)
	assert.Equal(t, "snap-1", snapshot.ID)
	require.Len(t, snapshots.saved, 1)

	_, err = svc.CaptureSnapshot(context.Background(), takenAt.Add(24*time.Hour))
	require.NoError(t, err)

	require.Len(t, sheet.rows, 3)
	assert.Equal(t, snapshotHeader, sheet.rows[0])
	assert.Equal(t, "2024-07-08T20:00:00Z", sheet.rows[1][0])
	assert.Equal(t, "5000.00", sheet.rows[1][1])
	assert.Equal(t, 1, sheet.rows[1][8])

	require.Len(t, sender.bodies, 2)
	assert.Equal(t, "5511999999999", sender.to[0])
	assert.Contains(t, sender.bodies[0], "Herd indicators 08/07/2024")
	assert.Contains(t, sender.bodies[0], "Net worth: R$ 5.000,00")
	assert.Contains(t, sender.bodies[0], "Average ROI: 10.00%")
	assert.Contains(t, sender.bodies[0], "Animals: 1 active, 1 sold")

	latest, err := svc.LatestSnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "snap-2", latest.ID)
}

func TestCaptureSnapshotToleratesIntegrationFailures(t *testing.T) {
	stores, snapshots := herdStores()
	svc := newTestService(t, stores,
		WithSheet(&memorySheet{appendErr: errors.New("quota exceeded")}),
		WithDigest(&recordingSender{err: errors.New("token expired")}, "5511999999999"))

	snapshot, err := svc.CaptureSnapshot(context.Background(), takenAt)
	require.NoError(t, err)
	assert.Equal(t, "snap-1", snapshot.ID)
	assert.Len(t, snapshots.saved, 1)
}

func TestCaptureSnapshotFailsWhenNotStored(t *testing.T) {
	stores, snapshots := herdStores()
	snapshots.err = errors.New("connection reset")
	sender := &recordingSender{}
	svc := newTestService(t, stores, WithDigest(sender, "5511999999999"))

	_, err := svc.CaptureSnapshot(context.Background(), takenAt)
	require.Error(t, err)
	assert.Empty(t, sender.bodies)
}

func TestLatestSnapshotNotFound(t *testing.T) {
	stores, _ := herdStores()
	svc := newTestService(t, stores)

	_, err := svc.LatestSnapshot(context.Background())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestWriteHerdWorkbook(t *testing.T) {
	stores, _ := herdStores()
	svc := newTestService(t, stores)

	var buf bytes.Buffer
	require.NoError(t, svc.WriteHerdWorkbook(context.Background(), &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{animalsSheet, summarySheet}, f.GetSheetList())

	rows, err := f.GetRows(animalsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "a2", rows[2][0])
	assert.Equal(t, "sold", rows[2][2])
	assert.Equal(t, "2024-07-08", rows[2][5])

	roi, err := f.GetCellValue(animalsSheet, "M3")
	require.NoError(t, err)
	assert.Equal(t, "10", roi)

	netWorth, err := f.GetCellValue(summarySheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "5000", netWorth)

	totalCosts, err := f.GetCellValue(summarySheet, "B4")
	require.NoError(t, err)
	assert.Equal(t, "600", totalCosts)

	animals := stores.Animals.(*stubAnimals)
	costs := stores.Costs.(*stubCosts)
	assert.Equal(t, 1, animals.reads)
	assert.Equal(t, 1, costs.reads)
	assert.Zero(t, costs.sums)
}
