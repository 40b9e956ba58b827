package reporting

import (
	"context"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/herdledger/internal/domain/models"
	"github.com/mamadbah2/herdledger/internal/indicators"
)

const (
	animalsSheet  = "Animals"
	summarySheet  = "Summary"
	workbookDates = "2006-01-02"
)

var animalColumns = []interface{}{
	"ID", "Type", "Status", "Purchase Date", "Purchase Value", "Sale Date", "Sale Value",
	"Slaughter Weight", "Market Value", "Total Costs", "Gross Profit", "Net Profit", "ROI (%)", "Holding Days",
}

// WriteHerdWorkbook writes an xlsx workbook listing every animal with its metrics plus a summary sheet.
func (s *Service) WriteHerdWorkbook(ctx context.Context, w io.Writer) error {
	animals, err := s.stores.Animals.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("load animals: %w", err)
	}
	costs, err := s.stores.Costs.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("load costs: %w", err)
	}
	settings, err := s.stores.Settings.GetOrCreate(ctx, models.DefaultSettings())
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	// Both sheets are built from the same reads.
	byAnimal := indicators.CostsByAnimal(costs)
	summary := indicators.Summarize(animals, byAnimal, indicators.TotalCostsAggregate(costs), settings.Cash)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", animalsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := setRow(f, animalsSheet, 1, animalColumns); err != nil {
		return err
	}

	now := s.now()
	for i, a := range animals {
		if err := setRow(f, animalsSheet, i+2, animalRow(a, indicators.Metrics(a, byAnimal[a.ID], now))); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(animalsSheet, "A", "A", 26); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetColWidth(animalsSheet, "B", "N", 16); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	for i, line := range summaryRows(summary) {
		if err := setRow(f, summarySheet, i+1, line); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 24); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func animalRow(a models.Animal, m models.AnimalMetrics) []interface{} {
	saleDate := ""
	if a.SaleDate != nil {
		saleDate = a.SaleDate.Format(workbookDates)
	}
	return []interface{}{
		a.ID,
		a.Type,
		string(a.Status),
		a.PurchaseDate.Format(workbookDates),
		money(&a.PurchaseValue),
		saleDate,
		money(a.SaleValue),
		money(a.SlaughterWeight),
		money(a.MarketValue),
		money(&m.TotalCosts),
		money(&m.GrossProfit),
		money(&m.NetProfit),
		money(&m.ROI),
		m.HoldingDays,
	}
}

func summaryRows(sum models.PortfolioSummary) [][]interface{} {
	return [][]interface{}{
		{"Indicator", "Value"},
		{"Net Worth", money(&sum.NetWorth)},
		{"Current Invested Value", money(&sum.CurrentInvestedValue)},
		{"Total Costs", money(&sum.TotalCosts)},
		{"Total Gross Profit", money(&sum.TotalGrossProfit)},
		{"Total Net Profit", money(&sum.TotalNetProfit)},
		{"Average ROI (%)", money(&sum.AverageROI)},
		{"Cash", money(&sum.Cash)},
		{"Active Animals", sum.ActiveAnimalCount},
		{"Sold Animals", sum.SoldAnimalCount},
	}
}

// money converts an optional amount to a numeric cell value; nil stays blank.
func money(d *decimal.Decimal) interface{} {
	if d == nil {
		return ""
	}
	return indicators.Round(*d).InexactFloat64()
}
