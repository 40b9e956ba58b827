package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PortfolioSummary is the dashboard view of the whole herd. Monetary fields are rounded to cents.
type PortfolioSummary struct {
	NetWorth             decimal.Decimal `json:"netWorth"`
	CurrentInvestedValue decimal.Decimal `json:"currentInvestedValue"`
	TotalCosts           decimal.Decimal `json:"totalCosts"`
	TotalGrossProfit     decimal.Decimal `json:"totalGrossProfit"`
	TotalNetProfit       decimal.Decimal `json:"totalNetProfit"`
	AverageROI           decimal.Decimal `json:"averageROI"`
	Cash                 decimal.Decimal `json:"cash"`
	ActiveAnimalCount    int             `json:"activeAnimalCount"`
	SoldAnimalCount      int             `json:"soldAnimalCount"`
}

// IndicatorSnapshot is a portfolio summary captured at a point in time.
type IndicatorSnapshot struct {
	ID      string           `json:"id"`
	TakenAt time.Time        `json:"takenAt"`
	Summary PortfolioSummary `json:"summary"`
}
