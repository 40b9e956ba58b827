// Package indicators turns animal and cost records into the financial figures shown on the dashboard.
// Every function is pure: callers pass snapshots of their records and receive freshly computed values.
// Results are exact decimals; rounding happens only where values are reported.
package indicators

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/herdledger/internal/domain/models"
)

// MoneyPlaces is the number of fraction digits kept when figures are reported.
const MoneyPlaces = 2

const day = 24 * time.Hour

var hundred = decimal.NewFromInt(100)

// Round rounds a reported figure to cents, half away from zero (149.995 -> 150.00).
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// GrossProfit is the sale value minus the purchase value, or zero while no sale value is recorded.
func GrossProfit(animal models.Animal) decimal.Decimal {
	if animal.SaleValue == nil {
		return decimal.Zero
	}
	return animal.SaleValue.Sub(animal.PurchaseValue)
}

// TotalCosts sums the amounts of the given costs.
func TotalCosts(costs []models.Cost) decimal.Decimal {
	return lo.Reduce(costs, func(acc decimal.Decimal, c models.Cost, _ int) decimal.Decimal {
		return acc.Add(c.Amount)
	}, decimal.Zero)
}

// NetProfit is the gross profit less the animal's costs.
func NetProfit(animal models.Animal, costs []models.Cost) decimal.Decimal {
	return GrossProfit(animal).Sub(TotalCosts(costs))
}

// ROI is the net profit as a percentage of the purchase value.
// A zero purchase value yields zero instead of an undefined ratio.
func ROI(animal models.Animal, costs []models.Cost) decimal.Decimal {
	if animal.PurchaseValue.IsZero() {
		return decimal.Zero
	}
	return NetProfit(animal, costs).Div(animal.PurchaseValue).Mul(hundred)
}

// HoldingDays counts the days between purchase and sale, or between purchase and now for unsold animals.
// Any started day counts as a whole day.
func HoldingDays(animal models.Animal, now time.Time) int {
	end := now
	if animal.SaleDate != nil {
		end = *animal.SaleDate
	}

	elapsed := end.Sub(animal.PurchaseDate)
	if elapsed < 0 {
		elapsed = -elapsed
	}

	days := int(elapsed / day)
	if elapsed%day != 0 {
		days++
	}
	return days
}

// Metrics computes the reported per-animal indicators.
func Metrics(animal models.Animal, costs []models.Cost, now time.Time) models.AnimalMetrics {
	return models.AnimalMetrics{
		GrossProfit: Round(GrossProfit(animal)),
		TotalCosts:  Round(TotalCosts(costs)),
		NetProfit:   Round(NetProfit(animal, costs)),
		ROI:         Round(ROI(animal, costs)),
		HoldingDays: HoldingDays(animal, now),
	}
}
