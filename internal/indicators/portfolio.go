package indicators

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/herdledger/internal/domain/models"
)

// TotalEquityValue sums the purchase value of animals still held.
func TotalEquityValue(animals []models.Animal) decimal.Decimal {
	return lo.Reduce(animals, func(acc decimal.Decimal, a models.Animal, _ int) decimal.Decimal {
		if a.Status != models.AnimalStatusActive {
			return acc
		}
		return acc.Add(a.PurchaseValue)
	}, decimal.Zero)
}

// TotalInvestedValue is the capital currently at risk in the herd.
// It coincides with TotalEquityValue for now.
func TotalInvestedValue(animals []models.Animal) decimal.Decimal {
	return TotalEquityValue(animals)
}

// TotalCostsAggregate sums every cost in the system regardless of the owning animal.
func TotalCostsAggregate(costs []models.Cost) decimal.Decimal {
	return TotalCosts(costs)
}

// TotalGrossProfit sums the gross profit of sold animals that have a sale value.
func TotalGrossProfit(animals []models.Animal) decimal.Decimal {
	return lo.Reduce(animals, func(acc decimal.Decimal, a models.Animal, _ int) decimal.Decimal {
		if !a.IsSold() || a.SaleValue == nil {
			return acc
		}
		return acc.Add(GrossProfit(a))
	}, decimal.Zero)
}

// TotalNetProfit subtracts all costs, including those of animals still held, from the realised gross profit.
func TotalNetProfit(animals []models.Animal, totalCosts decimal.Decimal) decimal.Decimal {
	return TotalGrossProfit(animals).Sub(totalCosts)
}

// CostsByAnimal indexes costs by the id of the animal they belong to.
func CostsByAnimal(costs []models.Cost) map[string][]models.Cost {
	return lo.GroupBy(costs, func(c models.Cost) string { return c.AnimalID })
}

// AverageROI is the mean ROI of sold animals, or zero when nothing has been sold.
func AverageROI(animals []models.Animal, costsByAnimal map[string][]models.Cost) decimal.Decimal {
	sold := lo.Filter(animals, func(a models.Animal, _ int) bool { return a.IsSold() })
	if len(sold) == 0 {
		return decimal.Zero
	}

	sum := lo.Reduce(sold, func(acc decimal.Decimal, a models.Animal, _ int) decimal.Decimal {
		return acc.Add(ROI(a, costsByAnimal[a.ID]))
	}, decimal.Zero)

	return sum.Div(decimal.NewFromInt(int64(len(sold))))
}

// NetWorth is the value of the herd still held plus the cash balance.
func NetWorth(totalEquityValue, cash decimal.Decimal) decimal.Decimal {
	return totalEquityValue.Add(cash)
}

// Summarize computes the rounded portfolio summary. totalCosts is the system-wide cost total.
func Summarize(animals []models.Animal, costsByAnimal map[string][]models.Cost, totalCosts, cash decimal.Decimal) models.PortfolioSummary {
	equity := TotalEquityValue(animals)
	counts := lo.CountValuesBy(animals, func(a models.Animal) models.AnimalStatus { return a.Status })

	return models.PortfolioSummary{
		NetWorth:             Round(NetWorth(equity, cash)),
		CurrentInvestedValue: Round(TotalInvestedValue(animals)),
		TotalCosts:           Round(totalCosts),
		TotalGrossProfit:     Round(TotalGrossProfit(animals)),
		TotalNetProfit:       Round(TotalNetProfit(animals, totalCosts)),
		AverageROI:           Round(AverageROI(animals, costsByAnimal)),
		Cash:                 Round(cash),
		ActiveAnimalCount:    counts[models.AnimalStatusActive],
		SoldAnimalCount:      counts[models.AnimalStatusSold],
	}
}
