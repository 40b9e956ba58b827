package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CostCategory classifies an expense attached to an animal.
type CostCategory string

const (
	CostCategoryFeed       CostCategory = "feed"
	CostCategoryVaccines   CostCategory = "vaccines"
	CostCategoryMedication CostCategory = "medication"
	CostCategoryOther      CostCategory = "other"
)

// Valid reports whether the category is one of the known values.
func (c CostCategory) Valid() bool {
	switch c {
	case CostCategoryFeed, CostCategoryVaccines, CostCategoryMedication, CostCategoryOther:
		return true
	}
	return false
}

// MaxCostDescriptionLength is the maximum number of characters in a cost description.
const MaxCostDescriptionLength = 500

// Cost is an expense incurred for a single animal.
type Cost struct {
	ID          string          `json:"id"`
	AnimalID    string          `json:"animalId"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Category    CostCategory    `json:"category"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// CostFilter narrows cost aggregations. An empty filter matches every cost.
type CostFilter struct {
	AnimalID string
	Category CostCategory
}
