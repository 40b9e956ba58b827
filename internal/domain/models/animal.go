package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AnimalStatus tracks whether an animal is still held or has been sold.
type AnimalStatus string

const (
	AnimalStatusActive AnimalStatus = "active"
	AnimalStatusSold   AnimalStatus = "sold"
)

// Valid reports whether the status is one of the known values.
func (s AnimalStatus) Valid() bool {
	return s == AnimalStatusActive || s == AnimalStatusSold
}

// Animal is a purchased head of livestock. Sale fields are set only once the animal is sold.
type Animal struct {
	ID              string           `json:"id"`
	Type            string           `json:"type"`
	PurchaseDate    time.Time        `json:"purchaseDate"`
	PurchaseValue   decimal.Decimal  `json:"purchaseValue"`
	SaleDate        *time.Time       `json:"saleDate,omitempty"`
	SaleValue       *decimal.Decimal `json:"saleValue,omitempty"`
	SlaughterWeight *decimal.Decimal `json:"slaughterWeight,omitempty"`
	MarketValue     *decimal.Decimal `json:"marketValue,omitempty"`
	Status          AnimalStatus     `json:"status"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// IsSold reports whether the animal is marked as sold.
func (a Animal) IsSold() bool {
	return a.Status == AnimalStatusSold
}

// AnimalMetrics holds the per-animal indicators, rounded for reporting.
type AnimalMetrics struct {
	GrossProfit decimal.Decimal `json:"grossProfit"`
	TotalCosts  decimal.Decimal `json:"totalCosts"`
	NetProfit   decimal.Decimal `json:"netProfit"`
	ROI         decimal.Decimal `json:"roi"`
	HoldingDays int             `json:"holdingDays"`
}

// AnimalDetails is an animal together with its costs and computed metrics.
type AnimalDetails struct {
	Animal
	Costs   []Cost        `json:"costs"`
	Metrics AnimalMetrics `json:"metrics"`
}

// AnimalFilter narrows animal listings. Zero values are ignored.
type AnimalFilter struct {
	Type          string
	Status        AnimalStatus
	PurchasedFrom *time.Time
	PurchasedTo   *time.Time
}

// Page describes 1-based skip/limit pagination.
type Page struct {
	Number int
	Limit  int
}

// Skip returns the number of records preceding the page.
func (p Page) Skip() int64 {
	if p.Number <= 1 {
		return 0
	}
	return int64(p.Number-1) * int64(p.Limit)
}

// Pagination is the page metadata returned with listings.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

// AnimalList is one page of animals.
type AnimalList struct {
	Animals    []AnimalDetails `json:"animals"`
	Pagination Pagination      `json:"pagination"`
}
