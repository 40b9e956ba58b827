package livestock

import (
	"encoding/json"
	"math/big"
	"reflect"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/herdledger/internal/domain/models"
)

// dateLayouts are accepted for every date field, tried in order.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// Amounts must fit a 128-bit IEEE 754 decimal: at most 34 significant digits within the exponent range.
const (
	maxAmountDigits   = 34
	minAmountExponent = -6176
	maxAmountExponent = 6111
)

// maxPageNumber bounds the page query so the skip offset stays small.
const maxPageNumber = 1_000_000

// Amount is a decimal input field. A malformed value is reported as a JSON type error, which lets the
// decoder name the field it belongs to.
type Amount struct {
	decimal.Decimal
}

// NewAmount wraps d as an input amount.
func NewAmount(d decimal.Decimal) *Amount {
	return &Amount{Decimal: d}
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	if err := a.Decimal.UnmarshalJSON(b); err != nil {
		return &json.UnmarshalTypeError{Value: "value " + string(b), Type: reflect.TypeOf(a.Decimal)}
	}
	return nil
}

func (a *Amount) decimalPtr() *decimal.Decimal {
	if a == nil {
		return nil
	}
	d := a.Decimal
	return &d
}

// AnimalInput is the payload for creating or replacing an animal.
type AnimalInput struct {
	Type            string  `json:"type"`
	PurchaseDate    string  `json:"purchaseDate"`
	PurchaseValue   *Amount `json:"purchaseValue"`
	SaleDate        string  `json:"saleDate"`
	SaleValue       *Amount `json:"saleValue"`
	SlaughterWeight *Amount `json:"slaughterWeight"`
	MarketValue     *Amount `json:"marketValue"`
	Status          string  `json:"status"`
}

// CostInput is the payload for recording a cost against an animal.
type CostInput struct {
	Date        string  `json:"date"`
	Amount      *Amount `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}

// SettingsInput is the payload for overwriting the settings record.
// Version is optional; when present the write only succeeds against that stored version.
type SettingsInput struct {
	AnimalTypes          []string `json:"animalTypes"`
	Cash                 *Amount  `json:"cash"`
	AdditionalInvestment *Amount  `json:"additionalInvestment"`
	Version              *int64   `json:"version"`
}

// ListQuery carries the animal listing filters and pagination as received from the caller.
type ListQuery struct {
	Type   string
	Status string
	From   string
	To     string
	Page   int
	Limit  int
}

func parseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, models.NewValidationError(field, "must be a date formatted as YYYY-MM-DD or RFC3339")
}

// checkAmount accepts an absent amount, or a non-negative one that fits the stored decimal range.
func checkAmount(field string, value *Amount) error {
	if value == nil {
		return nil
	}
	if value.IsNegative() {
		return models.NewValidationError(field, "must be greater than or equal to zero")
	}
	if digits := len(new(big.Int).Abs(value.Coefficient()).String()); digits > maxAmountDigits {
		return models.NewValidationError(field, "must have at most %d significant digits", maxAmountDigits)
	}
	if exp := value.Exponent(); exp < minAmountExponent || exp > maxAmountExponent {
		return models.NewValidationError(field, "is out of range")
	}
	return nil
}

func validateAnimal(in AnimalInput) (models.Animal, error) {
	animalType := strings.TrimSpace(in.Type)
	if animalType == "" {
		return models.Animal{}, models.NewValidationError("type", "is required")
	}
	if strings.TrimSpace(in.PurchaseDate) == "" {
		return models.Animal{}, models.NewValidationError("purchaseDate", "is required")
	}
	if in.PurchaseValue == nil {
		return models.Animal{}, models.NewValidationError("purchaseValue", "is required")
	}

	purchaseDate, err := parseDate("purchaseDate", in.PurchaseDate)
	if err != nil {
		return models.Animal{}, err
	}

	amounts := []struct {
		field string
		value *Amount
	}{
		{"purchaseValue", in.PurchaseValue},
		{"saleValue", in.SaleValue},
		{"slaughterWeight", in.SlaughterWeight},
		{"marketValue", in.MarketValue},
	}
	for _, a := range amounts {
		if err := checkAmount(a.field, a.value); err != nil {
			return models.Animal{}, err
		}
	}

	var saleDate *time.Time
	if strings.TrimSpace(in.SaleDate) != "" {
		d, err := parseDate("saleDate", in.SaleDate)
		if err != nil {
			return models.Animal{}, err
		}
		saleDate = &d
	}

	status, err := resolveStatus(models.AnimalStatus(strings.TrimSpace(in.Status)), saleDate != nil, in.SaleValue != nil)
	if err != nil {
		return models.Animal{}, err
	}

	return models.Animal{
		Type:            animalType,
		PurchaseDate:    purchaseDate,
		PurchaseValue:   in.PurchaseValue.Decimal,
		SaleDate:        saleDate,
		SaleValue:       in.SaleValue.decimalPtr(),
		SlaughterWeight: in.SlaughterWeight.decimalPtr(),
		MarketValue:     in.MarketValue.decimalPtr(),
		Status:          status,
	}, nil
}

// resolveStatus keeps status and sale data consistent: sold if and only if both sale fields are set.
// An omitted status is derived from the sale fields.
func resolveStatus(status models.AnimalStatus, hasSaleDate, hasSaleValue bool) (models.AnimalStatus, error) {
	if hasSaleDate != hasSaleValue {
		field := "saleValue"
		if hasSaleValue {
			field = "saleDate"
		}
		return "", models.NewValidationError(field, "saleDate and saleValue must be provided together")
	}
	hasSale := hasSaleDate && hasSaleValue

	switch status {
	case "":
		if hasSale {
			return models.AnimalStatusSold, nil
		}
		return models.AnimalStatusActive, nil
	case models.AnimalStatusActive:
		if hasSale {
			return "", models.NewValidationError("status", "an active animal cannot carry sale data")
		}
	case models.AnimalStatusSold:
		if !hasSale {
			return "", models.NewValidationError("status", "a sold animal requires saleDate and saleValue")
		}
	default:
		return "", models.NewValidationError("status", "must be one of %q, %q", models.AnimalStatusActive, models.AnimalStatusSold)
	}
	return status, nil
}

func validateCost(animalID string, in CostInput) (models.Cost, error) {
	if strings.TrimSpace(in.Date) == "" {
		return models.Cost{}, models.NewValidationError("date", "is required")
	}
	if in.Amount == nil {
		return models.Cost{}, models.NewValidationError("amount", "is required")
	}
	if err := checkAmount("amount", in.Amount); err != nil {
		return models.Cost{}, err
	}

	date, err := parseDate("date", in.Date)
	if err != nil {
		return models.Cost{}, err
	}

	category := models.CostCategory(strings.TrimSpace(in.Category))
	if category == "" {
		return models.Cost{}, models.NewValidationError("category", "is required")
	}
	if !category.Valid() {
		return models.Cost{}, models.NewValidationError("category", "must be one of feed, vaccines, medication, other")
	}

	description := strings.TrimSpace(in.Description)
	if description == "" {
		return models.Cost{}, models.NewValidationError("description", "is required")
	}
	if utf8.RuneCountInString(description) > models.MaxCostDescriptionLength {
		return models.Cost{}, models.NewValidationError("description", "must be at most %d characters", models.MaxCostDescriptionLength)
	}

	return models.Cost{
		AnimalID:    animalID,
		Date:        date,
		Amount:      in.Amount.Decimal,
		Category:    category,
		Description: description,
	}, nil
}

func validateSettings(in SettingsInput) (models.Settings, error) {
	if in.AnimalTypes == nil {
		return models.Settings{}, models.NewValidationError("animalTypes", "must be a list of animal types")
	}

	types := make([]string, 0, len(in.AnimalTypes))
	for i, t := range in.AnimalTypes {
		t = strings.TrimSpace(t)
		if t == "" {
			return models.Settings{}, models.NewValidationError("animalTypes", "entry %d must not be blank", i)
		}
		types = append(types, t)
	}
	types = lo.Uniq(types)
	if len(types) == 0 {
		return models.Settings{}, models.NewValidationError("animalTypes", "must contain at least one animal type")
	}

	if err := checkAmount("cash", in.Cash); err != nil {
		return models.Settings{}, err
	}
	if err := checkAmount("additionalInvestment", in.AdditionalInvestment); err != nil {
		return models.Settings{}, err
	}

	return models.Settings{
		AnimalTypes:          types,
		Cash:                 lo.FromPtrOr(in.Cash.decimalPtr(), decimal.Zero),
		AdditionalInvestment: lo.FromPtrOr(in.AdditionalInvestment.decimalPtr(), decimal.Zero),
	}, nil
}

func validateListQuery(q ListQuery) (models.AnimalFilter, models.Page, error) {
	filter := models.AnimalFilter{Type: strings.TrimSpace(q.Type)}

	if status := models.AnimalStatus(strings.TrimSpace(q.Status)); status != "" {
		if !status.Valid() {
			return models.AnimalFilter{}, models.Page{}, models.NewValidationError("status", "must be one of %q, %q", models.AnimalStatusActive, models.AnimalStatusSold)
		}
		filter.Status = status
	}

	if strings.TrimSpace(q.From) != "" {
		from, err := parseDate("from", q.From)
		if err != nil {
			return models.AnimalFilter{}, models.Page{}, err
		}
		filter.PurchasedFrom = &from
	}
	if strings.TrimSpace(q.To) != "" {
		to, err := parseDate("to", q.To)
		if err != nil {
			return models.AnimalFilter{}, models.Page{}, err
		}
		filter.PurchasedTo = &to
	}

	if q.Page > maxPageNumber {
		return models.AnimalFilter{}, models.Page{}, models.NewValidationError("page", "must be at most %d", maxPageNumber)
	}

	page := models.Page{Number: q.Page, Limit: q.Limit}
	if page.Number < 1 {
		page.Number = 1
	}
	switch {
	case page.Limit < 1:
		page.Limit = defaultPageLimit
	case page.Limit > maxPageLimit:
		page.Limit = maxPageLimit
	}

	return filter, page, nil
}
