package mongodb

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/herdledger/internal/domain/models"
)

type animalDocument struct {
	ID              primitive.ObjectID    `bson:"_id"`
	Type            string                `bson:"type"`
	PurchaseDate    time.Time             `bson:"purchaseDate"`
	PurchaseValue   primitive.Decimal128  `bson:"purchaseValue"`
	SaleDate        *time.Time            `bson:"saleDate"`
	SaleValue       *primitive.Decimal128 `bson:"saleValue"`
	SlaughterWeight *primitive.Decimal128 `bson:"slaughterWeight"`
	MarketValue     *primitive.Decimal128 `bson:"marketValue"`
	Status          string                `bson:"status"`
	CreatedAt       time.Time             `bson:"createdAt"`
	UpdatedAt       time.Time             `bson:"updatedAt"`
}

type costDocument struct {
	ID          primitive.ObjectID   `bson:"_id"`
	AnimalID    primitive.ObjectID   `bson:"animalId"`
	Date        time.Time            `bson:"date"`
	Amount      primitive.Decimal128 `bson:"amount"`
	Category    string               `bson:"category"`
	Description string               `bson:"description"`
	CreatedAt   time.Time            `bson:"createdAt"`
}

type settingsDocument struct {
	ID                   string               `bson:"_id"`
	AnimalTypes          []string             `bson:"animalTypes"`
	Cash                 primitive.Decimal128 `bson:"cash"`
	AdditionalInvestment primitive.Decimal128 `bson:"additionalInvestment"`
	Version              int64                `bson:"version"`
	UpdatedAt            time.Time            `bson:"updatedAt"`
}

type snapshotDocument struct {
	ID                   primitive.ObjectID   `bson:"_id"`
	TakenAt              time.Time            `bson:"takenAt"`
	NetWorth             primitive.Decimal128 `bson:"netWorth"`
	CurrentInvestedValue primitive.Decimal128 `bson:"currentInvestedValue"`
	TotalCosts           primitive.Decimal128 `bson:"totalCosts"`
	TotalGrossProfit     primitive.Decimal128 `bson:"totalGrossProfit"`
	TotalNetProfit       primitive.Decimal128 `bson:"totalNetProfit"`
	AverageROI           primitive.Decimal128 `bson:"averageROI"`
	Cash                 primitive.Decimal128 `bson:"cash"`
	ActiveAnimalCount    int                  `bson:"activeAnimalCount"`
	SoldAnimalCount      int                  `bson:"soldAnimalCount"`
}

// errDecimal128Range reports an amount whose coefficient or exponent cannot be held by a Decimal128.
var errDecimal128Range = errors.New("value out of decimal128 range")

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, ok := primitive.ParseDecimal128FromBigInt(d.Coefficient(), int(d.Exponent()))
	if !ok {
		return primitive.Decimal128{}, fmt.Errorf("convert %s to decimal128: %w", d, errDecimal128Range)
	}
	return v, nil
}

func toDecimal128Ptr(d *decimal.Decimal) (*primitive.Decimal128, error) {
	if d == nil {
		return nil, nil
	}
	v, err := toDecimal128(*d)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func fromDecimal128(v primitive.Decimal128) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("convert decimal128 %s: %w", v, err)
	}
	return d, nil
}

func fromDecimal128Ptr(v *primitive.Decimal128) (*decimal.Decimal, error) {
	if v == nil {
		return nil, nil
	}
	d, err := fromDecimal128(*v)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// decimalFromRaw reads a numeric aggregation result, which may be null when nothing matched.
func decimalFromRaw(v bson.RawValue) (decimal.Decimal, error) {
	if d, ok := v.Decimal128OK(); ok {
		return fromDecimal128(d)
	}
	if f, ok := v.DoubleOK(); ok {
		return decimal.NewFromFloat(f), nil
	}
	if i, ok := v.Int32OK(); ok {
		return decimal.NewFromInt32(i), nil
	}
	if i, ok := v.Int64OK(); ok {
		return decimal.NewFromInt(i), nil
	}
	if v.Type == bsontype.Null || v.Type == 0 {
		return decimal.Zero, nil
	}
	return decimal.Zero, fmt.Errorf("unexpected aggregate type %s", v.Type)
}

func newAnimalDocument(a models.Animal) (animalDocument, error) {
	doc := animalDocument{
		Type:         a.Type,
		PurchaseDate: a.PurchaseDate,
		SaleDate:     a.SaleDate,
		Status:       string(a.Status),
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}

	if a.ID != "" {
		oid, err := primitive.ObjectIDFromHex(a.ID)
		if err != nil {
			return animalDocument{}, fmt.Errorf("parse animal id %q: %w", a.ID, err)
		}
		doc.ID = oid
	}

	var err error
	if doc.PurchaseValue, err = toDecimal128(a.PurchaseValue); err != nil {
		return animalDocument{}, err
	}
	if doc.SaleValue, err = toDecimal128Ptr(a.SaleValue); err != nil {
		return animalDocument{}, err
	}
	if doc.SlaughterWeight, err = toDecimal128Ptr(a.SlaughterWeight); err != nil {
		return animalDocument{}, err
	}
	if doc.MarketValue, err = toDecimal128Ptr(a.MarketValue); err != nil {
		return animalDocument{}, err
	}
	return doc, nil
}

func (d animalDocument) model() (models.Animal, error) {
	a := models.Animal{
		ID:           d.ID.Hex(),
		Type:         d.Type,
		PurchaseDate: d.PurchaseDate.UTC(),
		Status:       models.AnimalStatus(d.Status),
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
	if d.SaleDate != nil {
		saleDate := d.SaleDate.UTC()
		a.SaleDate = &saleDate
	}

	var err error
	if a.PurchaseValue, err = fromDecimal128(d.PurchaseValue); err != nil {
		return models.Animal{}, err
	}
	if a.SaleValue, err = fromDecimal128Ptr(d.SaleValue); err != nil {
		return models.Animal{}, err
	}
	if a.SlaughterWeight, err = fromDecimal128Ptr(d.SlaughterWeight); err != nil {
		return models.Animal{}, err
	}
	if a.MarketValue, err = fromDecimal128Ptr(d.MarketValue); err != nil {
		return models.Animal{}, err
	}
	return a, nil
}

func newCostDocument(c models.Cost) (costDocument, error) {
	animalID, err := primitive.ObjectIDFromHex(c.AnimalID)
	if err != nil {
		return costDocument{}, fmt.Errorf("parse animal id %q: %w", c.AnimalID, err)
	}

	amount, err := toDecimal128(c.Amount)
	if err != nil {
		return costDocument{}, err
	}

	doc := costDocument{
		AnimalID:    animalID,
		Date:        c.Date,
		Amount:      amount,
		Category:    string(c.Category),
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
	}
	if c.ID != "" {
		if doc.ID, err = primitive.ObjectIDFromHex(c.ID); err != nil {
			return costDocument{}, fmt.Errorf("parse cost id %q: %w", c.ID, err)
		}
	}
	return doc, nil
}

func (d costDocument) model() (models.Cost, error) {
	amount, err := fromDecimal128(d.Amount)
	if err != nil {
		return models.Cost{}, err
	}
	return models.Cost{
		ID:          d.ID.Hex(),
		AnimalID:    d.AnimalID.Hex(),
		Date:        d.Date.UTC(),
		Amount:      amount,
		Category:    models.CostCategory(d.Category),
		Description: d.Description,
		CreatedAt:   d.CreatedAt.UTC(),
	}, nil
}

func (d settingsDocument) model() (models.Settings, error) {
	cash, err := fromDecimal128(d.Cash)
	if err != nil {
		return models.Settings{}, err
	}
	additional, err := fromDecimal128(d.AdditionalInvestment)
	if err != nil {
		return models.Settings{}, err
	}
	return models.Settings{
		AnimalTypes:          d.AnimalTypes,
		Cash:                 cash,
		AdditionalInvestment: additional,
		Version:              d.Version,
		UpdatedAt:            d.UpdatedAt.UTC(),
	}, nil
}

func newSnapshotDocument(s models.IndicatorSnapshot) (snapshotDocument, error) {
	doc := snapshotDocument{
		ID:                primitive.NewObjectID(),
		TakenAt:           s.TakenAt,
		ActiveAnimalCount: s.Summary.ActiveAnimalCount,
		SoldAnimalCount:   s.Summary.SoldAnimalCount,
	}

	fields := []struct {
		dst *primitive.Decimal128
		src decimal.Decimal
	}{
		{&doc.NetWorth, s.Summary.NetWorth},
		{&doc.CurrentInvestedValue, s.Summary.CurrentInvestedValue},
		{&doc.TotalCosts, s.Summary.TotalCosts},
		{&doc.TotalGrossProfit, s.Summary.TotalGrossProfit},
		{&doc.TotalNetProfit, s.Summary.TotalNetProfit},
		{&doc.AverageROI, s.Summary.AverageROI},
		{&doc.Cash, s.Summary.Cash},
	}
	for _, f := range fields {
		v, err := toDecimal128(f.src)
		if err != nil {
			return snapshotDocument{}, err
		}
		*f.dst = v
	}
	return doc, nil
}

func (d snapshotDocument) model() (models.IndicatorSnapshot, error) {
	s := models.IndicatorSnapshot{
		ID:      d.ID.Hex(),
		TakenAt: d.TakenAt.UTC(),
		Summary: models.PortfolioSummary{
			ActiveAnimalCount: d.ActiveAnimalCount,
			SoldAnimalCount:   d.SoldAnimalCount,
		},
	}

	fields := []struct {
		dst *decimal.Decimal
		src primitive.Decimal128
	}{
		{&s.Summary.NetWorth, d.NetWorth},
		{&s.Summary.CurrentInvestedValue, d.CurrentInvestedValue},
		{&s.Summary.TotalCosts, d.TotalCosts},
		{&s.Summary.TotalGrossProfit, d.TotalGrossProfit},
		{&s.Summary.TotalNetProfit, d.TotalNetProfit},
		{&s.Summary.AverageROI, d.AverageROI},
		{&s.Summary.Cash, d.Cash},
	}
	for _, f := range fields {
		v, err := fromDecimal128(f.src)
		if err != nil {
			return models.IndicatorSnapshot{}, err
		}
		*f.dst = v
	}
	return s, nil
}
