package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/herdledger/internal/domain/models"
)

// settingsID is the fixed key of the settings singleton.
const settingsID = "singleton"

// SettingsRepository implements SettingsStore. The record lives under a fixed id so concurrent
// first reads converge on a single document.
type SettingsRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewSettingsRepository binds a SettingsRepository to the given database.
func NewSettingsRepository(db *mongo.Database) *SettingsRepository {
	return &SettingsRepository{coll: db.Collection(settingsCollection), now: utcNow}
}

// GetOrCreate returns the settings record, inserting defaults atomically when none exists.
func (r *SettingsRepository) GetOrCreate(ctx context.Context, defaults models.Settings) (models.Settings, error) {
	cash, err := toDecimal128(defaults.Cash)
	if err != nil {
		return models.Settings{}, err
	}
	additional, err := toDecimal128(defaults.AdditionalInvestment)
	if err != nil {
		return models.Settings{}, err
	}

	update := bson.M{"$setOnInsert": bson.M{
		"animalTypes":          defaults.AnimalTypes,
		"cash":                 cash,
		"additionalInvestment": additional,
		"version":              int64(1),
		"updatedAt":            r.now(),
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc settingsDocument
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": settingsID}, update, opts).Decode(&doc); err != nil {
		return models.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	return doc.model()
}

// Save overwrites the settings record. Without expectedVersion the last write wins; with it the
// write only applies when the stored version matches, otherwise models.ErrVersionConflict is returned.
func (r *SettingsRepository) Save(ctx context.Context, settings models.Settings, expectedVersion *int64) (models.Settings, error) {
	cash, err := toDecimal128(settings.Cash)
	if err != nil {
		return models.Settings{}, err
	}
	additional, err := toDecimal128(settings.AdditionalInvestment)
	if err != nil {
		return models.Settings{}, err
	}

	filter := bson.M{"_id": settingsID}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if expectedVersion != nil {
		filter["version"] = *expectedVersion
	} else {
		opts.SetUpsert(true)
	}

	update := bson.M{
		"$set": bson.M{
			"animalTypes":          settings.AnimalTypes,
			"cash":                 cash,
			"additionalInvestment": additional,
			"updatedAt":            r.now(),
		},
		"$inc": bson.M{"version": int64(1)},
	}

	var doc settingsDocument
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Settings{}, models.ErrVersionConflict
		}
		return models.Settings{}, fmt.Errorf("save settings: %w", err)
	}
	return doc.model()
}
