package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdledger/internal/domain/models"
)

const (
	animalsCollection   = "animals"
	costsCollection     = "costs"
	settingsCollection  = "settings"
	snapshotsCollection = "indicator_snapshots"
)

// AnimalStore persists animal records.
type AnimalStore interface {
	Find(ctx context.Context, filter models.AnimalFilter, page models.Page) ([]models.Animal, int64, error)
	FindAll(ctx context.Context) ([]models.Animal, error)
	FindByID(ctx context.Context, id string) (models.Animal, error)
	Insert(ctx context.Context, animal models.Animal) (models.Animal, error)
	UpdateByID(ctx context.Context, id string, animal models.Animal) (models.Animal, error)
	DeleteByID(ctx context.Context, id string) error
}

// CostStore persists cost records attached to animals.
type CostStore interface {
	FindByAnimal(ctx context.Context, animalID string) ([]models.Cost, error)
	FindByAnimals(ctx context.Context, animalIDs []string) ([]models.Cost, error)
	FindAll(ctx context.Context) ([]models.Cost, error)
	Insert(ctx context.Context, cost models.Cost) (models.Cost, error)
	DeleteByID(ctx context.Context, animalID, costID string) error
	DeleteByAnimal(ctx context.Context, animalID string) (int64, error)
	SumAmounts(ctx context.Context, filter models.CostFilter) (decimal.Decimal, error)
}

// SettingsStore persists the settings singleton.
type SettingsStore interface {
	GetOrCreate(ctx context.Context, defaults models.Settings) (models.Settings, error)
	Save(ctx context.Context, settings models.Settings, expectedVersion *int64) (models.Settings, error)
}

// SnapshotStore persists indicator snapshots.
type SnapshotStore interface {
	Save(ctx context.Context, snapshot models.IndicatorSnapshot) (models.IndicatorSnapshot, error)
	Latest(ctx context.Context) (models.IndicatorSnapshot, error)
}

// MongoDBRepository owns the client connection and hands out per-collection stores.
type MongoDBRepository struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string, logger *zap.Logger) (*MongoDBRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	logger.Info("mongodb connected", zap.String("database", dbName))

	return &MongoDBRepository{
		client: client,
		db:     client.Database(dbName),
		logger: logger,
	}, nil
}

// EnsureIndexes creates the indexes used by listing filters and cost lookups.
func (r *MongoDBRepository) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		animalsCollection: {
			{Keys: bson.D{{Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "type", Value: 1}}},
			{Keys: bson.D{{Key: "purchaseDate", Value: 1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
		costsCollection: {
			{Keys: bson.D{{Key: "animalId", Value: 1}}},
			{Keys: bson.D{{Key: "date", Value: 1}}},
			{Keys: bson.D{{Key: "category", Value: 1}}},
		},
		snapshotsCollection: {
			{Keys: bson.D{{Key: "takenAt", Value: -1}}},
		},
	}

	for coll, idx := range indexes {
		names, err := r.db.Collection(coll).Indexes().CreateMany(ctx, idx)
		if err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
		r.logger.Debug("indexes ensured", zap.String("collection", coll), zap.Strings("indexes", names))
	}
	return nil
}

// Animals returns the animal store.
func (r *MongoDBRepository) Animals() *AnimalRepository {
	return NewAnimalRepository(r.db)
}

// Costs returns the cost store.
func (r *MongoDBRepository) Costs() *CostRepository {
	return NewCostRepository(r.db)
}

// Settings returns the settings store.
func (r *MongoDBRepository) Settings() *SettingsRepository {
	return NewSettingsRepository(r.db)
}

// Snapshots returns the indicator snapshot store.
func (r *MongoDBRepository) Snapshots() *SnapshotRepository {
	return NewSnapshotRepository(r.db)
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func utcNow() time.Time {
	return time.Now().UTC()
}
