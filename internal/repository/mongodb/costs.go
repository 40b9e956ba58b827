package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/herdledger/internal/domain/models"
)

// CostRepository implements CostStore on the costs collection.
type CostRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewCostRepository binds a CostRepository to the given database.
func NewCostRepository(db *mongo.Database) *CostRepository {
	return &CostRepository{coll: db.Collection(costsCollection), now: utcNow}
}

func costQuery(filter models.CostFilter) (bson.M, error) {
	query := bson.M{}
	if filter.AnimalID != "" {
		oid, err := primitive.ObjectIDFromHex(filter.AnimalID)
		if err != nil {
			return nil, models.ErrNotFound
		}
		query["animalId"] = oid
	}
	if filter.Category != "" {
		query["category"] = string(filter.Category)
	}
	return query, nil
}

// FindByAnimal returns the costs of one animal, most recent first.
// An unknown animal id yields an empty list.
func (r *CostRepository) FindByAnimal(ctx context.Context, animalID string) ([]models.Cost, error) {
	oid, err := primitive.ObjectIDFromHex(animalID)
	if err != nil {
		return []models.Cost{}, nil
	}
	return r.find(ctx, bson.M{"animalId": oid}, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
}

// FindByAnimals returns the costs of several animals at once, most recent first.
func (r *CostRepository) FindByAnimals(ctx context.Context, animalIDs []string) ([]models.Cost, error) {
	oids := lo.FilterMap(animalIDs, func(id string, _ int) (primitive.ObjectID, bool) {
		oid, err := primitive.ObjectIDFromHex(id)
		return oid, err == nil
	})
	if len(oids) == 0 {
		return []models.Cost{}, nil
	}
	query := bson.M{"animalId": bson.M{"$in": oids}}
	return r.find(ctx, query, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
}

// FindAll returns every cost in the system.
func (r *CostRepository) FindAll(ctx context.Context) ([]models.Cost, error) {
	return r.find(ctx, bson.M{}, options.Find())
}

func (r *CostRepository) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]models.Cost, error) {
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("find costs: %w", err)
	}

	var docs []costDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode costs: %w", err)
	}

	costs := make([]models.Cost, 0, len(docs))
	for _, doc := range docs {
		c, err := doc.model()
		if err != nil {
			return nil, fmt.Errorf("cost %s: %w", doc.ID.Hex(), err)
		}
		costs = append(costs, c)
	}
	return costs, nil
}

// Insert stores a new cost and returns it with its assigned id.
func (r *CostRepository) Insert(ctx context.Context, cost models.Cost) (models.Cost, error) {
	cost.ID = ""
	cost.CreatedAt = r.now()

	doc, err := newCostDocument(cost)
	if err != nil {
		return models.Cost{}, err
	}
	doc.ID = primitive.NewObjectID()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return models.Cost{}, fmt.Errorf("insert cost: %w", err)
	}

	cost.ID = doc.ID.Hex()
	return cost, nil
}

// DeleteByID removes a single cost belonging to the given animal.
func (r *CostRepository) DeleteByID(ctx context.Context, animalID, costID string) error {
	animalOID, err := primitive.ObjectIDFromHex(animalID)
	if err != nil {
		return models.ErrNotFound
	}
	costOID, err := primitive.ObjectIDFromHex(costID)
	if err != nil {
		return models.ErrNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": costOID, "animalId": animalOID})
	if err != nil {
		return fmt.Errorf("delete cost %s: %w", costID, err)
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeleteByAnimal removes every cost of an animal and reports how many were deleted.
func (r *CostRepository) DeleteByAnimal(ctx context.Context, animalID string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(animalID)
	if err != nil {
		return 0, nil
	}

	res, err := r.coll.DeleteMany(ctx, bson.M{"animalId": oid})
	if err != nil {
		return 0, fmt.Errorf("delete costs of animal %s: %w", animalID, err)
	}
	return res.DeletedCount, nil
}

type sumResult struct {
	Total bson.RawValue `bson:"total"`
}

// SumAmounts totals the amount of every cost matching the filter. No match yields zero.
func (r *CostRepository) SumAmounts(ctx context.Context, filter models.CostFilter) (decimal.Decimal, error) {
	match, err := costQuery(filter)
	if err != nil {
		return decimal.Zero, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return decimal.Zero, fmt.Errorf("aggregate costs: %w", err)
	}

	var rows []sumResult
	if err := cursor.All(ctx, &rows); err != nil {
		return decimal.Zero, fmt.Errorf("decode cost total: %w", err)
	}
	if len(rows) == 0 {
		return decimal.Zero, nil
	}
	return decimalFromRaw(rows[0].Total)
}
