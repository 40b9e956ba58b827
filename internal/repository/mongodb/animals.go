package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/herdledger/internal/domain/models"
)

// AnimalRepository implements AnimalStore on the animals collection.
type AnimalRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewAnimalRepository binds an AnimalRepository to the given database.
func NewAnimalRepository(db *mongo.Database) *AnimalRepository {
	return &AnimalRepository{coll: db.Collection(animalsCollection), now: utcNow}
}

// animalQuery translates a listing filter into a MongoDB query document.
func animalQuery(filter models.AnimalFilter) bson.M {
	query := bson.M{}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	if filter.PurchasedFrom != nil || filter.PurchasedTo != nil {
		dateRange := bson.M{}
		if filter.PurchasedFrom != nil {
			dateRange["$gte"] = *filter.PurchasedFrom
		}
		if filter.PurchasedTo != nil {
			dateRange["$lte"] = *filter.PurchasedTo
		}
		query["purchaseDate"] = dateRange
	}
	return query
}

// Find returns one page of animals matching the filter, newest first, and the total match count.
func (r *AnimalRepository) Find(ctx context.Context, filter models.AnimalFilter, page models.Page) ([]models.Animal, int64, error) {
	query := animalQuery(filter)

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(page.Skip())
	if page.Limit > 0 {
		opts.SetLimit(int64(page.Limit))
	}

	animals, err := r.find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count animals: %w", err)
	}
	return animals, total, nil
}

// FindAll returns every animal.
func (r *AnimalRepository) FindAll(ctx context.Context) ([]models.Animal, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

func (r *AnimalRepository) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]models.Animal, error) {
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("find animals: %w", err)
	}

	var docs []animalDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode animals: %w", err)
	}

	animals := make([]models.Animal, 0, len(docs))
	for _, doc := range docs {
		a, err := doc.model()
		if err != nil {
			return nil, fmt.Errorf("animal %s: %w", doc.ID.Hex(), err)
		}
		animals = append(animals, a)
	}
	return animals, nil
}

// FindByID returns the animal with the given id or models.ErrNotFound.
func (r *AnimalRepository) FindByID(ctx context.Context, id string) (models.Animal, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Animal{}, models.ErrNotFound
	}

	var doc animalDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Animal{}, models.ErrNotFound
		}
		return models.Animal{}, fmt.Errorf("find animal %s: %w", id, err)
	}
	return doc.model()
}

// Insert stores a new animal and returns it with its assigned id and timestamps.
func (r *AnimalRepository) Insert(ctx context.Context, animal models.Animal) (models.Animal, error) {
	now := r.now()
	animal.ID = ""
	animal.CreatedAt = now
	animal.UpdatedAt = now

	doc, err := newAnimalDocument(animal)
	if err != nil {
		return models.Animal{}, err
	}
	doc.ID = primitive.NewObjectID()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return models.Animal{}, fmt.Errorf("insert animal: %w", err)
	}

	animal.ID = doc.ID.Hex()
	return animal, nil
}

// UpdateByID replaces every field of an animal except its creation time.
func (r *AnimalRepository) UpdateByID(ctx context.Context, id string, animal models.Animal) (models.Animal, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Animal{}, models.ErrNotFound
	}

	animal.ID = ""
	animal.UpdatedAt = r.now()
	doc, err := newAnimalDocument(animal)
	if err != nil {
		return models.Animal{}, err
	}

	update := bson.M{"$set": bson.M{
		"type":            doc.Type,
		"purchaseDate":    doc.PurchaseDate,
		"purchaseValue":   doc.PurchaseValue,
		"saleDate":        doc.SaleDate,
		"saleValue":       doc.SaleValue,
		"slaughterWeight": doc.SlaughterWeight,
		"marketValue":     doc.MarketValue,
		"status":          doc.Status,
		"updatedAt":       doc.UpdatedAt,
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated animalDocument
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&updated); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Animal{}, models.ErrNotFound
		}
		return models.Animal{}, fmt.Errorf("update animal %s: %w", id, err)
	}
	return updated.model()
}

// DeleteByID removes an animal. Its costs are not touched.
func (r *AnimalRepository) DeleteByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete animal %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}
