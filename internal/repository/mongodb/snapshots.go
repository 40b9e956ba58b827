package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/herdledger/internal/domain/models"
)

// SnapshotRepository implements SnapshotStore on the indicator_snapshots collection.
type SnapshotRepository struct {
	coll *mongo.Collection
}

// NewSnapshotRepository binds a SnapshotRepository to the given database.
func NewSnapshotRepository(db *mongo.Database) *SnapshotRepository {
	return &SnapshotRepository{coll: db.Collection(snapshotsCollection)}
}

// Save stores a snapshot and returns it with its assigned id.
func (r *SnapshotRepository) Save(ctx context.Context, snapshot models.IndicatorSnapshot) (models.IndicatorSnapshot, error) {
	doc, err := newSnapshotDocument(snapshot)
	if err != nil {
		return models.IndicatorSnapshot{}, err
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return models.IndicatorSnapshot{}, fmt.Errorf("failed to insert indicator snapshot: %w", err)
	}

	snapshot.ID = doc.ID.Hex()
	return snapshot, nil
}

// Latest returns the most recent snapshot or models.ErrNotFound.
func (r *SnapshotRepository) Latest(ctx context.Context) (models.IndicatorSnapshot, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "takenAt", Value: -1}})

	var doc snapshotDocument
	if err := r.coll.FindOne(ctx, bson.M{}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.IndicatorSnapshot{}, models.ErrNotFound
		}
		return models.IndicatorSnapshot{}, fmt.Errorf("find latest snapshot: %w", err)
	}
	return doc.model()
}
