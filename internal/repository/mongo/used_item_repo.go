package mongo

import (
	"alcyxob/fitness-scheduler/internal/domain"
	"alcyxob/fitness-scheduler/internal/repository"
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const usedItemCollectionName = "used_items"

// mongoUsedItemRepository implements repository.UsedItemRepository
type mongoUsedItemRepository struct {
	collection *mongo.Collection
}

// NewMongoUsedItemRepository creates a read side for the used-items history.
func NewMongoUsedItemRepository(db *mongo.Database) repository.UsedItemRepository {
	return &mongoUsedItemRepository{
		collection: db.Collection(usedItemCollectionName),
	}
}

// ListByUser returns the user's history of one kind, oldest first.
// An empty kind returns both workouts and diets.
func (r *mongoUsedItemRepository) ListByUser(ctx context.Context, userID primitive.ObjectID, kind domain.ItemKind) ([]domain.UsedItemRecord, error) {
	filter := bson.M{"userId": userID}
	if kind != "" {
		filter["kind"] = kind
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "week", Value: 1}, {Key: "assignedAt", Value: 1}})

	records := []domain.UsedItemRecord{}
	if err := findAll(ctx, r.collection, filter, findOptions, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// EnsureUsedItemIndexes creates necessary indexes for the used-items history.
func EnsureUsedItemIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "kind", Value: 1}, {Key: "week", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
