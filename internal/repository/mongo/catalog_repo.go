package mongo

import (
	"alcyxob/fitness-scheduler/internal/domain"
	"alcyxob/fitness-scheduler/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	workoutCollectionName = "workouts"
	dietCollectionName    = "diets"
)

// mongoCatalogRepository implements repository.CatalogRepository
type mongoCatalogRepository struct {
	workouts *mongo.Collection
	diets    *mongo.Collection
}

// NewMongoCatalogRepository creates a catalog repository backed by MongoDB.
func NewMongoCatalogRepository(db *mongo.Database) repository.CatalogRepository {
	return &mongoCatalogRepository{
		workouts: db.Collection(workoutCollectionName),
		diets:    db.Collection(dietCollectionName),
	}
}

// catalogOrder is creation order; ObjectIDs break ties within the same instant.
var catalogOrder = options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})

// CreateWorkout inserts a workout into the user's catalog.
func (r *mongoCatalogRepository) CreateWorkout(ctx context.Context, item *domain.WorkoutItem) (primitive.ObjectID, error) {
	if item.Name == "" || item.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("workout name and user ID are required")
	}
	item.ID = primitive.NewObjectID()
	item.CreatedAt = time.Now().UTC()

	return insertOne(ctx, r.workouts, item)
}

// ListWorkouts returns the user's workout catalog in catalog order.
func (r *mongoCatalogRepository) ListWorkouts(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutItem, error) {
	workouts := []domain.WorkoutItem{}
	if err := findAll(ctx, r.workouts, bson.M{"userId": userID}, catalogOrder, &workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

// CreateDiet inserts a diet entry into the user's catalog.
func (r *mongoCatalogRepository) CreateDiet(ctx context.Context, item *domain.DietItem) (primitive.ObjectID, error) {
	if item.Name == "" || item.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("diet name and user ID are required")
	}
	item.ID = primitive.NewObjectID()
	item.CreatedAt = time.Now().UTC()

	return insertOne(ctx, r.diets, item)
}

// ListDiets returns the user's diet catalog in catalog order.
func (r *mongoCatalogRepository) ListDiets(ctx context.Context, userID primitive.ObjectID) ([]domain.DietItem, error) {
	diets := []domain.DietItem{}
	if err := findAll(ctx, r.diets, bson.M{"userId": userID}, catalogOrder, &diets); err != nil {
		return nil, err
	}
	return diets, nil
}

func insertOne(ctx context.Context, collection *mongo.Collection, doc interface{}) (primitive.ObjectID, error) {
	result, err := collection.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// findAll decodes every matching document into results (a pointer to a slice).
func findAll(ctx context.Context, collection *mongo.Collection, filter interface{}, opts *options.FindOptions, results interface{}) error {
	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, results); err != nil {
		return err
	}
	return cursor.Err()
}

// EnsureCatalogIndexes creates the catalog-order index on a catalog collection.
func EnsureCatalogIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
