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

const scheduleCollectionName = "schedules"

// mongoScheduleRepository implements repository.ScheduleRepository
type mongoScheduleRepository struct {
	client    *mongo.Client
	schedules *mongo.Collection
	usedItems *mongo.Collection
	users     *mongo.Collection
}

// NewMongoScheduleRepository creates a schedule repository. Week commits run in
// a multi-document transaction, so the deployment must be a replica set.
func NewMongoScheduleRepository(db *mongo.Database) repository.ScheduleRepository {
	return &mongoScheduleRepository{
		client:    db.Client(),
		schedules: db.Collection(scheduleCollectionName),
		usedItems: db.Collection(usedItemCollectionName),
		users:     db.Collection(userCollectionName),
	}
}

// GetLatest returns the schedule with the highest week number.
func (r *mongoScheduleRepository) GetLatest(ctx context.Context, userID primitive.ObjectID) (*domain.WeeklySchedule, error) {
	findOptions := options.FindOne().SetSort(bson.D{{Key: "week", Value: -1}})
	return r.findOne(ctx, bson.M{"userId": userID}, findOptions)
}

// GetByWeek returns the schedule of a given week.
func (r *mongoScheduleRepository) GetByWeek(ctx context.Context, userID primitive.ObjectID, week int) (*domain.WeeklySchedule, error) {
	return r.findOne(ctx, bson.M{"userId": userID, "week": week})
}

func (r *mongoScheduleRepository) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*domain.WeeklySchedule, error) {
	var schedule domain.WeeklySchedule
	err := r.schedules.FindOne(ctx, filter, opts...).Decode(&schedule)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &schedule, nil
}

// CommitWeek moves the user's week pointer, inserts the schedule and appends
// the used-item records in one transaction. Either all of it is visible or
// none of it.
func (r *mongoScheduleRepository) CommitWeek(ctx context.Context, commit repository.WeekCommit) error {
	if commit.Schedule == nil || commit.UserID == primitive.NilObjectID {
		return errors.New("week commit requires a user ID and a schedule")
	}

	now := time.Now().UTC()
	schedule := commit.Schedule
	schedule.ID = primitive.NewObjectID()
	schedule.UserID = commit.UserID
	schedule.CreatedAt = now

	used := make([]interface{}, len(commit.UsedItems))
	for i := range commit.UsedItems {
		rec := commit.UsedItems[i]
		rec.ID = primitive.NewObjectID()
		rec.UserID = commit.UserID
		used[i] = rec
	}

	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		// Conditional on the week the schedule was computed from.
		filter := bson.M{"_id": commit.UserID, "currentWeek": commit.ExpectedWeek}
		update := bson.M{
			"$set": bson.M{
				"currentWeek":   schedule.Week,
				"weekStartDate": schedule.WeekStartDate,
				"updatedAt":     now,
			},
		}
		result, err := r.users.UpdateOne(sc, filter, update)
		if err != nil {
			return nil, err
		}
		if result.MatchedCount == 0 {
			return nil, repository.ErrConflict
		}

		if _, err := r.schedules.InsertOne(sc, schedule); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, repository.ErrConflict
			}
			return nil, err
		}

		if len(used) > 0 {
			if _, err := r.usedItems.InsertMany(sc, used); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return err
}

// EnsureScheduleIndexes creates necessary indexes for the schedules collection.
// The unique (userId, week) index rejects a second schedule for the same week.
func EnsureScheduleIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "week", Value: -1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
