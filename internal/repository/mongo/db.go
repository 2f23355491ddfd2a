package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

const (
	connectTimeout = 10 * time.Second
	pingTimeout    = 5 * time.Second
	appName        = "fitness-scheduler"
)

// ConnectDB connects to MongoDB and pings the primary. Week commits run in
// transactions, so the deployment must be a replica set.
func ConnectDB(ctx context.Context, uri string) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(uri).
		SetAppName(appName).
		SetWriteConcern(writeconcern.Majority())

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, err
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, pingTimeout)
	defer pingCancel()

	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = DisconnectDB(client)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

type collectionIndexes struct {
	name     string
	ensure   func(context.Context, *mongo.Collection) error
	required bool
}

// EnsureIndexes creates the indexes of every collection. The schedule and
// used-item indexes back the week commit, so failing to create them is
// returned; the others are only logged.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	all := []collectionIndexes{
		{name: userCollectionName, ensure: EnsureUserIndexes},
		{name: workoutCollectionName, ensure: EnsureCatalogIndexes},
		{name: dietCollectionName, ensure: EnsureCatalogIndexes},
		{name: scheduleCollectionName, ensure: EnsureScheduleIndexes, required: true},
		{name: usedItemCollectionName, ensure: EnsureUsedItemIndexes, required: true},
	}
	for _, c := range all {
		err := c.ensure(ctx, db.Collection(c.name))
		if err == nil {
			continue
		}
		if c.required {
			return fmt.Errorf("create %s indexes: %w", c.name, err)
		}
		logrus.WithError(err).WithField("collection", c.name).Warn("failed to create indexes")
	}
	return nil
}
