package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ItemKind distinguishes workout history from diet history.
type ItemKind string

const (
	KindWorkout ItemKind = "workout"
	KindDiet    ItemKind = "diet"
)

// UsedItemRecord is one append-only history entry: an item assigned in a week.
type UsedItemRecord struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	ItemID     primitive.ObjectID `bson:"itemId" json:"itemId"`
	Kind       ItemKind           `bson:"kind" json:"kind"`
	Week       int                `bson:"week" json:"weekNumber"`
	AssignedAt time.Time          `bson:"assignedAt" json:"dateAssigned"`
}
