package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutItem is a catalog entry. Immutable once stored.
type WorkoutItem struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"` // Owner of the catalog this entry belongs to
	Name          string             `bson:"name" json:"name"`
	Duration      int                `bson:"duration" json:"duration"` // Minutes
	Intensity     string             `bson:"intensity,omitempty" json:"intensity,omitempty"`
	ActivityLevel ActivityLevel      `bson:"activityLevel,omitempty" json:"activityLevel,omitempty"`
	Calories      int                `bson:"calories" json:"calories"` // Estimated burn
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// AssignedWorkout places a workout on a day of a given week.
type AssignedWorkout struct {
	Day     int         `bson:"day" json:"day"` // 1..7
	Workout WorkoutItem `bson:"workout" json:"workout"`
	Week    int         `bson:"week" json:"week"`
}
