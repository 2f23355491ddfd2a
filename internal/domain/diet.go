package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DietItem is a diet catalog entry (a meal or a daily eating plan).
type DietItem struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	Name          string             `bson:"name" json:"name"`
	Duration      int                `bson:"duration" json:"duration"` // Prep time in minutes
	Intensity     string             `bson:"intensity,omitempty" json:"intensity,omitempty"`
	ActivityLevel ActivityLevel      `bson:"activityLevel,omitempty" json:"activityLevel,omitempty"`
	Calories      int                `bson:"calories" json:"calories"` // Intake
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// AssignedDiet places a diet entry on a day of a given week.
type AssignedDiet struct {
	Day  int      `bson:"day" json:"day"`
	Diet DietItem `bson:"diet" json:"diet"`
	Week int      `bson:"week" json:"week"`
}
