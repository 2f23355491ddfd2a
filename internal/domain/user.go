package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityLevel is the self-reported activity level picked during onboarding.
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very-active"
)

// ActivityLevels lists the known levels, least active first.
var ActivityLevels = []ActivityLevel{
	ActivitySedentary,
	ActivityLight,
	ActivityModerate,
	ActivityActive,
	ActivityVeryActive,
}

// Valid reports whether the level is one of the known enum values.
func (l ActivityLevel) Valid() bool {
	for _, known := range ActivityLevels {
		if l == known {
			return true
		}
	}
	return false
}

// User is the profile the scheduler works against.
type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Email         string             `bson:"email,omitempty" json:"email,omitempty"`
	ActivityLevel ActivityLevel      `bson:"activityLevel" json:"activityLevel"`

	// Week pointer. Moved forward only by a schedule commit.
	CurrentWeek   int        `bson:"currentWeek" json:"currentWeek"`
	WeekStartDate *time.Time `bson:"weekStartDate,omitempty" json:"weekStartDate,omitempty"` // nil until the first schedule exists

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
