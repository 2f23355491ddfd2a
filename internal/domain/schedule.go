package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DaysPerWeek is the number of day buckets in every schedule.
const DaysPerWeek = 7

// DaySchedule is one day bucket. Empty on rest days.
type DaySchedule struct {
	Day      int               `bson:"day" json:"day"`
	Workouts []AssignedWorkout `bson:"workouts" json:"workouts"`
	Diets    []AssignedDiet    `bson:"diets" json:"diets"`
}

// IsRestDay reports whether nothing was assigned to the day.
func (d DaySchedule) IsRestDay() bool {
	return len(d.Workouts) == 0 && len(d.Diets) == 0
}

// WeeklySchedule is the stored result for one week. Superseded, never edited.
type WeeklySchedule struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	Week          int                `bson:"week" json:"week"`
	WeekStartDate time.Time          `bson:"weekStartDate" json:"weekStartDate"`
	Days          []DaySchedule      `bson:"days" json:"days"` // Always days 1..7, in order

	// Quota and shortfalls as computed, so a stored week still reports an
	// insufficient catalog after the fact.
	Quota            int `bson:"quota" json:"quota"`
	WorkoutShortfall int `bson:"workoutShortfall,omitempty" json:"workoutShortfall,omitempty"`
	DietShortfall    int `bson:"dietShortfall,omitempty" json:"dietShortfall,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Insufficient reports whether the catalog could not cover the quota.
func (s *WeeklySchedule) Insufficient() bool {
	return s.WorkoutShortfall > 0 || s.DietShortfall > 0
}

// EmptyWeek returns seven empty buckets numbered 1..7.
func EmptyWeek() []DaySchedule {
	days := make([]DaySchedule, DaysPerWeek)
	for i := range days {
		days[i] = DaySchedule{
			Day:      i + 1,
			Workouts: []AssignedWorkout{},
			Diets:    []AssignedDiet{},
		}
	}
	return days
}
