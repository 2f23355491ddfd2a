// Package scheduler computes week-long workout and diet assignments.
//
// The computation is pure: catalogs and history are fetched by the caller and
// the result is persisted by the caller.
package scheduler

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"alcyxob/fitness-scheduler/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrMissingItemID is returned for catalog entries without an id.
var ErrMissingItemID = errors.New("catalog entry is missing an id")

// RandSource picks day indexes. *rand.Rand from math/rand/v2 satisfies it.
type RandSource interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// Scheduler turns a SchedulingContext (Input) into a week of assignments.
type Scheduler struct {
	rnd RandSource
}

// New returns a Scheduler drawing from rnd, or from the process-wide
// generator when rnd is nil.
func New(rnd RandSource) *Scheduler {
	if rnd == nil {
		rnd = globalSource{}
	}
	return &Scheduler{rnd: rnd}
}

// NewSeeded returns a Scheduler whose draws are fully determined by seed.
func NewSeeded(seed uint64) *Scheduler {
	return New(rand.New(rand.NewPCG(seed, seed)))
}

// Input is everything one computation needs. Nothing here is persisted.
type Input struct {
	WorkoutCatalog   []domain.WorkoutItem
	DietCatalog      []domain.DietItem
	ActivityLevel    string
	Week             int
	PastUsedWorkouts []domain.WorkoutItem
	PastUsedDiets    []domain.DietItem
}

// Result is always seven day buckets. A shortfall means the catalog could not
// cover the quota (only possible with an empty catalog).
type Result struct {
	Days             []domain.DaySchedule
	Quota            int
	WorkoutShortfall int
	DietShortfall    int
}

// Insufficient reports the "insufficient catalog" condition.
func (r Result) Insufficient() bool {
	return r.WorkoutShortfall > 0 || r.DietShortfall > 0
}

// Workouts flattens the assigned workouts in day order.
func (r Result) Workouts() []domain.AssignedWorkout {
	var out []domain.AssignedWorkout
	for _, d := range r.Days {
		out = append(out, d.Workouts...)
	}
	return out
}

// Diets flattens the assigned diets in day order.
func (r Result) Diets() []domain.AssignedDiet {
	var out []domain.AssignedDiet
	for _, d := range r.Days {
		out = append(out, d.Diets...)
	}
	return out
}

// Compute builds the week. Workouts and diets are placed by two independent
// passes, so a day may get both, either, or neither.
func (s *Scheduler) Compute(in Input) (Result, error) {
	if err := validateIDs(in.WorkoutCatalog, workoutID, "workout"); err != nil {
		return Result{}, err
	}
	if err := validateIDs(in.DietCatalog, dietID, "diet"); err != nil {
		return Result{}, err
	}

	quota := WorkoutDays(in.ActivityLevel)
	res := Result{
		Days:  domain.EmptyWeek(),
		Quota: quota,
	}

	workouts := SelectWorkouts(in.WorkoutCatalog, in.PastUsedWorkouts, quota)
	workoutDays := s.assignDays(len(workouts))
	for i, day := range workoutDays {
		res.Days[day-1].Workouts = append(res.Days[day-1].Workouts, domain.AssignedWorkout{
			Day:     day,
			Workout: workouts[i],
			Week:    in.Week,
		})
	}
	res.WorkoutShortfall = quota - len(workoutDays)

	diets := SelectDiets(in.DietCatalog, in.PastUsedDiets, quota)
	dietDays := s.assignDays(len(diets))
	for i, day := range dietDays {
		res.Days[day-1].Diets = append(res.Days[day-1].Diets, domain.AssignedDiet{
			Day:  day,
			Diet: diets[i],
			Week: in.Week,
		})
	}
	res.DietShortfall = quota - len(dietDays)

	return res, nil
}

func validateIDs[T any](catalog []T, id func(T) primitive.ObjectID, kind string) error {
	for i, item := range catalog {
		if id(item).IsZero() {
			return fmt.Errorf("%s catalog entry %d: %w", kind, i, ErrMissingItemID)
		}
	}
	return nil
}
