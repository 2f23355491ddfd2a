package scheduler_test

import (
	"errors"
	"testing"

	"alcyxob/fitness-scheduler/internal/domain"
	"alcyxob/fitness-scheduler/internal/scheduler"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireSevenDays(t *testing.T, days []domain.DaySchedule) {
	t.Helper()
	require.Len(t, days, domain.DaysPerWeek)
	for i, d := range days {
		require.Equal(t, i+1, d.Day)
	}
}

func TestCompute_AlwaysSevenDays(t *testing.T) {
	s := scheduler.New(nil)

	for _, level := range []string{"sedentary", "light", "moderate", "active", "very-active", "unknown"} {
		for week := 0; week < 3; week++ {
			res, err := s.Compute(scheduler.Input{
				WorkoutCatalog: workoutCatalog(8),
				DietCatalog:    dietCatalog(8),
				ActivityLevel:  level,
				Week:           week,
			})
			require.NoError(t, err)
			requireSevenDays(t, res.Days)

			for _, w := range res.Workouts() {
				assert.Equal(t, week, w.Week)
			}
		}
	}
}

func TestCompute_NoRepeatsWhenCatalogIsLargeEnough(t *testing.T) {
	s := scheduler.New(nil)
	catalog := workoutCatalog(7)

	for trial := 0; trial < 100; trial++ {
		res, err := s.Compute(scheduler.Input{
			WorkoutCatalog: catalog,
			ActivityLevel:  "very-active",
		})
		require.NoError(t, err)

		workouts := res.Workouts()
		require.Len(t, workouts, 7)

		seen := map[string]bool{}
		for _, w := range workouts {
			assert.False(t, seen[w.Workout.ID.Hex()], "workout %s repeated", w.Workout.Name)
			seen[w.Workout.ID.Hex()] = true
		}
	}
}

func TestCompute_RecyclesToMeetQuota(t *testing.T) {
	s := scheduler.New(nil)

	res, err := s.Compute(scheduler.Input{
		WorkoutCatalog: workoutCatalog(3),
		ActivityLevel:  "active",
	})
	require.NoError(t, err)
	assert.Len(t, res.Workouts(), 6)
	assert.Zero(t, res.WorkoutShortfall)
}

func TestCompute_ModerateExample(t *testing.T) {
	s := scheduler.New(nil)
	catalog := workoutCatalog(6)

	res, err := s.Compute(scheduler.Input{
		WorkoutCatalog:   catalog,
		ActivityLevel:    "moderate",
		Week:             2,
		PastUsedWorkouts: catalog[:2],
	})
	require.NoError(t, err)
	requireSevenDays(t, res.Days)

	var names []string
	var days []int
	for _, d := range res.Days {
		require.LessOrEqual(t, len(d.Workouts), 1)
		if len(d.Workouts) == 1 {
			assert.Equal(t, d.Day, d.Workouts[0].Day)
			days = append(days, d.Day)
			names = append(names, d.Workouts[0].Workout.Name)
		}
	}
	assert.ElementsMatch(t, []string{"C", "D", "E", "F"}, names)
	// Four workouts with no two on adjacent days only fit one way.
	assert.Equal(t, []int{1, 3, 5, 7}, days)
}

func TestCompute_UnknownLevelIsAllRest(t *testing.T) {
	res, err := scheduler.New(nil).Compute(scheduler.Input{
		WorkoutCatalog: workoutCatalog(4),
		DietCatalog:    dietCatalog(4),
		ActivityLevel:  "couch",
	})
	require.NoError(t, err)
	requireSevenDays(t, res.Days)
	assert.False(t, res.Insufficient())
	for _, d := range res.Days {
		assert.True(t, d.IsRestDay())
	}
}

func TestCompute_EmptyCatalogIsInsufficient(t *testing.T) {
	res, err := scheduler.New(nil).Compute(scheduler.Input{
		DietCatalog:   dietCatalog(3),
		ActivityLevel: "light",
	})
	require.NoError(t, err)
	requireSevenDays(t, res.Days)
	assert.True(t, res.Insufficient())
	assert.Equal(t, 2, res.WorkoutShortfall)
	assert.Zero(t, res.DietShortfall)
	assert.Empty(t, res.Workouts())
	assert.Len(t, res.Diets(), 2)
}

func TestCompute_MissingIDFailsLoudly(t *testing.T) {
	catalog := workoutCatalog(3)
	catalog[1].ID = [12]byte{}

	_, err := scheduler.New(nil).Compute(scheduler.Input{
		WorkoutCatalog: catalog,
		ActivityLevel:  "light",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, scheduler.ErrMissingItemID))
}

func TestCompute_SeededIsDeterministic(t *testing.T) {
	in := scheduler.Input{
		WorkoutCatalog: workoutCatalog(6),
		DietCatalog:    dietCatalog(6),
		ActivityLevel:  "active",
		Week:           4,
	}

	first, err := scheduler.NewSeeded(42).Compute(in)
	require.NoError(t, err)
	second, err := scheduler.NewSeeded(42).Compute(in)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("seeded runs differ (-first +second):\n%s", diff)
	}
}

func TestCompute_DietsPlacedIndependently(t *testing.T) {
	res, err := scheduler.NewSeeded(7).Compute(scheduler.Input{
		WorkoutCatalog: workoutCatalog(7),
		DietCatalog:    dietCatalog(7),
		ActivityLevel:  "very-active",
	})
	require.NoError(t, err)

	for _, d := range res.Days {
		assert.Len(t, d.Workouts, 1)
		assert.Len(t, d.Diets, 1)
	}
}
