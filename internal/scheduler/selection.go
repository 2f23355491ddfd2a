package scheduler

import (
	"alcyxob/fitness-scheduler/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SelectWorkouts picks count workouts for the week. Items not in pastUsed come
// first, in catalog order. When there are not enough of them the selection is
// padded from the start of the full catalog, wrapping around as often as
// needed, so the same item can appear more than once.
func SelectWorkouts(catalog, pastUsed []domain.WorkoutItem, count int) []domain.WorkoutItem {
	return selectItems(catalog, idSet(pastUsed, workoutID), workoutID, count)
}

// SelectDiets is SelectWorkouts for the diet catalog.
func SelectDiets(catalog, pastUsed []domain.DietItem, count int) []domain.DietItem {
	return selectItems(catalog, idSet(pastUsed, dietID), dietID, count)
}

func workoutID(w domain.WorkoutItem) primitive.ObjectID { return w.ID }

func dietID(d domain.DietItem) primitive.ObjectID { return d.ID }

func idSet[T any](items []T, id func(T) primitive.ObjectID) map[primitive.ObjectID]struct{} {
	set := make(map[primitive.ObjectID]struct{}, len(items))
	for _, item := range items {
		set[id(item)] = struct{}{}
	}
	return set
}

func selectItems[T any](catalog []T, used map[primitive.ObjectID]struct{}, id func(T) primitive.ObjectID, count int) []T {
	if count <= 0 || len(catalog) == 0 {
		return []T{}
	}

	fresh := make([]T, 0, len(catalog))
	for _, item := range catalog {
		if _, ok := used[id(item)]; !ok {
			fresh = append(fresh, item)
		}
	}

	if len(fresh) >= count {
		return fresh[:count]
	}

	// Recycle from the catalog start.
	selected := fresh
	for i := 0; len(selected) < count; i++ {
		selected = append(selected, catalog[i%len(catalog)])
	}
	return selected
}
