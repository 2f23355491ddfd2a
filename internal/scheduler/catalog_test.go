package scheduler_test

import (
	"fmt"

	"alcyxob/fitness-scheduler/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// workoutCatalog returns n workouts named A, B, C, ... with fresh ids.
func workoutCatalog(n int) []domain.WorkoutItem {
	items := make([]domain.WorkoutItem, n)
	for i := range items {
		items[i] = domain.WorkoutItem{
			ID:       primitive.NewObjectID(),
			Name:     string(rune('A' + i)),
			Duration: 30 + i,
		}
	}
	return items
}

func dietCatalog(n int) []domain.DietItem {
	items := make([]domain.DietItem, n)
	for i := range items {
		items[i] = domain.DietItem{
			ID:       primitive.NewObjectID(),
			Name:     fmt.Sprintf("meal-%d", i+1),
			Calories: 400 + 10*i,
		}
	}
	return items
}

func workoutNames(items []domain.WorkoutItem) []string {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	return names
}
