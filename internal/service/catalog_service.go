package service

import (
	"alcyxob/fitness-scheduler/internal/domain"
	"alcyxob/fitness-scheduler/internal/repository"
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CatalogEntry is the user-supplied part of a workout or diet entry.
type CatalogEntry struct {
	Name          string
	Duration      int
	Intensity     string
	ActivityLevel domain.ActivityLevel
	Calories      int
	Description   string
}

type CatalogService interface {
	AddWorkout(ctx context.Context, userID primitive.ObjectID, entry CatalogEntry) (*domain.WorkoutItem, error)
	ListWorkouts(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutItem, error)
	AddDiet(ctx context.Context, userID primitive.ObjectID, entry CatalogEntry) (*domain.DietItem, error)
	ListDiets(ctx context.Context, userID primitive.ObjectID) ([]domain.DietItem, error)
}

type catalogService struct {
	catalogRepo repository.CatalogRepository
}

func NewCatalogService(catalogRepo repository.CatalogRepository) CatalogService {
	return &catalogService{catalogRepo: catalogRepo}
}

func validateEntry(userID primitive.ObjectID, entry CatalogEntry) error {
	if userID == primitive.NilObjectID {
		return fmt.Errorf("%w: user ID is required", ErrValidationFailed)
	}
	if strings.TrimSpace(entry.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidationFailed)
	}
	if entry.Duration < 0 || entry.Calories < 0 {
		return fmt.Errorf("%w: duration and calories cannot be negative", ErrValidationFailed)
	}
	if entry.ActivityLevel != "" && !entry.ActivityLevel.Valid() {
		return ErrInvalidActivityLevel
	}
	return nil
}

func (s *catalogService) AddWorkout(ctx context.Context, userID primitive.ObjectID, entry CatalogEntry) (*domain.WorkoutItem, error) {
	if err := validateEntry(userID, entry); err != nil {
		return nil, err
	}

	item := &domain.WorkoutItem{
		UserID:        userID,
		Name:          strings.TrimSpace(entry.Name),
		Duration:      entry.Duration,
		Intensity:     entry.Intensity,
		ActivityLevel: entry.ActivityLevel,
		Calories:      entry.Calories,
		Description:   entry.Description,
	}
	id, err := s.catalogRepo.CreateWorkout(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("create workout: %w", err)
	}
	item.ID = id
	return item, nil
}

func (s *catalogService) ListWorkouts(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutItem, error) {
	return s.catalogRepo.ListWorkouts(ctx, userID)
}

func (s *catalogService) AddDiet(ctx context.Context, userID primitive.ObjectID, entry CatalogEntry) (*domain.DietItem, error) {
	if err := validateEntry(userID, entry); err != nil {
		return nil, err
	}

	item := &domain.DietItem{
		UserID:        userID,
		Name:          strings.TrimSpace(entry.Name),
		Duration:      entry.Duration,
		Intensity:     entry.Intensity,
		ActivityLevel: entry.ActivityLevel,
		Calories:      entry.Calories,
		Description:   entry.Description,
	}
	id, err := s.catalogRepo.CreateDiet(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("create diet: %w", err)
	}
	item.ID = id
	return item, nil
}

func (s *catalogService) ListDiets(ctx context.Context, userID primitive.ObjectID) ([]domain.DietItem, error) {
	return s.catalogRepo.ListDiets(ctx, userID)
}
