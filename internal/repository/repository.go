package repository

import (
	"alcyxob/fitness-scheduler/internal/domain"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	// ErrConflict is returned when a week commit races another one for the same user.
	ErrConflict = RepositoryError("conflicting write")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user profiles.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	UpdateActivityLevel(ctx context.Context, id primitive.ObjectID, level domain.ActivityLevel) error
}

// CatalogRepository is the workout/diet catalog collaborator.
type CatalogRepository interface {
	CreateWorkout(ctx context.Context, item *domain.WorkoutItem) (primitive.ObjectID, error)
	ListWorkouts(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutItem, error) // Catalog order (creation order)
	CreateDiet(ctx context.Context, item *domain.DietItem) (primitive.ObjectID, error)
	ListDiets(ctx context.Context, userID primitive.ObjectID) ([]domain.DietItem, error)
}

// WeekCommit is everything written when a new week becomes active. It is
// applied as one unit: user week pointer, schedule and used-item records.
type WeekCommit struct {
	UserID primitive.ObjectID
	// ExpectedWeek is the user's CurrentWeek the schedule was computed from.
	// The commit fails with ErrConflict if it changed in the meantime.
	ExpectedWeek int
	Schedule     *domain.WeeklySchedule
	UsedItems    []domain.UsedItemRecord
}

// ScheduleRepository stores weekly schedules ("GET schedule" / "saveSchedule").
type ScheduleRepository interface {
	GetLatest(ctx context.Context, userID primitive.ObjectID) (*domain.WeeklySchedule, error)
	GetByWeek(ctx context.Context, userID primitive.ObjectID, week int) (*domain.WeeklySchedule, error)
	CommitWeek(ctx context.Context, commit WeekCommit) error
}

// UsedItemRepository reads the used-items history ("pastUsedWorkouts").
// Records are only ever written through ScheduleRepository.CommitWeek.
type UsedItemRepository interface {
	ListByUser(ctx context.Context, userID primitive.ObjectID, kind domain.ItemKind) ([]domain.UsedItemRecord, error)
}
