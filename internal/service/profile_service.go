package service

import (
	"alcyxob/fitness-scheduler/internal/domain"
	"alcyxob/fitness-scheduler/internal/repository"
	"alcyxob/fitness-scheduler/internal/session"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Onboarding draft keys read when the draft is turned into a profile.
const (
	DraftKeyName          = "name"
	DraftKeyEmail         = "email"
	DraftKeyActivityLevel = "activityLevel"
)

type ProfileService interface {
	CreateProfile(ctx context.Context, userID primitive.ObjectID, name, email string, level domain.ActivityLevel) (*domain.User, error)
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.User, error)
	UpdateActivityLevel(ctx context.Context, userID primitive.ObjectID, level domain.ActivityLevel) (*domain.User, error)
	// CompleteOnboarding creates the profile from the onboarding draft and clears it.
	CompleteOnboarding(ctx context.Context, userID primitive.ObjectID) (*domain.User, error)
}

type profileService struct {
	userRepo repository.UserRepository
	drafts   session.Store
}

func NewProfileService(userRepo repository.UserRepository, drafts session.Store) ProfileService {
	return &profileService{
		userRepo: userRepo,
		drafts:   drafts,
	}
}

func (s *profileService) CreateProfile(ctx context.Context, userID primitive.ObjectID, name, email string, level domain.ActivityLevel) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if userID == primitive.NilObjectID || name == "" {
		return nil, fmt.Errorf("%w: user ID and name are required", ErrValidationFailed)
	}
	if !level.Valid() {
		return nil, ErrInvalidActivityLevel
	}

	user := &domain.User{
		ID:            userID,
		Name:          name,
		Email:         strings.TrimSpace(email),
		ActivityLevel: level,
	}
	if _, err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrProfileExists
		}
		return nil, fmt.Errorf("create profile: %w", err)
	}

	logrus.WithField("user", userID.Hex()).WithField("level", level).Info("profile created")
	return user, nil
}

func (s *profileService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateActivityLevel takes effect from the next generated week on.
func (s *profileService) UpdateActivityLevel(ctx context.Context, userID primitive.ObjectID, level domain.ActivityLevel) (*domain.User, error) {
	if !level.Valid() {
		return nil, ErrInvalidActivityLevel
	}
	if err := s.userRepo.UpdateActivityLevel(ctx, userID, level); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.GetProfile(ctx, userID)
}

func (s *profileService) CompleteOnboarding(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	draft, err := s.drafts.Get(ctx, userID.Hex())
	if err != nil {
		return nil, err
	}

	name := draft[DraftKeyName]
	level := domain.ActivityLevel(draft[DraftKeyActivityLevel])
	if strings.TrimSpace(name) == "" || level == "" {
		return nil, ErrOnboardingIncomplete
	}

	user, err := s.CreateProfile(ctx, userID, name, draft[DraftKeyEmail], level)
	if err != nil {
		return nil, err
	}

	// The profile exists at this point; a stale draft only costs its TTL.
	if err := s.drafts.Clear(ctx, userID.Hex()); err != nil {
		logrus.WithError(err).WithField("user", userID.Hex()).Warn("failed to clear onboarding draft")
	}
	return user, nil
}
