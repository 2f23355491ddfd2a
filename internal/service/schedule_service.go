package service

import (
	"alcyxob/fitness-scheduler/internal/domain"
	"alcyxob/fitness-scheduler/internal/metrics"
	"alcyxob/fitness-scheduler/internal/repository"
	"alcyxob/fitness-scheduler/internal/scheduler"
	"alcyxob/fitness-scheduler/internal/storage"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// ScheduleView is the active week as returned to the UI.
type ScheduleView struct {
	Schedule *domain.WeeklySchedule
	// Generated is set when the schedule was computed by this call.
	Generated bool
	// RolledOver is set when this call moved the user into a new week.
	RolledOver bool
	// Saved is false only for a generated week that was not persisted
	// because the workout catalog could not cover the quota.
	Saved bool
}

// ExportResult points at a JSON snapshot of a week in object storage.
type ExportResult struct {
	Week        int       `json:"week"`
	ObjectKey   string    `json:"objectKey"`
	DownloadURL string    `json:"downloadUrl"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type ScheduleService interface {
	// GetSchedule returns the active week, generating the first week or the
	// next one after a rollover when needed.
	GetSchedule(ctx context.Context, userID primitive.ObjectID) (*ScheduleView, error)
	GetScheduleForWeek(ctx context.Context, userID primitive.ObjectID, week int) (*domain.WeeklySchedule, error)
	// ListUsedItems is the "past used items" history. Empty kind lists both kinds.
	ListUsedItems(ctx context.Context, userID primitive.ObjectID, kind domain.ItemKind) ([]domain.UsedItemRecord, error)
	ExportSchedule(ctx context.Context, userID primitive.ObjectID) (*ExportResult, error)
}

type scheduleService struct {
	userRepo     repository.UserRepository
	catalogRepo  repository.CatalogRepository
	scheduleRepo repository.ScheduleRepository
	usedItemRepo repository.UsedItemRepository
	scheduler    *scheduler.Scheduler
	fileStorage  storage.FileStorage // nil disables exports
	metrics      *metrics.Manager
	now          func() time.Time
}

// NewScheduleService wires the scheduler to its collaborators. now defaults to time.Now.
func NewScheduleService(
	userRepo repository.UserRepository,
	catalogRepo repository.CatalogRepository,
	scheduleRepo repository.ScheduleRepository,
	usedItemRepo repository.UsedItemRepository,
	sched *scheduler.Scheduler,
	fileStorage storage.FileStorage,
	metricsManager *metrics.Manager,
	now func() time.Time,
) ScheduleService {
	if sched == nil {
		sched = scheduler.New(nil)
	}
	if now == nil {
		now = time.Now
	}
	return &scheduleService{
		userRepo:     userRepo,
		catalogRepo:  catalogRepo,
		scheduleRepo: scheduleRepo,
		usedItemRepo: usedItemRepo,
		scheduler:    sched,
		fileStorage:  fileStorage,
		metrics:      metricsManager,
		now:          now,
	}
}

func (s *scheduleService) GetSchedule(ctx context.Context, userID primitive.ObjectID) (*ScheduleView, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	now := s.now().UTC()
	latest, err := s.scheduleRepo.GetLatest(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		week, weekStart := user.CurrentWeek, now
		// A profile imported with a week start keeps it unless that week is over.
		if user.WeekStartDate != nil {
			r := scheduler.CheckRollover(user.WeekStartDate.UTC(), now, user.CurrentWeek)
			week, weekStart = r.Week, r.WeekStart
		}
		return s.generate(ctx, user, week, weekStart, metrics.ReasonFirstWeek)
	}
	if err != nil {
		return nil, fmt.Errorf("load schedule: %w", err)
	}

	rollover := scheduler.CheckRollover(latest.WeekStartDate, now, latest.Week)
	if !rollover.Due {
		return &ScheduleView{Schedule: latest, Saved: true}, nil
	}

	logrus.WithFields(logrus.Fields{
		"user":    userID.Hex(),
		"week":    latest.Week,
		"elapsed": rollover.DaysElapsed,
	}).Info("week ended, generating next week")

	view, err := s.generate(ctx, user, rollover.Week, rollover.WeekStart, metrics.ReasonRollover)
	if err != nil {
		return nil, err
	}
	view.RolledOver = view.Saved
	return view, nil
}

// generate computes the week starting at weekStart and commits it together
// with its used-item records.
func (s *scheduleService) generate(ctx context.Context, user *domain.User, week int, weekStart time.Time, reason string) (*ScheduleView, error) {
	var (
		workouts []domain.WorkoutItem
		diets    []domain.DietItem
		history  []domain.UsedItemRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		if workouts, err = s.catalogRepo.ListWorkouts(gctx, user.ID); err != nil {
			return fmt.Errorf("load workout catalog: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if diets, err = s.catalogRepo.ListDiets(gctx, user.ID); err != nil {
			return fmt.Errorf("load diet catalog: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if history, err = s.usedItemRepo.ListByUser(gctx, user.ID, ""); err != nil {
			return fmt.Errorf("load used items: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	pastWorkouts, pastDiets := pastUsed(history, workouts, diets)

	res, err := s.scheduler.Compute(scheduler.Input{
		WorkoutCatalog:   workouts,
		DietCatalog:      diets,
		ActivityLevel:    string(user.ActivityLevel),
		Week:             week,
		PastUsedWorkouts: pastWorkouts,
		PastUsedDiets:    pastDiets,
	})
	if err != nil {
		return nil, fmt.Errorf("compute schedule: %w", err)
	}
	s.metrics.CounterSchedulesGenerated.WithLabelValues(reason).Inc()

	schedule := &domain.WeeklySchedule{
		UserID:           user.ID,
		Week:             week,
		WeekStartDate:    weekStart,
		Days:             res.Days,
		Quota:            res.Quota,
		WorkoutShortfall: res.WorkoutShortfall,
		DietShortfall:    res.DietShortfall,
	}
	view := &ScheduleView{Schedule: schedule, Generated: true}

	log := logrus.WithFields(logrus.Fields{
		"user":   user.ID.Hex(),
		"week":   week,
		"reason": reason,
	})
	if res.Insufficient() {
		s.metrics.CounterInsufficientCatalog.Inc()
		log.WithFields(logrus.Fields{
			"workoutShortfall": res.WorkoutShortfall,
			"dietShortfall":    res.DietShortfall,
		}).Warn("catalog cannot cover the weekly quota")
	}
	if res.WorkoutShortfall > 0 {
		// Nothing to carry forward; the week is generated again next time.
		return view, nil
	}

	err = s.scheduleRepo.CommitWeek(ctx, repository.WeekCommit{
		UserID:       user.ID,
		ExpectedWeek: user.CurrentWeek,
		Schedule:     schedule,
		UsedItems:    usedRecords(res, weekStart),
	})
	if errors.Is(err, repository.ErrConflict) {
		s.metrics.CounterCommitConflicts.Inc()
		log.Info("week committed concurrently, returning the stored one")
		return s.storedAfterConflict(ctx, user.ID, week)
	}
	if err != nil {
		return nil, fmt.Errorf("save schedule: %w", err)
	}

	log.Info("schedule saved")
	view.Saved = true
	return view, nil
}

// storedAfterConflict returns the schedule written by the request that won.
func (s *scheduleService) storedAfterConflict(ctx context.Context, userID primitive.ObjectID, week int) (*ScheduleView, error) {
	latest, err := s.scheduleRepo.GetLatest(ctx, userID)
	if err != nil || latest.Week < week {
		return nil, ErrScheduleConflict
	}
	return &ScheduleView{Schedule: latest, Saved: true}, nil
}

// pastUsed resolves history records to the catalog items they refer to.
// Records of items no longer in the catalog are irrelevant to filtering.
func pastUsed(history []domain.UsedItemRecord, workouts []domain.WorkoutItem, diets []domain.DietItem) ([]domain.WorkoutItem, []domain.DietItem) {
	used := map[domain.ItemKind]map[primitive.ObjectID]bool{
		domain.KindWorkout: {},
		domain.KindDiet:    {},
	}
	for _, rec := range history {
		if ids, ok := used[rec.Kind]; ok {
			ids[rec.ItemID] = true
		}
	}

	var pastWorkouts []domain.WorkoutItem
	for _, w := range workouts {
		if used[domain.KindWorkout][w.ID] {
			pastWorkouts = append(pastWorkouts, w)
		}
	}
	var pastDiets []domain.DietItem
	for _, d := range diets {
		if used[domain.KindDiet][d.ID] {
			pastDiets = append(pastDiets, d)
		}
	}
	return pastWorkouts, pastDiets
}

// usedRecords lists one history record per assignment, recycled ones included.
func usedRecords(res scheduler.Result, assignedAt time.Time) []domain.UsedItemRecord {
	var records []domain.UsedItemRecord
	for _, w := range res.Workouts() {
		records = append(records, domain.UsedItemRecord{
			ItemID:     w.Workout.ID,
			Kind:       domain.KindWorkout,
			Week:       w.Week,
			AssignedAt: assignedAt,
		})
	}
	for _, d := range res.Diets() {
		records = append(records, domain.UsedItemRecord{
			ItemID:     d.Diet.ID,
			Kind:       domain.KindDiet,
			Week:       d.Week,
			AssignedAt: assignedAt,
		})
	}
	return records
}

func (s *scheduleService) GetScheduleForWeek(ctx context.Context, userID primitive.ObjectID, week int) (*domain.WeeklySchedule, error) {
	if week < 0 {
		return nil, fmt.Errorf("%w: week cannot be negative", ErrValidationFailed)
	}
	schedule, err := s.scheduleRepo.GetByWeek(ctx, userID, week)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return schedule, nil
}

func (s *scheduleService) ListUsedItems(ctx context.Context, userID primitive.ObjectID, kind domain.ItemKind) ([]domain.UsedItemRecord, error) {
	switch kind {
	case "", domain.KindWorkout, domain.KindDiet:
	default:
		return nil, fmt.Errorf("%w: unknown item kind %q", ErrValidationFailed, kind)
	}
	return s.usedItemRepo.ListByUser(ctx, userID, kind)
}

// ExportSchedule writes the active week as JSON to object storage and
// returns a presigned link to it.
func (s *scheduleService) ExportSchedule(ctx context.Context, userID primitive.ObjectID) (*ExportResult, error) {
	if s.fileStorage == nil {
		return nil, ErrExportStorageDisabled
	}

	view, err := s.GetSchedule(ctx, userID)
	if err != nil {
		return nil, err
	}

	body, err := json.MarshalIndent(view.Schedule, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}

	objectKey := path.Join("exports", userID.Hex(), fmt.Sprintf("week-%d-%s.json", view.Schedule.Week, uuid.NewString()))
	if err := s.fileStorage.PutObject(ctx, objectKey, storage.JSONContentType, body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}

	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, objectKey, storage.DownloadURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	s.metrics.CounterExports.Inc()

	return &ExportResult{
		Week:        view.Schedule.Week,
		ObjectKey:   objectKey,
		DownloadURL: url,
		ExpiresAt:   s.now().UTC().Add(storage.DownloadURLExpiry),
	}, nil
}
