package service

import (
	"alcyxob/fitness-scheduler/internal/domain"
	"alcyxob/fitness-scheduler/internal/repository"
	"alcyxob/fitness-scheduler/internal/session"
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memoryStore is an in-memory stand-in for the Mongo repositories. The
// schedule commit mirrors the conditional update of the real one.
type memoryStore struct {
	mu        sync.Mutex
	users     map[primitive.ObjectID]*domain.User
	workouts  []domain.WorkoutItem
	diets     []domain.DietItem
	schedules []*domain.WeeklySchedule
	used      []domain.UsedItemRecord

	commits   int
	commitErr error
	// beforeCommit runs inside CommitWeek, used to simulate a concurrent writer.
	beforeCommit func()
}

func newMemoryStore() *memoryStore {
	return &memoryStore{users: map[primitive.ObjectID]*domain.User{}}
}

type fakeUserRepo struct{ s *memoryStore }
type fakeCatalogRepo struct{ s *memoryStore }
type fakeScheduleRepo struct{ s *memoryStore }
type fakeUsedItemRepo struct{ s *memoryStore }

func (r fakeUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; ok {
		return primitive.NilObjectID, repository.ErrConflict
	}
	stored := *user
	r.s.users[user.ID] = &stored
	return user.ID, nil
}

func (r fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r fakeUserRepo) UpdateActivityLevel(_ context.Context, id primitive.ObjectID, level domain.ActivityLevel) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.ActivityLevel = level
	return nil
}

func (r fakeCatalogRepo) CreateWorkout(_ context.Context, item *domain.WorkoutItem) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	item.ID = primitive.NewObjectID()
	r.s.workouts = append(r.s.workouts, *item)
	return item.ID, nil
}

func (r fakeCatalogRepo) ListWorkouts(_ context.Context, userID primitive.ObjectID) ([]domain.WorkoutItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.WorkoutItem{}
	for _, w := range r.s.workouts {
		if w.UserID == userID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r fakeCatalogRepo) CreateDiet(_ context.Context, item *domain.DietItem) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	item.ID = primitive.NewObjectID()
	r.s.diets = append(r.s.diets, *item)
	return item.ID, nil
}

func (r fakeCatalogRepo) ListDiets(_ context.Context, userID primitive.ObjectID) ([]domain.DietItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.DietItem{}
	for _, d := range r.s.diets {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r fakeScheduleRepo) GetLatest(_ context.Context, userID primitive.ObjectID) (*domain.WeeklySchedule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var latest *domain.WeeklySchedule
	for _, s := range r.s.schedules {
		if s.UserID == userID && (latest == nil || s.Week > latest.Week) {
			latest = s
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	return latest, nil
}

func (r fakeScheduleRepo) GetByWeek(_ context.Context, userID primitive.ObjectID, week int) (*domain.WeeklySchedule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, s := range r.s.schedules {
		if s.UserID == userID && s.Week == week {
			return s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r fakeScheduleRepo) CommitWeek(_ context.Context, commit repository.WeekCommit) error {
	if r.s.beforeCommit != nil {
		r.s.beforeCommit()
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.commitErr != nil {
		return r.s.commitErr
	}
	user, ok := r.s.users[commit.UserID]
	if !ok || user.CurrentWeek != commit.ExpectedWeek {
		return repository.ErrConflict
	}
	for _, s := range r.s.schedules {
		if s.UserID == commit.UserID && s.Week == commit.Schedule.Week {
			return repository.ErrConflict
		}
	}

	schedule := commit.Schedule
	schedule.ID = primitive.NewObjectID()
	schedule.UserID = commit.UserID
	user.CurrentWeek = schedule.Week
	weekStart := schedule.WeekStartDate
	user.WeekStartDate = &weekStart
	r.s.schedules = append(r.s.schedules, schedule)
	for _, rec := range commit.UsedItems {
		rec.ID = primitive.NewObjectID()
		rec.UserID = commit.UserID
		r.s.used = append(r.s.used, rec)
	}
	r.s.commits++
	return nil
}

func (r fakeUsedItemRepo) ListByUser(_ context.Context, userID primitive.ObjectID, kind domain.ItemKind) ([]domain.UsedItemRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.UsedItemRecord{}
	for _, rec := range r.s.used {
		if rec.UserID == userID && (kind == "" || rec.Kind == kind) {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Week < out[j].Week })
	return out, nil
}

// fakeDraftStore implements session.Store over a map.
type fakeDraftStore struct {
	drafts   map[string]session.Draft
	clearErr error
}

func (f *fakeDraftStore) Get(_ context.Context, userID string) (session.Draft, error) {
	draft := session.Draft{}
	for k, v := range f.drafts[userID] {
		draft[k] = v
	}
	return draft, nil
}

func (f *fakeDraftStore) Patch(ctx context.Context, userID string, patch session.Draft) (session.Draft, error) {
	if f.drafts[userID] == nil {
		f.drafts[userID] = session.Draft{}
	}
	for k, v := range patch {
		if v == "" {
			delete(f.drafts[userID], k)
			continue
		}
		f.drafts[userID][k] = v
	}
	return f.Get(ctx, userID)
}

func (f *fakeDraftStore) Clear(_ context.Context, userID string) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	delete(f.drafts, userID)
	return nil
}

// fakeFileStorage records uploaded objects.
type fakeFileStorage struct {
	objects map[string][]byte
	types   map[string]string
	putErr  error
}

func newFakeFileStorage() *fakeFileStorage {
	return &fakeFileStorage{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeFileStorage) PutObject(_ context.Context, key, contentType string, body []byte) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.objects[key] = body
	f.types[key] = contentType
	return nil
}

func (f *fakeFileStorage) GeneratePresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://exports.example.test/" + key + "?signature=x", nil
}

// clock is a settable time source.
type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }
