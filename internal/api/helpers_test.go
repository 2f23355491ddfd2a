package api

import (
	"alcyxob/fitness-scheduler/internal/domain"
	"alcyxob/fitness-scheduler/internal/metrics"
	"alcyxob/fitness-scheduler/internal/service"
	"alcyxob/fitness-scheduler/internal/session"
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis_rate/v9"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, userID string, expiresIn time.Duration) string {
	t.Helper()
	claims := jwtClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

type testServer struct {
	router  *gin.Engine
	userID  primitive.ObjectID
	token   string
	metrics *metrics.Manager

	profiles  *fakeProfileService
	catalog   *fakeCatalogService
	schedules *fakeScheduleService
	drafts    *fakeDrafts
	limiter   *fakeLimiter
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	s := &testServer{
		router:    gin.New(),
		userID:    primitive.NewObjectID(),
		metrics:   metrics.NewTestManager(),
		profiles:  &fakeProfileService{},
		catalog:   &fakeCatalogService{},
		schedules: &fakeScheduleService{},
		drafts:    &fakeDrafts{drafts: map[string]session.Draft{}},
		limiter:   &fakeLimiter{allowed: 1},
	}
	s.token = signToken(t, s.userID.Hex(), time.Hour)
	SetupRoutes(s.router, Dependencies{
		JWTSecret:         testSecret,
		ProfileService:    s.profiles,
		CatalogService:    s.catalog,
		ScheduleService:   s.schedules,
		Drafts:            s.drafts,
		RateLimiter:       s.limiter,
		SchedulePerMinute: 30,
		Metrics:           s.metrics,
	})
	return s
}

// do sends an authenticated request; body is JSON-encoded when not nil.
func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), v), rr.Body.String())
}

func errorMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decode(t, rr, &body)
	return body["error"]
}

// --- fakes ---

type fakeProfileService struct {
	user *domain.User
	err  error
	// last call arguments
	gotName  string
	gotLevel domain.ActivityLevel
}

func (f *fakeProfileService) CreateProfile(_ context.Context, userID primitive.ObjectID, name, email string, level domain.ActivityLevel) (*domain.User, error) {
	f.gotName, f.gotLevel = name, level
	if f.err != nil {
		return nil, f.err
	}
	return &domain.User{ID: userID, Name: name, Email: email, ActivityLevel: level}, nil
}

func (f *fakeProfileService) GetProfile(_ context.Context, _ primitive.ObjectID) (*domain.User, error) {
	return f.user, f.err
}

func (f *fakeProfileService) UpdateActivityLevel(_ context.Context, userID primitive.ObjectID, level domain.ActivityLevel) (*domain.User, error) {
	f.gotLevel = level
	if f.err != nil {
		return nil, f.err
	}
	return &domain.User{ID: userID, Name: "Sam", ActivityLevel: level}, nil
}

func (f *fakeProfileService) CompleteOnboarding(_ context.Context, _ primitive.ObjectID) (*domain.User, error) {
	return f.user, f.err
}

type fakeCatalogService struct {
	workouts []domain.WorkoutItem
	diets    []domain.DietItem
	err      error
	gotEntry service.CatalogEntry
}

func (f *fakeCatalogService) AddWorkout(_ context.Context, userID primitive.ObjectID, entry service.CatalogEntry) (*domain.WorkoutItem, error) {
	f.gotEntry = entry
	if f.err != nil {
		return nil, f.err
	}
	return &domain.WorkoutItem{ID: primitive.NewObjectID(), UserID: userID, Name: entry.Name, Duration: entry.Duration}, nil
}

func (f *fakeCatalogService) ListWorkouts(_ context.Context, _ primitive.ObjectID) ([]domain.WorkoutItem, error) {
	return f.workouts, f.err
}

func (f *fakeCatalogService) AddDiet(_ context.Context, userID primitive.ObjectID, entry service.CatalogEntry) (*domain.DietItem, error) {
	f.gotEntry = entry
	if f.err != nil {
		return nil, f.err
	}
	return &domain.DietItem{ID: primitive.NewObjectID(), UserID: userID, Name: entry.Name, Calories: entry.Calories}, nil
}

func (f *fakeCatalogService) ListDiets(_ context.Context, _ primitive.ObjectID) ([]domain.DietItem, error) {
	return f.diets, f.err
}

type fakeScheduleService struct {
	view    *service.ScheduleView
	week    *domain.WeeklySchedule
	used    []domain.UsedItemRecord
	export  *service.ExportResult
	err     error
	gotWeek int
	gotKind domain.ItemKind
}

func (f *fakeScheduleService) GetSchedule(_ context.Context, _ primitive.ObjectID) (*service.ScheduleView, error) {
	return f.view, f.err
}

func (f *fakeScheduleService) GetScheduleForWeek(_ context.Context, _ primitive.ObjectID, week int) (*domain.WeeklySchedule, error) {
	f.gotWeek = week
	return f.week, f.err
}

func (f *fakeScheduleService) ListUsedItems(_ context.Context, _ primitive.ObjectID, kind domain.ItemKind) ([]domain.UsedItemRecord, error) {
	f.gotKind = kind
	return f.used, f.err
}

func (f *fakeScheduleService) ExportSchedule(_ context.Context, _ primitive.ObjectID) (*service.ExportResult, error) {
	return f.export, f.err
}

type fakeDrafts struct {
	drafts   map[string]session.Draft
	patchErr error
}

func (f *fakeDrafts) Get(_ context.Context, userID string) (session.Draft, error) {
	draft := session.Draft{}
	for k, v := range f.drafts[userID] {
		draft[k] = v
	}
	return draft, nil
}

func (f *fakeDrafts) Patch(ctx context.Context, userID string, patch session.Draft) (session.Draft, error) {
	if f.patchErr != nil {
		return nil, f.patchErr
	}
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

func (f *fakeDrafts) Clear(_ context.Context, userID string) error {
	delete(f.drafts, userID)
	return nil
}

type fakeLimiter struct {
	allowed    int
	retryAfter time.Duration
	err        error
	keys       []string
}

func (f *fakeLimiter) Allow(_ context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error) {
	f.keys = append(f.keys, key)
	if f.err != nil {
		return nil, f.err
	}
	return &redis_rate.Result{
		Limit:      limit,
		Allowed:    f.allowed,
		RetryAfter: f.retryAfter,
	}, nil
}
