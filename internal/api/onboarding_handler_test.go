package api

import (
	"alcyxob/fitness-scheduler/internal/domain"
	"alcyxob/fitness-scheduler/internal/service"
	"alcyxob/fitness-scheduler/internal/session"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnboardingDraft(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodPatch, "/api/v1/onboarding", map[string]string{"name": "Sam", "goal": "strength"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = s.do(t, http.MethodPatch, "/api/v1/onboarding", map[string]string{"goal": "", "activityLevel": "light"})
	require.Equal(t, http.StatusOK, rr.Code)
	var resp DraftResponse
	decode(t, rr, &resp)
	assert.Equal(t, session.Draft{"name": "Sam", "activityLevel": "light"}, resp.Draft)

	rr = s.do(t, http.MethodGet, "/api/v1/onboarding", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	decode(t, rr, &resp)
	assert.Len(t, resp.Draft, 2)

	rr = s.do(t, http.MethodDelete, "/api/v1/onboarding", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, s.drafts.drafts)
}

func TestOnboardingDraft_InvalidPatch(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodPatch, "/api/v1/onboarding", map[string]int{"age": 31})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	s.drafts.patchErr = session.ErrKeyTooLong
	rr = s.do(t, http.MethodPatch, "/api/v1/onboarding", map[string]string{"x": "y"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, session.ErrKeyTooLong.Error(), errorMessage(t, rr))
}

func TestOnboardingComplete(t *testing.T) {
	s := newTestServer(t)
	s.profiles.user = &domain.User{ID: s.userID, Name: "Sam", ActivityLevel: domain.ActivityModerate}

	rr := s.do(t, http.MethodPost, "/api/v1/onboarding/complete", nil)
	require.Equal(t, http.StatusCreated, rr.Code)
	var resp UserResponse
	decode(t, rr, &resp)
	assert.Equal(t, domain.ActivityModerate, resp.ActivityLevel)

	s.profiles.err = service.ErrOnboardingIncomplete
	rr = s.do(t, http.MethodPost, "/api/v1/onboarding/complete", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}
