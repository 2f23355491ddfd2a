package api

import (
	"alcyxob/fitness-scheduler/internal/domain"
	"alcyxob/fitness-scheduler/internal/service"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ProfileHandler serves the user profile resource.
type ProfileHandler struct {
	profileService service.ProfileService
}

func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// --- Request/Response Structs ---

type CreateProfileRequest struct {
	Name          string               `json:"name" binding:"required"`
	Email         string               `json:"email" binding:"omitempty,email"`
	ActivityLevel domain.ActivityLevel `json:"activityLevel" binding:"required"`
}

type UpdateActivityLevelRequest struct {
	ActivityLevel domain.ActivityLevel `json:"activityLevel" binding:"required"`
}

type UserResponse struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	Email         string               `json:"email,omitempty"`
	ActivityLevel domain.ActivityLevel `json:"activityLevel"`
	CurrentWeek   int                  `json:"currentWeek"`
	WeekStartDate *time.Time           `json:"weekStartDate,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
}

// MapUserToResponse converts a domain User to a UserResponse DTO.
func MapUserToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:            user.ID.Hex(),
		Name:          user.Name,
		Email:         user.Email,
		ActivityLevel: user.ActivityLevel,
		CurrentWeek:   user.CurrentWeek,
		WeekStartDate: user.WeekStartDate,
		CreatedAt:     user.CreatedAt,
	}
}

// --- Handler Methods ---

// CreateProfile godoc
// @Summary Create the profile of the authenticated user
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body CreateProfileRequest true "Profile details"
// @Success 201 {object} UserResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 409 {object} gin.H "Profile already exists"
// @Router /profile [post]
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	userID, ok := userObjectID(c)
	if !ok {
		return
	}

	var req CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, err := h.profileService.CreateProfile(c.Request.Context(), userID, req.Name, req.Email, req.ActivityLevel)
	if err != nil {
		respondProfileError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapUserToResponse(user))
}

// GetProfile godoc
// @Summary Get the profile of the authenticated user
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 404 {object} gin.H "Profile not found"
// @Router /profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := userObjectID(c)
	if !ok {
		return
	}

	user, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// UpdateActivityLevel godoc
// @Summary Change the activity level
// @Description The new level applies from the next generated week on.
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param level body UpdateActivityLevelRequest true "New activity level"
// @Success 200 {object} UserResponse
// @Failure 400 {object} gin.H "Unknown activity level"
// @Failure 404 {object} gin.H "Profile not found"
// @Router /profile/activity-level [patch]
func (h *ProfileHandler) UpdateActivityLevel(c *gin.Context) {
	userID, ok := userObjectID(c)
	if !ok {
		return
	}

	var req UpdateActivityLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, err := h.profileService.UpdateActivityLevel(c.Request.Context(), userID, req.ActivityLevel)
	if err != nil {
		respondProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

func respondProfileError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrProfileExists):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidActivityLevel), errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrOnboardingIncomplete):
		abortWithError(c, http.StatusUnprocessableEntity, err.Error())
	default:
		logrus.WithError(err).Error("profile request failed")
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred.")
	}
}
