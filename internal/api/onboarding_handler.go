package api

import (
	"alcyxob/fitness-scheduler/internal/service"
	"alcyxob/fitness-scheduler/internal/session"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// OnboardingHandler exposes the onboarding form state between screens.
type OnboardingHandler struct {
	drafts         session.Store
	profileService service.ProfileService
}

func NewOnboardingHandler(drafts session.Store, profileService service.ProfileService) *OnboardingHandler {
	return &OnboardingHandler{
		drafts:         drafts,
		profileService: profileService,
	}
}

type DraftResponse struct {
	Draft session.Draft `json:"draft"`
}

// GetDraft godoc
// @Summary Get the onboarding draft
// @Tags Onboarding
// @Produce json
// @Security BearerAuth
// @Success 200 {object} DraftResponse
// @Router /onboarding [get]
func (h *OnboardingHandler) GetDraft(c *gin.Context) {
	userID, ok := userObjectID(c)
	if !ok {
		return
	}

	draft, err := h.drafts.Get(c.Request.Context(), userID.Hex())
	if err != nil {
		respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, DraftResponse{Draft: draft})
}

// PatchDraft godoc
// @Summary Merge fields into the onboarding draft
// @Description Every key in the body is set; an empty value removes the key.
// @Tags Onboarding
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} DraftResponse
// @Failure 400 {object} gin.H "Invalid patch"
// @Router /onboarding [patch]
func (h *OnboardingHandler) PatchDraft(c *gin.Context) {
	userID, ok := userObjectID(c)
	if !ok {
		return
	}

	var patch session.Draft
	if err := c.ShouldBindJSON(&patch); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	draft, err := h.drafts.Patch(c.Request.Context(), userID.Hex(), patch)
	if err != nil {
		respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, DraftResponse{Draft: draft})
}

// ClearDraft godoc
// @Summary Discard the onboarding draft
// @Tags Onboarding
// @Security BearerAuth
// @Success 204
// @Router /onboarding [delete]
func (h *OnboardingHandler) ClearDraft(c *gin.Context) {
	userID, ok := userObjectID(c)
	if !ok {
		return
	}

	if err := h.drafts.Clear(c.Request.Context(), userID.Hex()); err != nil {
		respondDraftError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Complete godoc
// @Summary Create the profile from the onboarding draft
// @Tags Onboarding
// @Produce json
// @Security BearerAuth
// @Success 201 {object} UserResponse
// @Failure 409 {object} gin.H "Profile already exists"
// @Failure 422 {object} gin.H "Draft is missing required fields"
// @Router /onboarding/complete [post]
func (h *OnboardingHandler) Complete(c *gin.Context) {
	userID, ok := userObjectID(c)
	if !ok {
		return
	}

	user, err := h.profileService.CompleteOnboarding(c.Request.Context(), userID)
	if err != nil {
		respondProfileError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapUserToResponse(user))
}

func respondDraftError(c *gin.Context, err error) {
	if errors.Is(err, session.ErrEmptyKey) || errors.Is(err, session.ErrKeyTooLong) || errors.Is(err, session.ErrTooManyFields) {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	logrus.WithError(err).Error("onboarding draft request failed")
	abortWithError(c, http.StatusInternalServerError, "Failed to access onboarding state.")
}
