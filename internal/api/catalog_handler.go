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

// CatalogHandler serves the workout and diet catalogs of the authenticated user.
type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// --- DTOs ---

type CatalogEntryRequest struct {
	Name          string               `json:"name" binding:"required"`
	Duration      int                  `json:"duration" binding:"gte=0"`
	Intensity     string               `json:"intensity"`
	ActivityLevel domain.ActivityLevel `json:"activityLevel"`
	Calories      int                  `json:"calories" binding:"gte=0"`
	Description   string               `json:"description"`
}

func (r CatalogEntryRequest) toEntry() service.CatalogEntry {
	return service.CatalogEntry{
		Name:          r.Name,
		Duration:      r.Duration,
		Intensity:     r.Intensity,
		ActivityLevel: r.ActivityLevel,
		Calories:      r.Calories,
		Description:   r.Description,
	}
}

// CatalogItemResponse is shared by workouts and diets.
type CatalogItemResponse struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	Duration      int                  `json:"duration"`
	Intensity     string               `json:"intensity,omitempty"`
	ActivityLevel domain.ActivityLevel `json:"activityLevel,omitempty"`
	Calories      int                  `json:"calories"`
	Description   string               `json:"description,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
}

func MapWorkoutToResponse(w *domain.WorkoutItem) CatalogItemResponse {
	return CatalogItemResponse{
		ID:            w.ID.Hex(),
		Name:          w.Name,
		Duration:      w.Duration,
		Intensity:     w.Intensity,
		ActivityLevel: w.ActivityLevel,
		Calories:      w.Calories,
		Description:   w.Description,
		CreatedAt:     w.CreatedAt,
	}
}

func MapDietToResponse(d *domain.DietItem) CatalogItemResponse {
	return CatalogItemResponse{
		ID:            d.ID.Hex(),
		Name:          d.Name,
		Duration:      d.Duration,
		Intensity:     d.Intensity,
		ActivityLevel: d.ActivityLevel,
		Calories:      d.Calories,
		Description:   d.Description,
		CreatedAt:     d.CreatedAt,
	}
}

func MapWorkoutsToResponse(workouts []domain.WorkoutItem) []CatalogItemResponse {
	resp := make([]CatalogItemResponse, len(workouts))
	for i := range workouts {
		resp[i] = MapWorkoutToResponse(&workouts[i])
	}
	return resp
}

func MapDietsToResponse(diets []domain.DietItem) []CatalogItemResponse {
	resp := make([]CatalogItemResponse, len(diets))
	for i := range diets {
		resp[i] = MapDietToResponse(&diets[i])
	}
	return resp
}

// --- Handler Methods ---

// AddWorkout godoc
// @Summary Add a workout to the catalog
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workout body CatalogEntryRequest true "Workout details"
// @Success 201 {object} CatalogItemResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Router /catalog/workouts [post]
func (h *CatalogHandler) AddWorkout(c *gin.Context) {
	userID, ok := userObjectID(c)
	if !ok {
		return
	}

	var req CatalogEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	item, err := h.catalogService.AddWorkout(c.Request.Context(), userID, req.toEntry())
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapWorkoutToResponse(item))
}

// ListWorkouts godoc
// @Summary List the workout catalog in catalog order
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {array} CatalogItemResponse
// @Router /catalog/workouts [get]
func (h *CatalogHandler) ListWorkouts(c *gin.Context) {
	userID, ok := userObjectID(c)
	if !ok {
		return
	}

	workouts, err := h.catalogService.ListWorkouts(c.Request.Context(), userID)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutsToResponse(workouts))
}

// AddDiet godoc
// @Summary Add a diet entry to the catalog
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param diet body CatalogEntryRequest true "Diet details"
// @Success 201 {object} CatalogItemResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Router /catalog/diets [post]
func (h *CatalogHandler) AddDiet(c *gin.Context) {
	userID, ok := userObjectID(c)
	if !ok {
		return
	}

	var req CatalogEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	item, err := h.catalogService.AddDiet(c.Request.Context(), userID, req.toEntry())
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapDietToResponse(item))
}

// ListDiets godoc
// @Summary List the diet catalog in catalog order
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {array} CatalogItemResponse
// @Router /catalog/diets [get]
func (h *CatalogHandler) ListDiets(c *gin.Context) {
	userID, ok := userObjectID(c)
	if !ok {
		return
	}

	diets, err := h.catalogService.ListDiets(c.Request.Context(), userID)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapDietsToResponse(diets))
}

func respondCatalogError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrValidationFailed) || errors.Is(err, service.ErrInvalidActivityLevel) {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	logrus.WithError(err).Error("catalog request failed")
	abortWithError(c, http.StatusInternalServerError, "Failed to process catalog request.")
}
