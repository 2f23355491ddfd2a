package api

import (
	"alcyxob/fitness-scheduler/internal/domain"
	"alcyxob/fitness-scheduler/internal/service"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ScheduleHandler serves the weekly schedule and the used-items history.
type ScheduleHandler struct {
	scheduleService service.ScheduleService
}

func NewScheduleHandler(scheduleService service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

// --- DTOs ---

type AssignedWorkoutResponse struct {
	Day     int                 `json:"day"`
	Week    int                 `json:"week"`
	Workout CatalogItemResponse `json:"workout"`
}

type AssignedDietResponse struct {
	Day  int                 `json:"day"`
	Week int                 `json:"week"`
	Diet CatalogItemResponse `json:"diet"`
}

type DayResponse struct {
	Day      int                       `json:"day"`
	RestDay  bool                      `json:"restDay"`
	Workouts []AssignedWorkoutResponse `json:"workouts"`
	Diets    []AssignedDietResponse    `json:"diets"`
}

type ScheduleResponse struct {
	ID               string        `json:"id,omitempty"`
	Week             int           `json:"week"`
	WeekStartDate    time.Time     `json:"weekStartDate"`
	Quota            int           `json:"quota"`
	Days             []DayResponse `json:"days"`
	Insufficient     bool          `json:"insufficientCatalog"`
	WorkoutShortfall int           `json:"workoutShortfall"`
	DietShortfall    int           `json:"dietShortfall"`
	// Only set on GET /schedule.
	Generated  bool `json:"generated,omitempty"`
	RolledOver bool `json:"rolledOver,omitempty"`
	Saved      bool `json:"saved"`
}

type UsedItemResponse struct {
	ID           string          `json:"id"`
	ItemID       string          `json:"itemId"`
	Kind         domain.ItemKind `json:"kind"`
	WeekNumber   int             `json:"weekNumber"`
	DateAssigned time.Time       `json:"dateAssigned"`
}

// MapScheduleToResponse converts a stored or freshly computed week.
func MapScheduleToResponse(s *domain.WeeklySchedule) ScheduleResponse {
	resp := ScheduleResponse{
		Week:             s.Week,
		WeekStartDate:    s.WeekStartDate,
		Quota:            s.Quota,
		Days:             make([]DayResponse, len(s.Days)),
		Insufficient:     s.Insufficient(),
		WorkoutShortfall: s.WorkoutShortfall,
		DietShortfall:    s.DietShortfall,
		Saved:            !s.ID.IsZero(),
	}
	if !s.ID.IsZero() {
		resp.ID = s.ID.Hex()
	}
	for i, d := range s.Days {
		day := DayResponse{
			Day:      d.Day,
			RestDay:  d.IsRestDay(),
			Workouts: make([]AssignedWorkoutResponse, len(d.Workouts)),
			Diets:    make([]AssignedDietResponse, len(d.Diets)),
		}
		for j := range d.Workouts {
			day.Workouts[j] = AssignedWorkoutResponse{
				Day:     d.Workouts[j].Day,
				Week:    d.Workouts[j].Week,
				Workout: MapWorkoutToResponse(&d.Workouts[j].Workout),
			}
		}
		for j := range d.Diets {
			day.Diets[j] = AssignedDietResponse{
				Day:  d.Diets[j].Day,
				Week: d.Diets[j].Week,
				Diet: MapDietToResponse(&d.Diets[j].Diet),
			}
		}
		resp.Days[i] = day
	}
	return resp
}

func MapUsedItemsToResponse(records []domain.UsedItemRecord) []UsedItemResponse {
	resp := make([]UsedItemResponse, len(records))
	for i, rec := range records {
		resp[i] = UsedItemResponse{
			ID:           rec.ID.Hex(),
			ItemID:       rec.ItemID.Hex(),
			Kind:         rec.Kind,
			WeekNumber:   rec.Week,
			DateAssigned: rec.AssignedAt,
		}
	}
	return resp
}

// --- Handler Methods ---

// GetSchedule godoc
// @Summary Get the active week
// @Description Returns the stored week, or generates the first week or the next one once seven days have passed.
// @Tags Schedule
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ScheduleResponse
// @Failure 404 {object} gin.H "Profile not found"
// @Failure 409 {object} gin.H "Concurrent week commit"
// @Failure 429 {object} gin.H "Rate limited"
// @Router /schedule [get]
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	userID, ok := userObjectID(c)
	if !ok {
		return
	}

	view, err := h.scheduleService.GetSchedule(c.Request.Context(), userID)
	if err != nil {
		respondScheduleError(c, err)
		return
	}

	resp := MapScheduleToResponse(view.Schedule)
	resp.Generated = view.Generated
	resp.RolledOver = view.RolledOver
	resp.Saved = view.Saved
	c.JSON(http.StatusOK, resp)
}

// GetScheduleForWeek godoc
// @Summary Get a past or current week by number
// @Tags Schedule
// @Produce json
// @Security BearerAuth
// @Param week path int true "Week number"
// @Success 200 {object} ScheduleResponse
// @Failure 400 {object} gin.H "Invalid week"
// @Failure 404 {object} gin.H "No schedule for that week"
// @Router /schedule/weeks/{week} [get]
func (h *ScheduleHandler) GetScheduleForWeek(c *gin.Context) {
	userID, ok := userObjectID(c)
	if !ok {
		return
	}

	week, err := strconv.Atoi(c.Param("week"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid week number.")
		return
	}

	schedule, err := h.scheduleService.GetScheduleForWeek(c.Request.Context(), userID, week)
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapScheduleToResponse(schedule))
}

// ListUsedItems godoc
// @Summary List the used-items history
// @Tags Schedule
// @Produce json
// @Security BearerAuth
// @Param kind query string false "workout or diet"
// @Success 200 {array} UsedItemResponse
// @Failure 400 {object} gin.H "Unknown kind"
// @Router /used-items [get]
func (h *ScheduleHandler) ListUsedItems(c *gin.Context) {
	userID, ok := userObjectID(c)
	if !ok {
		return
	}

	kind := domain.ItemKind(c.Query("kind"))
	records, err := h.scheduleService.ListUsedItems(c.Request.Context(), userID, kind)
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUsedItemsToResponse(records))
}

// ExportSchedule godoc
// @Summary Export the active week as JSON
// @Description Stores a JSON snapshot in object storage and returns a temporary download link.
// @Tags Schedule
// @Produce json
// @Security BearerAuth
// @Success 201 {object} service.ExportResult
// @Failure 503 {object} gin.H "Export storage not configured"
// @Router /schedule/export [post]
func (h *ScheduleHandler) ExportSchedule(c *gin.Context) {
	userID, ok := userObjectID(c)
	if !ok {
		return
	}

	res, err := h.scheduleService.ExportSchedule(c.Request.Context(), userID)
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func respondScheduleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrScheduleNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrScheduleConflict):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrExportStorageDisabled):
		abortWithError(c, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, service.ErrExportFailed):
		logrus.WithError(err).Error("schedule export failed")
		abortWithError(c, http.StatusBadGateway, service.ErrExportFailed.Error())
	default:
		logrus.WithError(err).Error("schedule request failed")
		abortWithError(c, http.StatusInternalServerError, "Failed to process schedule request.")
	}
}
