package api

import (
	"alcyxob/fitness-scheduler/internal/metrics"
	"alcyxob/fitness-scheduler/internal/service"
	"alcyxob/fitness-scheduler/internal/session"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Dependencies is everything the routes are built from. RateLimiter,
// Metrics and MetricsHandler are optional.
type Dependencies struct {
	JWTSecret       string
	ProfileService  service.ProfileService
	CatalogService  service.CatalogService
	ScheduleService service.ScheduleService
	Drafts          session.Store

	RateLimiter       RequestRateLimiter
	SchedulePerMinute int

	Metrics        *metrics.Manager
	MetricsHandler http.Handler
}

func SetupRoutes(router *gin.Engine, deps Dependencies) {
	profileHandler := NewProfileHandler(deps.ProfileService)
	catalogHandler := NewCatalogHandler(deps.CatalogService)
	scheduleHandler := NewScheduleHandler(deps.ScheduleService)
	onboardingHandler := NewOnboardingHandler(deps.Drafts, deps.ProfileService)

	router.Use(RequestLogger())
	if deps.Metrics != nil {
		router.Use(RequestMetrics(deps.Metrics))
	}

	authMiddleware := AuthMiddleware(deps.JWTSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if deps.MetricsHandler != nil {
		router.GET("/metrics", gin.WrapH(deps.MetricsHandler))
	}

	apiV1 := router.Group("/api/v1")
	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		// --- Profile Routes ---
		protected.POST("/profile", profileHandler.CreateProfile)
		protected.GET("/profile", profileHandler.GetProfile)
		protected.PATCH("/profile/activity-level", profileHandler.UpdateActivityLevel)

		// --- Catalog Routes ---
		catalogGroup := protected.Group("/catalog")
		{
			catalogGroup.POST("/workouts", catalogHandler.AddWorkout)
			catalogGroup.GET("/workouts", catalogHandler.ListWorkouts)
			catalogGroup.POST("/diets", catalogHandler.AddDiet)
			catalogGroup.GET("/diets", catalogHandler.ListDiets)
		}

		// --- Schedule Routes ---
		// GET /schedule and export may generate and commit a week, so they are rate limited.
		scheduleGroup := protected.Group("/schedule")
		{
			scheduleGroup.GET("", scheduleLimit(deps, "schedule"), scheduleHandler.GetSchedule)
			scheduleGroup.POST("/export", scheduleLimit(deps, "schedule-export"), scheduleHandler.ExportSchedule)
			scheduleGroup.GET("/weeks/:week", scheduleHandler.GetScheduleForWeek)
		}
		protected.GET("/used-items", scheduleHandler.ListUsedItems)

		// --- Onboarding Routes ---
		onboardingGroup := protected.Group("/onboarding")
		{
			onboardingGroup.GET("", onboardingHandler.GetDraft)
			onboardingGroup.PATCH("", onboardingHandler.PatchDraft)
			onboardingGroup.DELETE("", onboardingHandler.ClearDraft)
			onboardingGroup.POST("/complete", onboardingHandler.Complete)
		}
	}
}

func scheduleLimit(deps Dependencies, routeName string) gin.HandlerFunc {
	if deps.RateLimiter == nil || deps.SchedulePerMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return RateLimit(deps.RateLimiter, routeName, deps.SchedulePerMinute)
}
