package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vmarinov/fitness-diary/internal/domain"
	"vmarinov/fitness-diary/internal/service"
	"vmarinov/fitness-diary/internal/store"
)

// SetupRoutes wires all handlers onto the router.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	workoutService service.WorkoutService,
	libraryService service.LibraryService,
	sessions *store.Manager,
) {
	authHandler := NewAuthHandler(authService, sessions)
	workoutHandler := NewWorkoutHandler(workoutService, sessions)
	libraryHandler := NewLibraryHandler(libraryService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.POST("/auth/logout", authHandler.Logout)

		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr})
		})

		workoutGroup := protected.Group("/workouts")
		{
			// GET /api/v1/workouts            - first page (replaces the cached view)
			// GET /api/v1/workouts?more=true  - next page (appends after the cursor)
			workoutGroup.GET("", workoutHandler.ListWorkouts)
			workoutGroup.POST("", workoutHandler.CreateWorkout)
			workoutGroup.GET("/:workoutId", workoutHandler.GetWorkout)
			workoutGroup.PUT("/:workoutId", workoutHandler.UpdateWorkout)
			workoutGroup.DELETE("/:workoutId", workoutHandler.DeleteWorkout)

			// Progress photo flow: request URL, upload to S3, confirm.
			workoutGroup.POST("/:workoutId/photo-url", workoutHandler.RequestPhotoUploadURL)
			workoutGroup.POST("/:workoutId/photo", workoutHandler.ConfirmPhotoUpload)
			workoutGroup.GET("/:workoutId/photo-url", workoutHandler.GetPhotoDownloadURL)
		}

		// Shared exercise library: everyone reads, admins curate.
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.GET("", libraryHandler.ListExercises)

			adminOnly := exerciseGroup.Group("")
			adminOnly.Use(RequireRole(domain.RoleAdmin))
			{
				adminOnly.POST("", libraryHandler.CreateExercise)
				adminOnly.DELETE("/:exerciseId", libraryHandler.DeleteExercise)
			}
		}
	}
}
