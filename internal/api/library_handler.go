package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"vmarinov/fitness-diary/internal/domain"
	"vmarinov/fitness-diary/internal/service"
)

// LibraryHandler serves the shared exercise library: a sorted list every
// signed-in user can browse, with admin-only curation.
type LibraryHandler struct {
	libraryService service.LibraryService
}

// NewLibraryHandler creates a new LibraryHandler.
func NewLibraryHandler(libraryService service.LibraryService) *LibraryHandler {
	return &LibraryHandler{libraryService: libraryService}
}

// --- Request/Response Structs ---

type LibraryExerciseRequest struct {
	Name            string `json:"name" binding:"required"`
	MainMuscleGroup string `json:"mainMuscleGroup" binding:"required"`
	Description     string `json:"description"`
	VideoURL        string `json:"videoUrl"`
	ImageURL        string `json:"imageUrl"`
}

type LibraryExerciseResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	MainMuscleGroup string `json:"mainMuscleGroup"`
	Description     string `json:"description,omitempty"`
	VideoURL        string `json:"videoUrl,omitempty"`
	ImageURL        string `json:"imageUrl,omitempty"`
}

// MapLibraryExerciseToResponse converts a domain.LibraryExercise to its DTO.
func MapLibraryExerciseToResponse(e *domain.LibraryExercise) LibraryExerciseResponse {
	if e == nil {
		return LibraryExerciseResponse{}
	}
	return LibraryExerciseResponse{
		ID:              e.ID.Hex(),
		Name:            e.Name,
		MainMuscleGroup: e.MainMuscleGroup,
		Description:     e.Description,
		VideoURL:        e.VideoURL,
		ImageURL:        e.ImageURL,
	}
}

// --- Handler Methods ---

// ListExercises returns the whole library sorted by name.
func (h *LibraryHandler) ListExercises(c *gin.Context) {
	exercises, err := h.libraryService.ListExercises(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load exercise library.")
		return
	}

	responses := make([]LibraryExerciseResponse, len(exercises))
	for i := range exercises {
		responses[i] = MapLibraryExerciseToResponse(&exercises[i])
	}
	c.JSON(http.StatusOK, responses)
}

// CreateExercise adds a new entry to the library. Admin only.
func (h *LibraryHandler) CreateExercise(c *gin.Context) {
	var req LibraryExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	exercise, err := h.libraryService.CreateExercise(c.Request.Context(), service.LibraryDraft{
		Name:            req.Name,
		MainMuscleGroup: req.MainMuscleGroup,
		Description:     req.Description,
		VideoURL:        req.VideoURL,
		ImageURL:        req.ImageURL,
	})
	if err != nil {
		if errors.Is(err, service.ErrLibraryValidation) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create library exercise.")
		}
		return
	}

	c.JSON(http.StatusCreated, MapLibraryExerciseToResponse(exercise))
}

// DeleteExercise removes an entry from the library. Admin only.
func (h *LibraryHandler) DeleteExercise(c *gin.Context) {
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("exerciseId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format.")
		return
	}

	if err := h.libraryService.DeleteExercise(c.Request.Context(), exerciseID); err != nil {
		if errors.Is(err, service.ErrLibraryExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete library exercise.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
