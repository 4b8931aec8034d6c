package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"vmarinov/fitness-diary/internal/domain"
	"vmarinov/fitness-diary/internal/service"
	"vmarinov/fitness-diary/internal/store"
)

// WorkoutHandler serves the workout diary. List and mutation endpoints go
// through the per-session WorkoutStore so the cached view, cursor and
// status flags behave the same as they would in a thick client; single-item
// reads go straight to the service.
type WorkoutHandler struct {
	workoutService service.WorkoutService
	sessions       *store.Manager
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService, sessions *store.Manager) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService, sessions: sessions}
}

// --- DTOs ---

type SetPayload struct {
	Reps   *int     `json:"reps"`
	Weight *float64 `json:"weight"`
}

type ExercisePayload struct {
	Name string       `json:"name"`
	Sets []SetPayload `json:"sets"`
}

// WorkoutRequest is the JSON body for create and update. Date arrives the
// way the date input produces it: "2006-01-02".
type WorkoutRequest struct {
	Title     string            `json:"title" binding:"required"`
	Date      string            `json:"date" binding:"required"`
	Duration  int               `json:"duration" binding:"min=0"`
	Exercises []ExercisePayload `json:"exercises"`
	Comments  string            `json:"comments"`
}

type WorkoutResponse struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Date      string            `json:"date"`
	Duration  int               `json:"duration"`
	Exercises []ExercisePayload `json:"exercises"`
	Comments  string            `json:"comments,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// WorkoutListResponse mirrors what the home screen renders: the cached
// page(s) plus whether a "load more" control should show.
type WorkoutListResponse struct {
	Workouts []WorkoutResponse `json:"workouts"`
	HasMore  bool              `json:"hasMore"`
}

type ConfirmPhotoRequest struct {
	ObjectKey string `json:"objectKey" binding:"required"`
}

type PhotoUploadURLRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

func (r WorkoutRequest) toDraft() (domain.WorkoutDraft, error) {
	date, err := domain.ParseLegacyDate(r.Date)
	if err != nil {
		return domain.WorkoutDraft{}, err
	}
	exercises := make([]domain.Exercise, len(r.Exercises))
	for i, ex := range r.Exercises {
		sets := make([]domain.Set, len(ex.Sets))
		for j, set := range ex.Sets {
			sets[j] = domain.Set{Reps: set.Reps, Weight: set.Weight}
		}
		exercises[i] = domain.Exercise{Name: ex.Name, Sets: sets}
	}
	return domain.WorkoutDraft{
		Title:     r.Title,
		Date:      date,
		Duration:  r.Duration,
		Exercises: exercises,
		Comments:  r.Comments,
	}, nil
}

// MapWorkoutToResponse converts a domain.Workout to its DTO.
func MapWorkoutToResponse(w *domain.Workout) WorkoutResponse {
	if w == nil {
		return WorkoutResponse{}
	}
	exercises := make([]ExercisePayload, len(w.Exercises))
	for i, ex := range w.Exercises {
		sets := make([]SetPayload, len(ex.Sets))
		for j, set := range ex.Sets {
			sets[j] = SetPayload{Reps: set.Reps, Weight: set.Weight}
		}
		exercises[i] = ExercisePayload{Name: ex.Name, Sets: sets}
	}
	return WorkoutResponse{
		ID:        w.ID.Hex(),
		Title:     w.Title,
		Date:      w.Date.Format("2006-01-02"),
		Duration:  w.Duration,
		Exercises: exercises,
		Comments:  w.Comments,
		CreatedAt: w.CreatedAt,
	}
}

func mapListToResponse(st *store.WorkoutStore) WorkoutListResponse {
	workouts := st.Workouts()
	responses := make([]WorkoutResponse, len(workouts))
	for i := range workouts {
		responses[i] = MapWorkoutToResponse(&workouts[i])
	}
	return WorkoutListResponse{Workouts: responses, HasMore: st.HasMore()}
}

// --- Handler Methods ---

// ListWorkouts returns the session's cached view after fetching a page.
// ?more=true continues from the cursor; otherwise the view restarts from
// the newest entry.
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	st := h.sessions.ForUser(userID)
	st.FetchWorkouts(c.Request.Context(), c.Query("more") == "true")
	if err := st.Err(); err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, mapListToResponse(st))
}

// CreateWorkout persists a new entry and returns the resynced first page.
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	draft, err := req.toDraft()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid date: "+err.Error())
		return
	}

	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	st := h.sessions.ForUser(userID)
	if !st.AddWorkout(c.Request.Context(), draft) {
		h.abortWithStoreError(c, st.Err())
		return
	}

	c.JSON(http.StatusCreated, mapListToResponse(st))
}

// GetWorkout returns a single workout by ID.
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	workoutID, err := primitive.ObjectIDFromHex(c.Param("workoutId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format.")
		return
	}

	workout, err := h.workoutService.GetWorkoutByID(c.Request.Context(), userID, workoutID)
	if err != nil {
		if errors.Is(err, service.ErrWorkoutNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to load workout.")
		}
		return
	}

	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// UpdateWorkout replaces an existing workout's fields.
func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	draft, err := req.toDraft()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid date: "+err.Error())
		return
	}

	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	workoutID, err := primitive.ObjectIDFromHex(c.Param("workoutId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format.")
		return
	}

	st := h.sessions.ForUser(userID)
	if !st.UpdateWorkout(c.Request.Context(), workoutID, draft) {
		h.abortWithStoreError(c, st.Err())
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteWorkout removes a workout and splices it out of the cached view.
func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	workoutID, err := primitive.ObjectIDFromHex(c.Param("workoutId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format.")
		return
	}

	st := h.sessions.ForUser(userID)
	if !st.DeleteWorkout(c.Request.Context(), workoutID) {
		h.abortWithStoreError(c, st.Err())
		return
	}

	c.JSON(http.StatusOK, mapListToResponse(st))
}

// RequestPhotoUploadURL hands out a presigned PUT URL for a progress photo.
func (h *WorkoutHandler) RequestPhotoUploadURL(c *gin.Context) {
	var req PhotoUploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	workoutID, err := primitive.ObjectIDFromHex(c.Param("workoutId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format.")
		return
	}

	resp, err := h.workoutService.RequestPhotoUploadURL(c.Request.Context(), userID, workoutID, req.ContentType)
	if err != nil {
		if errors.Is(err, service.ErrWorkoutNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusBadRequest, err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ConfirmPhotoUpload records the uploaded photo's object key.
func (h *WorkoutHandler) ConfirmPhotoUpload(c *gin.Context) {
	var req ConfirmPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	workoutID, err := primitive.ObjectIDFromHex(c.Param("workoutId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format.")
		return
	}

	if err := h.workoutService.ConfirmPhotoUpload(c.Request.Context(), userID, workoutID, req.ObjectKey); err != nil {
		if errors.Is(err, service.ErrWorkoutNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusBadRequest, err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetPhotoDownloadURL returns a temporary URL to view the progress photo.
func (h *WorkoutHandler) GetPhotoDownloadURL(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	workoutID, err := primitive.ObjectIDFromHex(c.Param("workoutId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format.")
		return
	}

	url, err := h.workoutService.GetPhotoDownloadURL(c.Request.Context(), userID, workoutID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWorkoutNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrPhotoMissing):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"downloadUrl": url})
}

// abortWithStoreError maps a WorkoutStore failure onto an HTTP status.
func (h *WorkoutHandler) abortWithStoreError(c *gin.Context, err error) {
	switch {
	case err == nil:
		abortWithError(c, http.StatusInternalServerError, "operation failed")
	case errors.Is(err, store.ErrNotAuthenticated):
		abortWithError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrWorkoutNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrWorkoutValidation):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, err.Error())
	}
}
