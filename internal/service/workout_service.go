package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"vmarinov/fitness-diary/internal/domain"
	"vmarinov/fitness-diary/internal/repository"
	"vmarinov/fitness-diary/internal/storage"
)

// --- Error Definitions ---
var (
	ErrWorkoutNotFound   = errors.New("workout not found")
	ErrWorkoutValidation = errors.New("workout validation failed")
	ErrPhotoMissing      = errors.New("workout has no progress photo")
	ErrPhotoURLError     = errors.New("failed to generate photo URL")
)

// PhotoUploadResponse carries the presigned URL and the object key the
// client reports back once the upload went through.
type PhotoUploadResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// WorkoutService exposes owner-scoped workout operations. All writes pass
// through sanitization; cross-user access reads as not found.
type WorkoutService interface {
	CreateWorkout(ctx context.Context, ownerID primitive.ObjectID, draft domain.WorkoutDraft) (*domain.Workout, error)
	GetWorkoutByID(ctx context.Context, ownerID, workoutID primitive.ObjectID) (*domain.Workout, error)
	GetWorkoutPage(ctx context.Context, ownerID primitive.ObjectID, limit int64, after *repository.Cursor) ([]domain.Workout, error)
	UpdateWorkout(ctx context.Context, ownerID, workoutID primitive.ObjectID, draft domain.WorkoutDraft) error
	DeleteWorkout(ctx context.Context, ownerID, workoutID primitive.ObjectID) error

	// Progress photo handling (one photo per workout, stored in S3).
	RequestPhotoUploadURL(ctx context.Context, ownerID, workoutID primitive.ObjectID, contentType string) (*PhotoUploadResponse, error)
	ConfirmPhotoUpload(ctx context.Context, ownerID, workoutID primitive.ObjectID, objectKey string) error
	GetPhotoDownloadURL(ctx context.Context, ownerID, workoutID primitive.ObjectID) (string, error)
}

// --- Service Implementation ---

// workoutService implements the WorkoutService interface.
type workoutService struct {
	workoutRepo repository.WorkoutRepository
	fileStorage storage.FileStorage
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(workoutRepo repository.WorkoutRepository, fileStorage storage.FileStorage) WorkoutService {
	return &workoutService{
		workoutRepo: workoutRepo,
		fileStorage: fileStorage,
	}
}

// CreateWorkout sanitizes and persists a new workout for the owner.
func (s *workoutService) CreateWorkout(ctx context.Context, ownerID primitive.ObjectID, draft domain.WorkoutDraft) (*domain.Workout, error) {
	if ownerID == primitive.NilObjectID {
		return nil, errors.New("owner ID is required to create a workout")
	}
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	workout := &domain.Workout{
		OwnerID:   ownerID,
		Title:     draft.Title,
		Date:      domain.NewDate(draft.Date),
		Duration:  draft.Duration,
		Exercises: domain.SanitizeExercises(draft.Exercises),
		Comments:  draft.Comments,
		// ID, CreatedAt set by the repository
	}

	workoutID, err := s.workoutRepo.Create(ctx, workout)
	if err != nil {
		return nil, err
	}
	// Fetch again to return the record exactly as stored.
	return s.workoutRepo.GetByID(ctx, ownerID, workoutID)
}

// GetWorkoutByID retrieves a single workout for the owner.
func (s *workoutService) GetWorkoutByID(ctx context.Context, ownerID, workoutID primitive.ObjectID) (*domain.Workout, error) {
	workout, err := s.workoutRepo.GetByID(ctx, ownerID, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return workout, nil
}

// GetWorkoutPage returns one page of the owner's history, newest first.
func (s *workoutService) GetWorkoutPage(ctx context.Context, ownerID primitive.ObjectID, limit int64, after *repository.Cursor) ([]domain.Workout, error) {
	if ownerID == primitive.NilObjectID {
		return nil, errors.New("owner ID cannot be nil")
	}
	if limit <= 0 {
		return nil, errors.New("page limit must be positive")
	}
	return s.workoutRepo.GetPageByOwner(ctx, ownerID, limit, after)
}

// UpdateWorkout replaces the workout's user-editable fields, ensuring
// ownership. ID and owner never change.
func (s *workoutService) UpdateWorkout(ctx context.Context, ownerID, workoutID primitive.ObjectID, draft domain.WorkoutDraft) error {
	if ownerID == primitive.NilObjectID || workoutID == primitive.NilObjectID {
		return errors.New("owner ID and workout ID are required")
	}
	if err := validateDraft(draft); err != nil {
		return err
	}

	existing, err := s.workoutRepo.GetByID(ctx, ownerID, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkoutNotFound
		}
		return err
	}

	existing.Title = draft.Title
	existing.Date = domain.NewDate(draft.Date)
	existing.Duration = draft.Duration
	existing.Exercises = domain.SanitizeExercises(draft.Exercises)
	existing.Comments = draft.Comments

	if err := s.workoutRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkoutNotFound
		}
		return err
	}
	return nil
}

// DeleteWorkout removes the workout. The repository filter enforces
// ownership at the database level.
func (s *workoutService) DeleteWorkout(ctx context.Context, ownerID, workoutID primitive.ObjectID) error {
	if ownerID == primitive.NilObjectID || workoutID == primitive.NilObjectID {
		return errors.New("owner ID and workout ID are required")
	}

	err := s.workoutRepo.Delete(ctx, ownerID, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkoutNotFound
		}
		return err
	}
	return nil
}

// === Progress photos ===

// RequestPhotoUploadURL generates a presigned URL for uploading a progress
// photo for one of the owner's workouts.
func (s *workoutService) RequestPhotoUploadURL(ctx context.Context, ownerID, workoutID primitive.ObjectID, contentType string) (*PhotoUploadResponse, error) {
	if contentType == "" || !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return nil, errors.New("invalid or missing image content type")
	}

	// Ownership check before handing out a URL.
	if _, err := s.GetWorkoutByID(ctx, ownerID, workoutID); err != nil {
		return nil, err
	}

	uniqueID := uuid.NewString()
	fileExtension := ""
	parts := strings.Split(contentType, "/")
	if len(parts) == 2 {
		fileExtension = parts[1]
	}
	objectKey := path.Join("photos", ownerID.Hex(), workoutID.Hex(), fmt.Sprintf("%s.%s", uniqueID, fileExtension))

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, ErrPhotoURLError
	}

	return &PhotoUploadResponse{
		UploadURL: uploadURL,
		ObjectKey: objectKey,
	}, nil
}

// ConfirmPhotoUpload records the object key once the client has uploaded
// the photo with the presigned URL. A previous photo, if any, is removed
// from storage.
func (s *workoutService) ConfirmPhotoUpload(ctx context.Context, ownerID, workoutID primitive.ObjectID, objectKey string) error {
	if objectKey == "" {
		return errors.New("object key is required")
	}
	// The key must sit under this owner's prefix; a client cannot claim
	// someone else's upload.
	if !strings.HasPrefix(objectKey, path.Join("photos", ownerID.Hex(), workoutID.Hex())+"/") {
		return errors.New("object key does not match this workout")
	}

	existing, err := s.GetWorkoutByID(ctx, ownerID, workoutID)
	if err != nil {
		return err
	}

	if err := s.workoutRepo.SetPhotoKey(ctx, ownerID, workoutID, objectKey); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkoutNotFound
		}
		return err
	}

	if existing.PhotoKey != "" && existing.PhotoKey != objectKey {
		// Best effort; an orphaned object is not worth failing the confirm.
		_ = s.fileStorage.DeleteObject(ctx, existing.PhotoKey)
	}
	return nil
}

// GetPhotoDownloadURL generates a temporary URL to view the workout's photo.
func (s *workoutService) GetPhotoDownloadURL(ctx context.Context, ownerID, workoutID primitive.ObjectID) (string, error) {
	workout, err := s.GetWorkoutByID(ctx, ownerID, workoutID)
	if err != nil {
		return "", err
	}
	if workout.PhotoKey == "" {
		return "", ErrPhotoMissing
	}

	downloadURL, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, workout.PhotoKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", ErrPhotoURLError
	}
	return downloadURL, nil
}

// validateDraft enforces the fields the forms mark required.
func validateDraft(draft domain.WorkoutDraft) error {
	if draft.Title == "" {
		return fmt.Errorf("%w: title is required", ErrWorkoutValidation)
	}
	if draft.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrWorkoutValidation)
	}
	if draft.Duration < 0 {
		return fmt.Errorf("%w: duration cannot be negative", ErrWorkoutValidation)
	}
	return nil
}
