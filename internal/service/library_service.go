package service

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"vmarinov/fitness-diary/internal/domain"
	"vmarinov/fitness-diary/internal/repository"
)

// --- Error Definitions ---
var (
	ErrLibraryExerciseNotFound = errors.New("library exercise not found")
	ErrLibraryValidation       = errors.New("library exercise validation failed")
)

// LibraryDraft carries the user-entered fields of a library entry.
type LibraryDraft struct {
	Name            string
	MainMuscleGroup string
	Description     string
	VideoURL        string
	ImageURL        string
}

// LibraryService manages the shared exercise library. Read access is open
// to every signed-in user; the HTTP layer restricts writes to admins.
type LibraryService interface {
	CreateExercise(ctx context.Context, draft LibraryDraft) (*domain.LibraryExercise, error)
	ListExercises(ctx context.Context) ([]domain.LibraryExercise, error)
	DeleteExercise(ctx context.Context, id primitive.ObjectID) error
}

// --- Service Implementation ---

// libraryService implements the LibraryService interface.
type libraryService struct {
	libraryRepo repository.ExerciseLibraryRepository
}

// NewLibraryService creates a new instance of libraryService.
func NewLibraryService(libraryRepo repository.ExerciseLibraryRepository) LibraryService {
	return &libraryService{libraryRepo: libraryRepo}
}

// CreateExercise adds a new entry to the library.
func (s *libraryService) CreateExercise(ctx context.Context, draft LibraryDraft) (*domain.LibraryExercise, error) {
	if draft.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrLibraryValidation)
	}
	if draft.MainMuscleGroup == "" {
		return nil, fmt.Errorf("%w: main muscle group is required", ErrLibraryValidation)
	}

	exercise := &domain.LibraryExercise{
		Name:            draft.Name,
		MainMuscleGroup: draft.MainMuscleGroup,
		Description:     draft.Description,
		VideoURL:        draft.VideoURL,
		ImageURL:        draft.ImageURL,
		// ID, timestamps set by the repository
	}

	exerciseID, err := s.libraryRepo.Create(ctx, exercise)
	if err != nil {
		return nil, err
	}
	// Fetch again to return the record exactly as stored.
	return s.libraryRepo.GetByID(ctx, exerciseID)
}

// ListExercises returns the whole library sorted by name.
func (s *libraryService) ListExercises(ctx context.Context) ([]domain.LibraryExercise, error) {
	return s.libraryRepo.List(ctx)
}

// DeleteExercise removes a library entry.
func (s *libraryService) DeleteExercise(ctx context.Context, id primitive.ObjectID) error {
	if id == primitive.NilObjectID {
		return errors.New("exercise ID is required")
	}
	if err := s.libraryRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrLibraryExerciseNotFound
		}
		return err
	}
	return nil
}
