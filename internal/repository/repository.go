package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"vmarinov/fitness-diary/internal/domain"
)

// Error constants for the repository layer.
var (
	ErrNotFound       = RepositoryError("not found")
	ErrDuplicateEmail = RepositoryError("email already in use")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// Cursor identifies the last record of a fetched page. The next page starts
// strictly after it in (date desc, _id desc) order. Callers treat it as
// opaque; only the repository interprets the fields.
type Cursor struct {
	Date time.Time
	ID   primitive.ObjectID
}

// UserRepository defines the interface for interacting with user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// ExerciseLibraryRepository defines the interface for the shared exercise
// library. The library has no owner; write access is enforced above this
// layer.
type ExerciseLibraryRepository interface {
	Create(ctx context.Context, exercise *domain.LibraryExercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.LibraryExercise, error)
	// List returns the whole library sorted by name.
	List(ctx context.Context) ([]domain.LibraryExercise, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// WorkoutRepository defines the interface for interacting with workout data.
// Every operation is scoped to the owning user: a mismatched ownerID behaves
// exactly like a missing document.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, ownerID, id primitive.ObjectID) (*domain.Workout, error)
	// GetPageByOwner returns up to limit workouts for the owner, newest date
	// first, starting strictly after the cursor when one is given.
	GetPageByOwner(ctx context.Context, ownerID primitive.ObjectID, limit int64, after *Cursor) ([]domain.Workout, error)
	// Update replaces the mutable fields of the workout. ID, owner and
	// creation timestamp are immutable.
	Update(ctx context.Context, workout *domain.Workout) error
	Delete(ctx context.Context, ownerID, id primitive.ObjectID) error
	SetPhotoKey(ctx context.Context, ownerID, id primitive.ObjectID, photoKey string) error
}
