package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"vmarinov/fitness-diary/internal/domain"
	"vmarinov/fitness-diary/internal/repository"
)

type fakeLibraryRepo struct {
	exercises map[primitive.ObjectID]domain.LibraryExercise
}

var _ repository.ExerciseLibraryRepository = (*fakeLibraryRepo)(nil)

func newFakeLibraryRepo() *fakeLibraryRepo {
	return &fakeLibraryRepo{exercises: make(map[primitive.ObjectID]domain.LibraryExercise)}
}

func (f *fakeLibraryRepo) Create(ctx context.Context, exercise *domain.LibraryExercise) (primitive.ObjectID, error) {
	exercise.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	exercise.CreatedAt = now
	exercise.UpdatedAt = now
	f.exercises[exercise.ID] = *exercise
	return exercise.ID, nil
}

func (f *fakeLibraryRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.LibraryExercise, error) {
	e, ok := f.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (f *fakeLibraryRepo) List(ctx context.Context) ([]domain.LibraryExercise, error) {
	all := make([]domain.LibraryExercise, 0, len(f.exercises))
	for _, e := range f.exercises {
		all = append(all, e)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all, nil
}

func (f *fakeLibraryRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := f.exercises[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.exercises, id)
	return nil
}

func TestCreateLibraryExercise(t *testing.T) {
	repo := newFakeLibraryRepo()
	svc := NewLibraryService(repo)

	created, err := svc.CreateExercise(context.Background(), LibraryDraft{
		Name:            "Bench Press",
		MainMuscleGroup: "Chest",
		Description:     "Barbell press on a flat bench",
		VideoURL:        "https://videos.example.com/bench",
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.False(t, created.ID.IsZero())
	assert.Equal(t, "Bench Press", created.Name)
	assert.Equal(t, "Chest", created.MainMuscleGroup)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestCreateLibraryExerciseValidation(t *testing.T) {
	svc := NewLibraryService(newFakeLibraryRepo())

	cases := []struct {
		name  string
		draft LibraryDraft
	}{
		{"missing name", LibraryDraft{MainMuscleGroup: "Back"}},
		{"missing muscle group", LibraryDraft{Name: "Row"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateExercise(context.Background(), tc.draft)
			assert.ErrorIs(t, err, ErrLibraryValidation)
		})
	}
}

func TestListLibraryExercisesSortedByName(t *testing.T) {
	repo := newFakeLibraryRepo()
	svc := NewLibraryService(repo)

	for _, name := range []string{"Squat", "Bench Press", "Deadlift"} {
		_, err := svc.CreateExercise(context.Background(), LibraryDraft{Name: name, MainMuscleGroup: "Legs"})
		require.NoError(t, err)
	}

	got, err := svc.ListExercises(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Bench Press", got[0].Name)
	assert.Equal(t, "Deadlift", got[1].Name)
	assert.Equal(t, "Squat", got[2].Name)
}

func TestDeleteLibraryExercise(t *testing.T) {
	repo := newFakeLibraryRepo()
	svc := NewLibraryService(repo)

	created, err := svc.CreateExercise(context.Background(), LibraryDraft{Name: "Plank", MainMuscleGroup: "Core"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteExercise(context.Background(), created.ID))
	assert.Empty(t, repo.exercises)

	err = svc.DeleteExercise(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrLibraryExerciseNotFound)

	err = svc.DeleteExercise(context.Background(), primitive.NilObjectID)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrLibraryExerciseNotFound)
}
