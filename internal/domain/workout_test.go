package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestSanitizeExercises(t *testing.T) {
	exercises := []Exercise{
		{Name: "Squat", Sets: []Set{{Reps: intPtr(5), Weight: floatPtr(100)}}},
		// Empty name and only empty sets: dropped entirely.
		{Name: "", Sets: []Set{{}, {}}},
		// Named but all sets empty: the exercise stays, its sets go.
		{Name: "Plank", Sets: []Set{{}}},
		// Unnamed but a set has data: kept.
		{Name: "", Sets: []Set{{Reps: intPtr(10)}}},
		// Mixed sets: only the filled ones survive.
		{Name: "Bench", Sets: []Set{{}, {Weight: floatPtr(60)}, {}}},
	}

	got := SanitizeExercises(exercises)

	require.Len(t, got, 4)
	assert.Equal(t, "Squat", got[0].Name)
	assert.Len(t, got[0].Sets, 1)

	assert.Equal(t, "Plank", got[1].Name)
	assert.Empty(t, got[1].Sets)

	assert.Equal(t, "", got[2].Name)
	require.Len(t, got[2].Sets, 1)
	assert.Equal(t, 10, *got[2].Sets[0].Reps)

	assert.Equal(t, "Bench", got[3].Name)
	require.Len(t, got[3].Sets, 1)
	assert.Equal(t, 60.0, *got[3].Sets[0].Weight)
}

func TestSanitizeExercisesKeepsOrder(t *testing.T) {
	exercises := []Exercise{
		{Name: "C", Sets: []Set{{Reps: intPtr(1)}}},
		{Name: "A", Sets: []Set{{Reps: intPtr(2)}}},
		{Name: "B", Sets: []Set{{Reps: intPtr(3)}}},
	}
	got := SanitizeExercises(exercises)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"C", "A", "B"}, []string{got[0].Name, got[1].Name, got[2].Name})
}

func TestCloneExercisesIsDeep(t *testing.T) {
	original := []Exercise{
		{Name: "Squat", Sets: []Set{{Reps: intPtr(5)}}},
	}
	clone := CloneExercises(original)

	clone[0].Name = "Deadlift"
	clone[0].Sets[0] = Set{Reps: intPtr(99)}

	assert.Equal(t, "Squat", original[0].Name)
	assert.Equal(t, 5, *original[0].Sets[0].Reps)

	assert.Nil(t, CloneExercises(nil))
}

func TestCloneExercisesCopiesSetValues(t *testing.T) {
	original := []Exercise{
		{Name: "Bench", Sets: []Set{{Reps: intPtr(8), Weight: floatPtr(60)}}},
	}
	clone := CloneExercises(original)

	// Writing through the clone's pointers must not reach the original.
	*clone[0].Sets[0].Reps = 999
	*clone[0].Sets[0].Weight = 1.5

	assert.Equal(t, 8, *original[0].Sets[0].Reps)
	assert.Equal(t, 60.0, *original[0].Sets[0].Weight)
}

type dateDoc struct {
	Date Date `bson:"date"`
}

func TestDateDecodesNativeTimestamp(t *testing.T) {
	when := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	raw, err := bson.Marshal(dateDoc{Date: NewDate(when)})
	require.NoError(t, err)

	var got dateDoc
	require.NoError(t, bson.Unmarshal(raw, &got))
	assert.True(t, got.Date.Equal(when), "got %v", got.Date)
}

func TestDateDecodesLegacyString(t *testing.T) {
	for _, legacy := range []string{"2024-01-01", "2024-01-01T00:00:00Z"} {
		raw, err := bson.Marshal(bson.M{"date": legacy})
		require.NoError(t, err)

		var got dateDoc
		require.NoError(t, bson.Unmarshal(raw, &got))
		assert.Equal(t, 2024, got.Date.Year())
		assert.Equal(t, time.January, got.Date.Month())
	}
}

func TestDateRejectsUnknownShapes(t *testing.T) {
	raw, err := bson.Marshal(bson.M{"date": int64(42)})
	require.NoError(t, err)

	var got dateDoc
	assert.Error(t, bson.Unmarshal(raw, &got))
}

func TestParseLegacyDate(t *testing.T) {
	_, err := ParseLegacyDate("not a date")
	assert.Error(t, err)

	parsed, err := ParseLegacyDate("2025-06-07")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC), parsed)
}
