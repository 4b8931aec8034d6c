package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LibraryExercise is one entry in the shared exercise library: a named
// movement with its main muscle group and optional reference material.
// The library is global, not per user; only admins may change it.
type LibraryExercise struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name"`
	MainMuscleGroup string             `bson:"mainMuscleGroup" json:"mainMuscleGroup"`
	Description     string             `bson:"description,omitempty" json:"description,omitempty"`
	VideoURL        string             `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
	ImageURL        string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
