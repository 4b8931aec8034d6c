package domain

import (
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

// Workout is a single diary entry: what the user trained, when, and for how long.
type Workout struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID   primitive.ObjectID `bson:"ownerId" json:"ownerId"` // Every workout belongs to exactly one user
	Title     string             `bson:"title" json:"title"`
	Date      Date               `bson:"date" json:"date"`
	Duration  int                `bson:"duration" json:"duration"` // Minutes
	Exercises []Exercise         `bson:"exercises" json:"exercises"`
	Comments  string             `bson:"comments,omitempty" json:"comments,omitempty"`
	PhotoKey  string             `bson:"photoKey,omitempty" json:"-"` // S3 object key of the progress photo, if any
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Exercise is one exercise within a workout. Order is meaningful.
type Exercise struct {
	Name string `bson:"name" json:"name"`
	Sets []Set  `bson:"sets" json:"sets"`
}

// Set is one set of an exercise. Nil means the user left the field empty.
type Set struct {
	Reps   *int     `bson:"reps,omitempty" json:"reps,omitempty"`
	Weight *float64 `bson:"weight,omitempty" json:"weight,omitempty"`
}

// IsEmpty reports whether both reps and weight were left blank.
func (s Set) IsEmpty() bool {
	return s.Reps == nil && s.Weight == nil
}

// WorkoutDraft carries user-entered workout fields before persistence.
// It never holds an ID: identifiers are assigned by the store on creation.
type WorkoutDraft struct {
	Title     string
	Date      time.Time
	Duration  int
	Exercises []Exercise
	Comments  string
}

// SanitizeExercises drops sets where both reps and weight are empty, then
// drops exercises left with an empty name and no surviving sets. An exercise
// with a name but no sets is kept. Entry order is preserved.
func SanitizeExercises(exercises []Exercise) []Exercise {
	kept := make([]Exercise, 0, len(exercises))
	for _, ex := range exercises {
		sets := make([]Set, 0, len(ex.Sets))
		for _, set := range ex.Sets {
			if !set.IsEmpty() {
				sets = append(sets, set)
			}
		}
		if ex.Name == "" && len(sets) == 0 {
			continue
		}
		kept = append(kept, Exercise{Name: ex.Name, Sets: sets})
	}
	return kept
}

// CloneExercises returns a deep copy, so callers can hand out snapshots
// without sharing the underlying set slices. The reps and weight pointer
// targets are copied too; writing through a clone never reaches the
// original.
func CloneExercises(exercises []Exercise) []Exercise {
	if exercises == nil {
		return nil
	}
	out := make([]Exercise, len(exercises))
	for i, ex := range exercises {
		sets := make([]Set, len(ex.Sets))
		for j, set := range ex.Sets {
			sets[j] = set.clone()
		}
		out[i] = Exercise{Name: ex.Name, Sets: sets}
	}
	return out
}

func (s Set) clone() Set {
	var out Set
	if s.Reps != nil {
		reps := *s.Reps
		out.Reps = &reps
	}
	if s.Weight != nil {
		weight := *s.Weight
		out.Weight = &weight
	}
	return out
}

// Date is a workout's calendar date. Legacy records stored it as an ISO date
// string; newer records store a BSON datetime. Reads accept both, writes
// always produce a datetime.
type Date struct {
	time.Time
}

// NewDate builds a Date normalized to UTC.
func NewDate(t time.Time) Date {
	return Date{Time: t.UTC()}
}

func (d Date) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.TypeDateTime, bsoncore.AppendDateTime(nil, d.Time.UnixMilli()), nil
}

func (d *Date) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bson.TypeDateTime:
		ms, _, ok := bsoncore.ReadDateTime(data)
		if !ok {
			return errors.New("malformed BSON datetime")
		}
		d.Time = time.UnixMilli(ms).UTC()
		return nil
	case bson.TypeString:
		s, _, ok := bsoncore.ReadString(data)
		if !ok {
			return errors.New("malformed BSON string")
		}
		parsed, err := ParseLegacyDate(s)
		if err != nil {
			return err
		}
		d.Time = parsed
		return nil
	case bson.TypeNull:
		d.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("cannot decode BSON %s into a workout date", t)
	}
}

// ParseLegacyDate parses the date strings older records were written with.
func ParseLegacyDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date string %q", s)
}
