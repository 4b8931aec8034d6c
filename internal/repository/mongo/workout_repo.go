package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"vmarinov/fitness-diary/internal/domain"
	"vmarinov/fitness-diary/internal/repository"
)

const workoutCollectionName = "workouts"

// mongoWorkoutRepository implements repository.WorkoutRepository
type mongoWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutRepository creates a new Workout repository.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		collection: db.Collection(workoutCollectionName),
	}
}

// Create inserts a new workout. The ID and creation timestamp are assigned
// here, never by the caller.
func (r *mongoWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	if workout.OwnerID == primitive.NilObjectID || workout.Title == "" {
		return primitive.NilObjectID, errors.New("workout requires ownerId and title")
	}
	workout.ID = primitive.NewObjectID()
	workout.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, workout)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted workout ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single workout, scoped to its owner. A workout that
// exists but belongs to someone else reads as not found.
func (r *mongoWorkoutRepository) GetByID(ctx context.Context, ownerID, id primitive.ObjectID) (*domain.Workout, error) {
	var workout domain.Workout
	filter := bson.M{"_id": id, "ownerId": ownerID}
	err := r.collection.FindOne(ctx, filter).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

// GetPageByOwner returns up to limit workouts for the owner, newest date
// first with _id as the tie-breaker, starting strictly after the cursor
// when one is given.
func (r *mongoWorkoutRepository) GetPageByOwner(ctx context.Context, ownerID primitive.ObjectID, limit int64, after *repository.Cursor) ([]domain.Workout, error) {
	filter := bson.M{"ownerId": ownerID}
	if after != nil {
		cursorDate := primitive.NewDateTimeFromTime(after.Date)
		filter = bson.M{
			"ownerId": ownerID,
			"$or": bson.A{
				bson.M{"date": bson.M{"$lt": cursorDate}},
				bson.M{"date": cursorDate, "_id": bson.M{"$lt": after.ID}},
			},
		}
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var workouts []domain.Workout
	if err = cursor.All(ctx, &workouts); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return workouts, nil
}

// Update performs a full replace of the workout's user-editable fields.
// OwnerID and createdAt are deliberately never rewritten.
func (r *mongoWorkoutRepository) Update(ctx context.Context, workout *domain.Workout) error {
	if workout.ID == primitive.NilObjectID || workout.OwnerID == primitive.NilObjectID {
		return errors.New("workout ID and owner ID are required for update")
	}

	filter := bson.M{"_id": workout.ID, "ownerId": workout.OwnerID}
	updateDoc := bson.M{
		"$set": bson.M{
			"title":     workout.Title,
			"date":      workout.Date,
			"duration":  workout.Duration,
			"exercises": workout.Exercises,
			"comments":  workout.Comments,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		// Missing, or owned by another user.
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a workout, ensuring it belongs to the given owner.
func (r *mongoWorkoutRepository) Delete(ctx context.Context, ownerID, id primitive.ObjectID) error {
	if id == primitive.NilObjectID || ownerID == primitive.NilObjectID {
		return errors.New("workout ID and owner ID are required for deletion")
	}

	filter := bson.M{"_id": id, "ownerId": ownerID}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetPhotoKey records the S3 object key of the workout's progress photo.
// An empty key clears it.
func (r *mongoWorkoutRepository) SetPhotoKey(ctx context.Context, ownerID, id primitive.ObjectID, photoKey string) error {
	filter := bson.M{"_id": id, "ownerId": ownerID}

	var updateDoc bson.M
	if photoKey == "" {
		updateDoc = bson.M{"$unset": bson.M{"photoKey": ""}}
	} else {
		updateDoc = bson.M{"$set": bson.M{"photoKey": photoKey}}
	}

	result, err := r.collection.UpdateOne(ctx, filter, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureWorkoutIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Covers the paginated history query: owner scope, date
			// descending, _id tie-break.
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "date", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index(),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Error().Err(err).Str("collection", collection.Name()).Msg("failed to create indexes")
	}
}
