package repositories

import (
	"context"
	"time"

	"github.com/anik-barua/devlink/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProfileRepository defines the interface for profile data operations
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*models.Profile, error)
	GetAll(ctx context.Context) ([]models.Profile, error)
	Upsert(ctx context.Context, userID uint, fields bson.M) (*models.Profile, error)
	AddExperience(ctx context.Context, userID uint, exp models.Experience) error
	RemoveExperience(ctx context.Context, userID uint, id string) error
	AddEducation(ctx context.Context, userID uint, edu models.Education) error
	RemoveEducation(ctx context.Context, userID uint, id string) error
	DeleteByUserID(ctx context.Context, userID uint) error
}

// MongoProfileRepository implements ProfileRepository for MongoDB
type MongoProfileRepository struct {
	collection *mongo.Collection
}

// NewMongoProfileRepository creates a new MongoProfileRepository
func NewMongoProfileRepository(db *mongo.Database) *MongoProfileRepository {
	return &MongoProfileRepository{collection: db.Collection("profiles")}
}

// GetByUserID retrieves the profile owned by a user
func (r *MongoProfileRepository) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	var profile models.Profile
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// GetAll retrieves all profiles
func (r *MongoProfileRepository) GetAll(ctx context.Context) ([]models.Profile, error) {
	var profiles []models.Profile
	cursor, err := r.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// Upsert applies the given field set to the user's profile, creating the
// document when none exists. Absent fields keep their prior values. The
// whole operation is one atomic document write.
func (r *MongoProfileRepository) Upsert(ctx context.Context, userID uint, fields bson.M) (*models.Profile, error) {
	fields["updated_at"] = time.Now()
	update := bson.M{
		"$set": fields,
		"$setOnInsert": bson.M{
			"user_id":    userID,
			"experience": []models.Experience{},
			"education":  []models.Education{},
			"created_at": time.Now(),
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var profile models.Profile
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"user_id": userID}, update, opts).Decode(&profile)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// AddExperience prepends a work history entry so the list stays
// most-recent-first
func (r *MongoProfileRepository) AddExperience(ctx context.Context, userID uint, exp models.Experience) error {
	update := bson.M{
		"$push": bson.M{
			"experience": bson.M{"$each": []models.Experience{exp}, "$position": 0},
		},
		"$set": bson.M{"updated_at": time.Now()},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"user_id": userID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveExperience removes exactly the entry with the given id
func (r *MongoProfileRepository) RemoveExperience(ctx context.Context, userID uint, id string) error {
	return r.pullEntry(ctx, userID, "experience", id)
}

// AddEducation prepends a schooling entry so the list stays
// most-recent-first
func (r *MongoProfileRepository) AddEducation(ctx context.Context, userID uint, edu models.Education) error {
	update := bson.M{
		"$push": bson.M{
			"education": bson.M{"$each": []models.Education{edu}, "$position": 0},
		},
		"$set": bson.M{"updated_at": time.Now()},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"user_id": userID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveEducation removes exactly the entry with the given id
func (r *MongoProfileRepository) RemoveEducation(ctx context.Context, userID uint, id string) error {
	return r.pullEntry(ctx, userID, "education", id)
}

func (r *MongoProfileRepository) pullEntry(ctx context.Context, userID uint, field, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	// No $set here: ModifiedCount must reflect the pull alone so a
	// missing entry surfaces as not found.
	update := bson.M{"$pull": bson.M{field: bson.M{"_id": objID}}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"user_id": userID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 || res.ModifiedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByUserID deletes the user's profile document
func (r *MongoProfileRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"user_id": userID})
	return err
}
