package drives

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "github.com/xyz-asif/civicgo/pkg/errors"
)

type Repository struct {
	collection *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	collection := db.Collection("drives")

	collection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "date", Value: 1}}},
	})

	return &Repository{collection: collection}
}

func (r *Repository) Insert(ctx context.Context, drive *Drive) error {
	now := time.Now()
	drive.CreatedAt = now
	drive.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, drive)
	if err != nil {
		return apperrors.FromMongo(err)
	}
	drive.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id primitive.ObjectID) (*Drive, error) {
	var drive Drive
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&drive)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, apperrors.FromMongo(err)
	}
	return &drive, nil
}

// List returns drives soonest first.
func (r *Repository) List(ctx context.Context, limit int64) ([]Drive, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, apperrors.FromMongo(err)
	}
	defer cursor.Close(ctx)

	var items []Drive
	if err := cursor.All(ctx, &items); err != nil {
		return nil, apperrors.FromMongo(err)
	}
	if items == nil {
		items = []Drive{}
	}
	return items, nil
}

// ListUpcoming returns drives with status upcoming and a future date.
func (r *Repository) ListUpcoming(ctx context.Context, limit int64) ([]Drive, error) {
	filter := bson.M{
		"status": StatusUpcoming,
		"date":   bson.M{"$gte": time.Now()},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperrors.FromMongo(err)
	}
	defer cursor.Close(ctx)

	var items []Drive
	if err := cursor.All(ctx, &items); err != nil {
		return nil, apperrors.FromMongo(err)
	}
	if items == nil {
		items = []Drive{}
	}
	return items, nil
}

// Join appends the user and bumps participantCount in one conditional
// update. The filter rejects documents where the user is already a member or
// the capacity is reached, so the check and the write are a single atomic
// operation; racing joins near the cap cannot both match.
func (r *Repository) Join(ctx context.Context, id primitive.ObjectID, userID string) (bool, error) {
	filter := bson.M{
		"_id":          id,
		"participants": bson.M{"$ne": userID},
		"$expr": bson.M{"$or": bson.A{
			bson.M{"$lte": bson.A{"$maxParticipants", 0}},
			bson.M{"$lt": bson.A{"$participantCount", "$maxParticipants"}},
		}},
	}
	update := bson.M{
		"$push": bson.M{"participants": userID},
		"$inc":  bson.M{"participantCount": 1},
		"$set":  bson.M{"updatedAt": time.Now()},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, apperrors.FromMongo(err)
	}
	return result.ModifiedCount == 1, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"status": status, "updatedAt": time.Now()},
	})
	if err != nil {
		return apperrors.FromMongo(err)
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperrors.FromMongo(err)
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
