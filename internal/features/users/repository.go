package users

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "github.com/xyz-asif/civicgo/pkg/errors"
)

type Repository struct {
	collection *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	collection := db.Collection("users")

	// Leaderboard and rank queries sort/count on points
	collection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "points", Value: -1}}},
		{Keys: bson.D{{Key: "email", Value: 1}}},
	})

	return &Repository{collection: collection}
}

// GetOrCreate returns the profile for the given ID, creating it atomically
// from the seed when absent. Two concurrent first accesses converge on one
// document because the upsert is keyed by _id.
func (r *Repository) GetOrCreate(ctx context.Context, seed *UserProfile) (*UserProfile, error) {
	now := time.Now()

	filter := bson.M{"_id": seed.ID}
	update := bson.M{"$setOnInsert": bson.M{
		"name":           seed.Name,
		"email":          seed.Email,
		"avatar":         seed.Avatar,
		"points":         0,
		"issuesReported": 0,
		"issuesResolved": 0,
		"verifications":  0,
		"createdAt":      now,
		"updatedAt":      now,
	}}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var profile UserProfile
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&profile); err != nil {
		return nil, apperrors.FromMongo(err)
	}
	return &profile, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*UserProfile, error) {
	var profile UserProfile
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, apperrors.FromMongo(err)
	}
	return &profile, nil
}

// UpdateProfile applies an explicit edit (name/avatar). Empty fields are
// left untouched.
func (r *Repository) UpdateProfile(ctx context.Context, id string, req *UpdateProfileRequest) error {
	set := bson.M{"updatedAt": time.Now()}
	if req.Name != "" {
		set["name"] = req.Name
	}
	if req.Avatar != "" {
		set["avatar"] = req.Avatar
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return apperrors.FromMongo(err)
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ApplyStats applies a stats delta as one `$inc` update. This is the only
// write path for points and counters; concurrent deltas commute at the
// store, so no increment is ever lost.
func (r *Repository) ApplyStats(ctx context.Context, id string, delta StatsDelta) error {
	inc := bson.M{}
	if delta.Points != 0 {
		inc["points"] = delta.Points
	}
	if delta.IssuesReported != 0 {
		inc["issuesReported"] = delta.IssuesReported
	}
	if delta.IssuesResolved != 0 {
		inc["issuesResolved"] = delta.IssuesResolved
	}
	if delta.Verifications != 0 {
		inc["verifications"] = delta.Verifications
	}
	if len(inc) == 0 {
		return nil
	}

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$inc": inc, "$set": bson.M{"updatedAt": time.Now()}},
	)
	if err != nil {
		return apperrors.FromMongo(err)
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Leaderboard returns the top profiles by points, descending.
func (r *Repository) Leaderboard(ctx context.Context, limit int) ([]UserProfile, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "points", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, apperrors.FromMongo(err)
	}
	defer cursor.Close(ctx)

	var profiles []UserProfile
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, apperrors.FromMongo(err)
	}
	if profiles == nil {
		profiles = []UserProfile{}
	}
	return profiles, nil
}

// CountWithMorePoints counts users strictly above the given total. The rank
// derived from it is a point-in-time snapshot, not a maintained index; ties
// carry no defined order.
func (r *Repository) CountWithMorePoints(ctx context.Context, points int) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"points": bson.M{"$gt": points}})
	if err != nil {
		return 0, apperrors.FromMongo(err)
	}
	return count, nil
}
