package issues

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
	issues   *mongo.Collection
	comments *mongo.Collection
	upvotes  *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	issues := db.Collection("issues")
	comments := db.Collection("issueComments")
	upvotes := db.Collection("issueUpvotes")

	issues.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})

	comments.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "issueId", Value: 1}, {Key: "createdAt", Value: -1}},
	})

	// One upvote per (issue, user); violations surface as duplicate key errors
	upvotes.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "issueId", Value: 1}, {Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	return &Repository{issues: issues, comments: comments, upvotes: upvotes}
}

func (r *Repository) Insert(ctx context.Context, issue *Issue) error {
	now := time.Now()
	issue.CreatedAt = now
	issue.UpdatedAt = now

	result, err := r.issues.InsertOne(ctx, issue)
	if err != nil {
		return apperrors.FromMongo(err)
	}
	issue.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id primitive.ObjectID) (*Issue, error) {
	var issue Issue
	err := r.issues.FindOne(ctx, bson.M{"_id": id}).Decode(&issue)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, apperrors.FromMongo(err)
	}
	return &issue, nil
}

// List returns issues newest first.
func (r *Repository) List(ctx context.Context, limit int64) ([]Issue, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.issues.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, apperrors.FromMongo(err)
	}
	defer cursor.Close(ctx)

	var items []Issue
	if err := cursor.All(ctx, &items); err != nil {
		return nil, apperrors.FromMongo(err)
	}
	if items == nil {
		items = []Issue{}
	}
	return items, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]Issue, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.issues.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, apperrors.FromMongo(err)
	}
	defer cursor.Close(ctx)

	var items []Issue
	if err := cursor.All(ctx, &items); err != nil {
		return nil, apperrors.FromMongo(err)
	}
	if items == nil {
		items = []Issue{}
	}
	return items, nil
}

// UpdateStatus sets the new status, stamps or clears resolvedOn, optionally
// replaces the image list, and appends the log entry in the same write.
func (r *Repository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string, images []string, entry Update) error {
	set := bson.M{
		"status":    status,
		"updatedAt": time.Now(),
	}
	if images != nil {
		set["images"] = images
	}

	update := bson.M{
		"$set":  set,
		"$push": bson.M{"updates": entry},
	}
	if status == StatusResolved {
		set["resolvedOn"] = time.Now()
	} else {
		update["$unset"] = bson.M{"resolvedOn": ""}
	}

	result, err := r.issues.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return apperrors.FromMongo(err)
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MarkVerified flips the verified latch. The filter embeds both
// preconditions, so the check and the write are one atomic operation; a
// second concurrent verify matches zero documents.
func (r *Repository) MarkVerified(ctx context.Context, id primitive.ObjectID, entry Update) (bool, error) {
	filter := bson.M{
		"_id":      id,
		"verified": false,
		"status":   StatusResolved,
	}
	update := bson.M{
		"$set":  bson.M{"verified": true, "updatedAt": time.Now()},
		"$push": bson.M{"updates": entry},
	}

	result, err := r.issues.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, apperrors.FromMongo(err)
	}
	return result.ModifiedCount == 1, nil
}

func (r *Repository) AddImage(ctx context.Context, id primitive.ObjectID, imageURL string) error {
	result, err := r.issues.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"images": imageURL},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		return apperrors.FromMongo(err)
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// RemoveImage pulls the URL from the image list and appends the log entry.
func (r *Repository) RemoveImage(ctx context.Context, id primitive.ObjectID, imageURL string, entry Update) error {
	result, err := r.issues.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$pull": bson.M{"images": imageURL},
		"$push": bson.M{"updates": entry},
		"$set":  bson.M{"updatedAt": time.Now()},
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
	result, err := r.issues.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperrors.FromMongo(err)
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteComments(ctx context.Context, issueID primitive.ObjectID) error {
	_, err := r.comments.DeleteMany(ctx, bson.M{"issueId": issueID})
	if err != nil {
		return apperrors.FromMongo(err)
	}
	return nil
}

func (r *Repository) DeleteUpvotes(ctx context.Context, issueID primitive.ObjectID) error {
	_, err := r.upvotes.DeleteMany(ctx, bson.M{"issueId": issueID})
	if err != nil {
		return apperrors.FromMongo(err)
	}
	return nil
}

func (r *Repository) InsertComment(ctx context.Context, comment *Comment) error {
	comment.CreatedAt = time.Now()

	result, err := r.comments.InsertOne(ctx, comment)
	if err != nil {
		return apperrors.FromMongo(err)
	}
	comment.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// ListComments returns an issue's comments newest first.
func (r *Repository) ListComments(ctx context.Context, issueID primitive.ObjectID, limit, skip int64) ([]Comment, int64, error) {
	filter := bson.M{"issueId": issueID}

	total, err := r.comments.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.FromMongo(err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit).
		SetSkip(skip)

	cursor, err := r.comments.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, apperrors.FromMongo(err)
	}
	defer cursor.Close(ctx)

	var items []Comment
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, apperrors.FromMongo(err)
	}
	if items == nil {
		items = []Comment{}
	}
	return items, total, nil
}

// InsertUpvote records the per-user marker. The unique (issueId, userId)
// index turns a repeat upvote into ErrAlreadyUpvoted.
func (r *Repository) InsertUpvote(ctx context.Context, issueID primitive.ObjectID, userID string) error {
	_, err := r.upvotes.InsertOne(ctx, &UpvoteMarker{
		IssueID:   issueID,
		UserID:    userID,
		CreatedAt: time.Now(),
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.ErrAlreadyUpvoted
		}
		return apperrors.FromMongo(err)
	}
	return nil
}

func (r *Repository) IncrementUpvotes(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.issues.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"upvotes": 1},
		"$set": bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		return apperrors.FromMongo(err)
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Watch opens a change stream over the issues collection and forwards
// notifications until ctx is cancelled.
func (r *Repository) Watch(ctx context.Context, events chan<- Event) error {
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	stream, err := r.issues.Watch(ctx, mongo.Pipeline{}, opts)
	if err != nil {
		return apperrors.FromMongo(err)
	}
	defer stream.Close(ctx)

	for stream.Next(ctx) {
		var change struct {
			OperationType string `bson:"operationType"`
			DocumentKey   struct {
				ID primitive.ObjectID `bson:"_id"`
			} `bson:"documentKey"`
			FullDocument *Issue `bson:"fullDocument"`
		}
		if err := stream.Decode(&change); err != nil {
			continue
		}

		event := Event{
			Type:  change.OperationType,
			Issue: change.FullDocument,
			ID:    change.DocumentKey.ID.Hex(),
		}

		select {
		case events <- event:
		case <-ctx.Done():
			return nil
		}
	}
	return apperrors.FromMongo(stream.Err())
}
