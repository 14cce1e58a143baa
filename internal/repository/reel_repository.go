package repository

import (
	"context"
	"time"

	"github.com/FrankWaweru369/Infinity-backend/internal/apperr"
	"github.com/FrankWaweru369/Infinity-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type ReelRepository struct {
	Col *mongo.Collection
}

func NewReelRepository(db *mongo.Database) *ReelRepository {
	return &ReelRepository{Col: db.Collection("reels")}
}

func (r *ReelRepository) FindByID(ctx context.Context, id bson.ObjectID) (*models.Reel, error) {
	return findOne[models.Reel](ctx, r.Col, id, apperr.KindReel)
}

func (r *ReelRepository) SaveTree(ctx context.Context, reel *models.Reel) error {
	return saveTree(ctx, r.Col, apperr.KindReel, reel.ID, reel.Version, &reel.CommentTree)
}

func (r *ReelRepository) Create(ctx context.Context, reel *models.Reel) error {
	now := time.Now().UTC()
	if reel.ID.IsZero() {
		reel.ID = bson.NewObjectID()
	}
	if reel.Music == "" {
		reel.Music = models.DefaultReelMusic
	}
	if reel.Likes == nil {
		reel.Likes = models.LikeSet{}
	}
	reel.CreatedAt, reel.UpdatedAt = now, now
	reel.Version = 0
	reel.Tree().Recount()

	if _, err := r.Col.InsertOne(ctx, reel); err != nil {
		return apperr.Storage("insert reel", err)
	}
	return nil
}

// Page returns reels newest first for a 1-based page, plus the total count.
func (r *ReelRepository) Page(ctx context.Context, filter bson.M, page, limit int64) ([]models.Reel, int64, error) {
	if filter == nil {
		filter = bson.M{}
	}
	total, err := r.Col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, apperr.Storage("count reels", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)
	cur, err := r.Col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, apperr.Storage("list reels", err)
	}
	var out []models.Reel
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, apperr.Storage("list reels", err)
	}
	return out, total, nil
}

func (r *ReelRepository) ListByAuthor(ctx context.Context, author bson.ObjectID) ([]models.Reel, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.Col.Find(ctx, bson.M{"author": author}, opts)
	if err != nil {
		return nil, apperr.Storage("list reels", err)
	}
	var out []models.Reel
	if err := cur.All(ctx, &out); err != nil {
		return nil, apperr.Storage("list reels", err)
	}
	return out, nil
}

// IncViews bumps the view counter and returns the updated reel.
func (r *ReelRepository) IncViews(ctx context.Context, id bson.ObjectID) (*models.Reel, error) {
	return r.inc(ctx, id, "views")
}

func (r *ReelRepository) IncShares(ctx context.Context, id bson.ObjectID) (*models.Reel, error) {
	return r.inc(ctx, id, "shares")
}

// Counters do not bump version: the comment tree is untouched.
func (r *ReelRepository) inc(ctx context.Context, id bson.ObjectID, field string) (*models.Reel, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var out models.Reel
	err := r.Col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{field: 1}}, opts).Decode(&out)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFound(apperr.KindReel)
	}
	if err != nil {
		return nil, apperr.Storage("update reel "+field, err)
	}
	return &out, nil
}

func (r *ReelRepository) ToggleLike(ctx context.Context, id, userID bson.ObjectID) (bool, error) {
	return toggleLike(ctx, r.Col, apperr.KindReel, id, userID)
}

// Delete removes a reel. Only its author may do so.
func (r *ReelRepository) Delete(ctx context.Context, id, author bson.ObjectID) (*models.Reel, error) {
	reel, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reel.Author != author {
		return nil, apperr.ErrForbidden
	}
	res, err := r.Col.DeleteOne(ctx, bson.M{"_id": id, "author": author})
	if err != nil {
		return nil, apperr.Storage("delete reel", err)
	}
	if res.DeletedCount == 0 {
		return nil, apperr.NotFound(apperr.KindReel)
	}
	return reel, nil
}

// SetOptimized stores the quality renditions of a reel.
func (r *ReelRepository) SetOptimized(ctx context.Context, id bson.ObjectID, urls models.VideoURLs, at time.Time) error {
	res, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"videoUrls":   urls,
		"isOptimized": true,
		"optimizedAt": at,
		"updatedAt":   at,
	}})
	if err != nil {
		return apperr.Storage("optimize reel", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound(apperr.KindReel)
	}
	return nil
}
