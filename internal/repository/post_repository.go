package repository

import (
	"context"
	"strings"
	"time"

	"github.com/FrankWaweru369/Infinity-backend/internal/apperr"
	"github.com/FrankWaweru369/Infinity-backend/internal/cursor"
	"github.com/FrankWaweru369/Infinity-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type PostRepository struct {
	Col *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{Col: db.Collection("posts")}
}

func (r *PostRepository) FindByID(ctx context.Context, id bson.ObjectID) (*models.Post, error) {
	return findOne[models.Post](ctx, r.Col, id, apperr.KindPost)
}

// SaveTree persists p's comment tree if p is still at the stored version.
func (r *PostRepository) SaveTree(ctx context.Context, p *models.Post) error {
	return saveTree(ctx, r.Col, apperr.KindPost, p.ID, p.Version, &p.CommentTree)
}

func (r *PostRepository) Create(ctx context.Context, p *models.Post) error {
	now := time.Now().UTC()
	if p.ID.IsZero() {
		p.ID = bson.NewObjectID()
	}
	p.CreatedAt, p.UpdatedAt = now, now
	p.Version = 0
	if p.Likes == nil {
		p.Likes = models.LikeSet{}
	}
	p.Tree().Recount()

	if _, err := r.Col.InsertOne(ctx, p); err != nil {
		return apperr.Storage("insert post", err)
	}
	return nil
}

// List returns one newest-first page and the cursor of the next one.
func (r *PostRepository) List(ctx context.Context, q models.PostQuery) (items []models.Post, next *string, err error) {
	filter := bson.M{}
	if !q.AuthorID.IsZero() {
		filter["author"] = q.AuthorID
	}
	if term := strings.TrimSpace(q.TextSearch); term != "" {
		filter["content"] = literalMatch(term)
	}
	if q.Cursor != "" {
		t, oid, derr := cursor.Decode(q.Cursor)
		if derr != nil {
			return nil, nil, derr
		}
		for k, v := range cursor.After(t, oid) {
			filter[k] = v
		}
	}
	limit := q.Limit
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit + 1)

	cur, err := r.Col.Find(ctx, filter, opts)
	if err != nil {
		return nil, nil, apperr.Storage("list posts", err)
	}
	defer cur.Close(ctx)

	var all []models.Post
	if err = cur.All(ctx, &all); err != nil {
		return nil, nil, apperr.Storage("list posts", err)
	}

	if int64(len(all)) > limit {
		items = all[:limit]
		last := items[len(items)-1]
		s := cursor.Encode(last.CreatedAt, last.ID)
		next = &s
	} else {
		items = all
	}
	return items, next, nil
}

// ToggleLike flips userID's like on the post and reports the new state.
func (r *PostRepository) ToggleLike(ctx context.Context, id, userID bson.ObjectID) (bool, error) {
	return toggleLike(ctx, r.Col, apperr.KindPost, id, userID)
}

// Update applies an owner edit. Only the author's own post matches.
func (r *PostRepository) Update(ctx context.Context, id, author bson.ObjectID, set bson.M) (*models.Post, error) {
	set["updatedAt"] = time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var out models.Post
	err := r.Col.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "author": author},
		bson.M{"$set": set, "$inc": bson.M{"version": 1}},
		opts,
	).Decode(&out)
	if err == mongo.ErrNoDocuments {
		return nil, r.ownerMiss(ctx, id)
	}
	if err != nil {
		return nil, apperr.Storage("update post", err)
	}
	return &out, nil
}

// Delete removes the author's own post and returns what was removed.
func (r *PostRepository) Delete(ctx context.Context, id, author bson.ObjectID) (*models.Post, error) {
	var out models.Post
	err := r.Col.FindOneAndDelete(ctx, bson.M{"_id": id, "author": author}).Decode(&out)
	if err == mongo.ErrNoDocuments {
		return nil, r.ownerMiss(ctx, id)
	}
	if err != nil {
		return nil, apperr.Storage("delete post", err)
	}
	return &out, nil
}

func (r *PostRepository) ownerMiss(ctx context.Context, id bson.ObjectID) error {
	n, err := r.Col.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Storage("find post", err)
	}
	if n == 0 {
		return apperr.NotFound(apperr.KindPost)
	}
	return apperr.ErrForbidden
}

// Popular ranks posts by likes plus top-level comments.
func (r *PostRepository) Popular(ctx context.Context, limit int64) ([]models.Post, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$addFields", Value: bson.M{
			"engagementScore": bson.M{"$add": bson.A{
				bson.M{"$size": bson.M{"$ifNull": bson.A{"$likes", bson.A{}}}},
				bson.M{"$size": bson.M{"$ifNull": bson.A{"$comments", bson.A{}}}},
			}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "engagementScore", Value: -1}, {Key: "createdAt", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
	}
	cur, err := r.Col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperr.Storage("popular posts", err)
	}
	var out []models.Post
	if err := cur.All(ctx, &out); err != nil {
		return nil, apperr.Storage("popular posts", err)
	}
	return out, nil
}

// Search matches post content case-insensitively. q is taken literally.
func (r *PostRepository) Search(ctx context.Context, q string, limit int64) ([]models.Post, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)
	cur, err := r.Col.Find(ctx, bson.M{
		"content": literalMatch(q),
	}, opts)
	if err != nil {
		return nil, apperr.Storage("search posts", err)
	}
	var out []models.Post
	if err := cur.All(ctx, &out); err != nil {
		return nil, apperr.Storage("search posts", err)
	}
	return out, nil
}
