package repository

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/FrankWaweru369/Infinity-backend/internal/apperr"
	"github.com/FrankWaweru369/Infinity-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// isDuplicateKey reports a unique index violation (code 11000).
func isDuplicateKey(err error) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	return mongo.IsDuplicateKeyError(err)
}

// literalMatch matches q anywhere in a field, ignoring case. Regex
// metacharacters in q match themselves.
func literalMatch(q string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(q), "$options": "i"}
}

// findOne decodes a single document by id, mapping a miss to NotFound(kind).
func findOne[T any](ctx context.Context, col *mongo.Collection, id bson.ObjectID, kind string) (*T, error) {
	var out T
	err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound(kind)
	}
	if err != nil {
		return nil, apperr.Storage("find "+kind, err)
	}
	return &out, nil
}

// versionFilter matches a content document still at the given version.
// Documents written before versioning carry no field and count as 0.
func versionFilter(id bson.ObjectID, version int64) bson.M {
	if version == 0 {
		return bson.M{
			"_id": id,
			"$or": []bson.M{
				{"version": 0},
				{"version": bson.M{"$exists": false}},
			},
		}
	}
	return bson.M{"_id": id, "version": version}
}

// saveTree writes a comment tree back under the version guard. A guard miss
// on an existing document is a conflict; a missing document is NotFound.
func saveTree(ctx context.Context, col *mongo.Collection, kind string, id bson.ObjectID, version int64, tree *models.CommentTree) error {
	res, err := col.UpdateOne(ctx, versionFilter(id, version), bson.M{
		"$set": bson.M{"comments": tree.Comments, "updatedAt": time.Now().UTC()},
		"$inc": bson.M{"version": 1},
	})
	if err != nil {
		return apperr.Storage("save "+kind+" comments", err)
	}
	if res.MatchedCount == 0 {
		n, err := col.CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return apperr.Storage("save "+kind+" comments", err)
		}
		if n == 0 {
			return apperr.NotFound(kind)
		}
		return apperr.ErrConflict
	}
	return nil
}

// toggleLike adds userID to the content's likes, or removes it when already
// present. Each branch is a single conditional update, so concurrent togglers
// never lose each other's writes.
func toggleLike(ctx context.Context, col *mongo.Collection, kind string, id, userID bson.ObjectID) (liked bool, err error) {
	// Two rounds cover a concurrent toggle landing between the branches.
	for i := 0; i < 2; i++ {
		now := time.Now().UTC()
		res, err := col.UpdateOne(ctx,
			bson.M{"_id": id, "likes": bson.M{"$ne": userID}},
			bson.M{
				"$addToSet": bson.M{"likes": userID},
				"$set":      bson.M{"updatedAt": now},
				"$inc":      bson.M{"version": 1},
			})
		if err != nil {
			return false, apperr.Storage("like "+kind, err)
		}
		if res.MatchedCount == 1 {
			return true, nil
		}

		res, err = col.UpdateOne(ctx,
			bson.M{"_id": id, "likes": userID},
			bson.M{
				"$pull": bson.M{"likes": userID},
				"$set":  bson.M{"updatedAt": now},
				"$inc":  bson.M{"version": 1},
			})
		if err != nil {
			return false, apperr.Storage("unlike "+kind, err)
		}
		if res.MatchedCount == 1 {
			return false, nil
		}

		n, err := col.CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return false, apperr.Storage("like "+kind, err)
		}
		if n == 0 {
			return false, apperr.NotFound(kind)
		}
	}
	return false, apperr.ErrConflict
}
