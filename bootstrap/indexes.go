package bootstrap

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type collectionIndexes struct {
	collection string
	models     []mongo.IndexModel
}

func newestFirst(field, name string) mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName(name),
	}
}

func unique(field, name string) mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true).SetName(name),
	}
}

func indexPlan() []collectionIndexes {
	return []collectionIndexes{
		{"users", []mongo.IndexModel{
			unique("email", "uniq_email"),
			unique("username", "uniq_username"),
		}},
		{"posts", []mongo.IndexModel{newestFirst("author", "author_created")}},
		{"reels", []mongo.IndexModel{newestFirst("author", "author_created")}},
		{"notifications", []mongo.IndexModel{newestFirst("recipient", "recipient_created")}},
		{"pagevisits", []mongo.IndexModel{newestFirst("user", "user_created")}},
		{"useractivities", []mongo.IndexModel{unique("user", "uniq_user")}},
	}
}

// EnsureIndexes creates the indexes every query path relies on. Existing
// indexes with the same definition are left alone.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for _, ci := range indexPlan() {
		if _, err := db.Collection(ci.collection).Indexes().CreateMany(ctx, ci.models); err != nil {
			return fmt.Errorf("indexes on %s: %w", ci.collection, err)
		}
	}
	return nil
}
