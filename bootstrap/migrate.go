package bootstrap

import (
	"context"
	"fmt"

	"github.com/FrankWaweru369/Infinity-backend/internal/apperr"
	"github.com/FrankWaweru369/Infinity-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"
)

// anonymousFilter matches content holding a comment or recomment whose author
// is null or missing.
var anonymousFilter = bson.M{"$or": []bson.M{
	{"comments.user": nil},
	{"comments.recomments.user": nil},
}}

// treeDoc is what the migration needs from a post or reel pointer.
type treeDoc[D any] interface {
	*D
	Tree() *models.CommentTree
	ContentID() bson.ObjectID
}

// TreeSaver persists a repaired comment tree under the version guard.
type TreeSaver[T any] interface {
	SaveTree(ctx context.Context, doc T) error
}

// Report counts what the migration found (and, unless dry, removed).
type Report struct {
	Collection string
	Documents  int
	Comments   int
	Recomments int
	Skipped    int
}

func (r Report) String() string {
	return fmt.Sprintf("%s: %d documents, %d comments, %d recomments, %d skipped",
		r.Collection, r.Documents, r.Comments, r.Recomments, r.Skipped)
}

// DropAnonymousComments scans col for comment trees with authorless nodes.
// In dry mode it only counts them; otherwise each tree is repaired and saved.
// Documents that changed under the scan are skipped and logged.
func DropAnonymousComments[D any, P treeDoc[D]](ctx context.Context, col *mongo.Collection, saver TreeSaver[P], dry bool, log *zap.Logger) (Report, error) {
	rep := Report{Collection: col.Name()}
	cur, err := col.Find(ctx, anonymousFilter)
	if err != nil {
		return rep, apperr.Storage("scan "+col.Name(), err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		doc := P(new(D))
		if err := cur.Decode(doc); err != nil {
			return rep, apperr.Storage("decode "+col.Name(), err)
		}
		comments, recomments := doc.Tree().DropAnonymous()
		if comments+recomments == 0 {
			continue
		}
		rep.Documents++
		rep.Comments += comments
		rep.Recomments += recomments
		if dry {
			continue
		}

		doc.Tree().Recount()
		if err := saver.SaveTree(ctx, doc); err != nil {
			if apperr.IsDomain(err) {
				rep.Skipped++
				log.Warn("comment tree not repaired",
					zap.String("collection", col.Name()),
					zap.String("id", doc.ContentID().Hex()),
					zap.Error(err))
				continue
			}
			return rep, err
		}
	}
	if err := cur.Err(); err != nil {
		return rep, apperr.Storage("scan "+col.Name(), err)
	}
	return rep, nil
}
