// Package engagement manages the comment -> recomment tree embedded in posts
// and reels: like toggles at both levels, append-only replies and the
// materialization of user references for responses.
package engagement

import (
	"context"

	"github.com/FrankWaweru369/Infinity-backend/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Content is a document that owns an embedded comment tree.
type Content interface {
	ContentID() bson.ObjectID
	AuthorID() bson.ObjectID
	Tree() *models.CommentTree
}

// Store loads and persists one kind of Content.
//
// FindByID returns apperr.NotFound when the document does not exist.
// SaveTree writes the comment tree in a single document update guarded by
// the revision read in FindByID and returns apperr.ErrConflict when the
// document changed in between.
type Store[T Content] interface {
	FindByID(ctx context.Context, id bson.ObjectID) (T, error)
	SaveTree(ctx context.Context, item T) error
}

// Resolver turns user ids into display profiles. Ids without a user are
// absent from the result.
type Resolver interface {
	ResolveProfiles(ctx context.Context, ids []bson.ObjectID) (map[bson.ObjectID]models.Profile, error)
}

// Notifier receives fire-and-forget engagement events.
type Notifier interface {
	Notify(typ models.NotiType, recipient, sender bson.ObjectID, ref models.Ref)
}

type nopNotifier struct{}

func (nopNotifier) Notify(models.NotiType, bson.ObjectID, bson.ObjectID, models.Ref) {}
