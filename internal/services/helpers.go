package services

import (
	"context"

	"github.com/FrankWaweru369/Infinity-backend/internal/engagement"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// lookup resolves ids in one batch for a single response.
func lookup(ctx context.Context, r engagement.Resolver, ids []bson.ObjectID) (engagement.Directory, error) {
	return engagement.NewMaterializer(r).Lookup(ctx, ids)
}
