package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/FrankWaweru369/Infinity-backend/internal/models"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

// ProfileSource is the authoritative lookup behind the cache.
type ProfileSource interface {
	ProfilesByIDs(ctx context.Context, ids []bson.ObjectID) (map[bson.ObjectID]models.Profile, error)
}

// IdentityService resolves user ids to display profiles, read-through a
// Redis cache when one is configured. A nil client disables caching.
type IdentityService struct {
	src ProfileSource
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

func NewIdentityService(src ProfileSource, rdb *redis.Client, ttl time.Duration, log *zap.Logger) *IdentityService {
	if log == nil {
		log = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &IdentityService{src: src, rdb: rdb, ttl: ttl, log: log}
}

func profileKey(id bson.ObjectID) string { return "profile:" + id.Hex() }

// ResolveProfiles returns the profiles of every id that exists. Cache
// failures degrade to the store; store failures are returned.
func (s *IdentityService) ResolveProfiles(ctx context.Context, ids []bson.ObjectID) (map[bson.ObjectID]models.Profile, error) {
	out := make(map[bson.ObjectID]models.Profile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	if s.rdb == nil {
		return s.src.ProfilesByIDs(ctx, ids)
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = profileKey(id)
	}
	missing := ids
	vals, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		s.log.Warn("profile cache read failed", zap.Error(err))
	} else {
		missing = missing[:0:0]
		for i, v := range vals {
			raw, ok := v.(string)
			var p models.Profile
			if !ok || json.Unmarshal([]byte(raw), &p) != nil {
				missing = append(missing, ids[i])
				continue
			}
			out[ids[i]] = p
		}
	}
	if len(missing) == 0 {
		return out, nil
	}

	found, err := s.src.ProfilesByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	pipe := s.rdb.Pipeline()
	for id, p := range found {
		out[id] = p
		if b, err := json.Marshal(p); err == nil {
			pipe.Set(ctx, profileKey(id), b, s.ttl)
		}
	}
	if len(found) > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			s.log.Warn("profile cache write failed", zap.Error(err))
		}
	}
	return out, nil
}

// Invalidate drops a cached profile after the user edits it.
func (s *IdentityService) Invalidate(ctx context.Context, id bson.ObjectID) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, profileKey(id)).Err(); err != nil {
		s.log.Warn("profile cache invalidate failed", zap.String("user_id", id.Hex()), zap.Error(err))
	}
}
