package database

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient returns nil when no address is configured or the server
// does not answer; callers then run without the profile cache.
func NewRedisClient(ctx context.Context, addr, password string, db int, log *zap.Logger) *redis.Client {
	if addr == "" {
		log.Info("redis not configured, profile cache disabled")
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unreachable, profile cache disabled",
			zap.String("addr", addr), zap.Int("db", db), zap.Error(err))
		_ = rdb.Close()
		return nil
	}
	log.Info("connected to Redis", zap.String("addr", addr), zap.Int("db", db))
	return rdb
}
