package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Redis is a read-through byte cache for EDGAR index responses. Cache
// failures are logged and treated as misses; they never fail a fetch.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects from a redis:// URL.
func NewRedis(url string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &Redis{Client: redis.NewClient(opts)}, nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := r.Client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Warn().Str("key", key).Err(err).Msg("cache get failed")
		return nil, false
	}
	return b, true
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := r.Client.Set(ctx, key, value, ttl).Err(); err != nil {
		log.Warn().Str("key", key).Err(err).Msg("cache set failed")
	}
}
