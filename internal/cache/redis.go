package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Redis is a shared cache backend for multi-node deployments. All errors
// short of construction are swallowed: a Get failure is a miss, a Set
// failure is logged. Cache unavailability must never fail a request.
type Redis struct {
	client *redis.Client
	log    *zap.Logger
}

// RedisOptions configures the Redis backend.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedis creates a Redis-backed cache. The connection is verified once at
// construction so misconfiguration surfaces at startup, not mid-request.
func NewRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, eris.Wrapf(err, "cache: ping redis %s", opts.Addr)
	}
	return &Redis{client: client, log: zap.L().Named("cache.redis")}, nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.log.Warn("get failed, treating as miss", zap.Error(err))
		}
		return nil, false
	}
	return val, true
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return eris.Wrap(err, "cache: redis set")
	}
	return nil
}

func (r *Redis) Purge(ctx context.Context) error {
	if err := r.client.FlushDB(ctx).Err(); err != nil {
		return eris.Wrap(err, "cache: redis flushdb")
	}
	return nil
}

func (r *Redis) Entries(ctx context.Context) int {
	n, err := r.client.DBSize(ctx).Result()
	if err != nil {
		r.log.Warn("dbsize failed", zap.Error(err))
		return 0
	}
	return int(n)
}

func (r *Redis) Close() error {
	return r.client.Close()
}
