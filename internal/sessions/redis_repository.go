package sessions

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRepository implements Repository using Redis as the backing store.
// Each session is one hash under key "<prefix><sid>"; every write and Touch slides the TTL.
type RedisRepository struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisRepository creates a Redis-based session repository. Prefix may be empty.
func NewRedisRepository(client *redis.Client, prefix string, ttl time.Duration) *RedisRepository {
	if prefix == "" {
		prefix = "session:"
	}
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &RedisRepository{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisRepository) key(sid string) string {
	return r.prefix + sid
}

func (r *RedisRepository) Get(ctx context.Context, sid, key string) (string, bool, error) {
	v, err := r.client.HGet(ctx, r.key(sid), key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil
		}
		return "", false, err
	}
	return v, true, nil
}

func (r *RedisRepository) Set(ctx context.Context, sid, key, value string) error {
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, r.key(sid), key, value)
		p.Expire(ctx, r.key(sid), r.ttl)
		return nil
	})
	return err
}

func (r *RedisRepository) Delete(ctx context.Context, sid string, keys ...string) error {
	if len(keys) == 0 {
		return r.client.Del(ctx, r.key(sid)).Err()
	}
	return r.client.HDel(ctx, r.key(sid), keys...).Err()
}

func (r *RedisRepository) Touch(ctx context.Context, sid string) error {
	return r.client.Expire(ctx, r.key(sid), r.ttl).Err()
}
