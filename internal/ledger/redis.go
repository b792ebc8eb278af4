package ledger

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/actadigital/registry/internal/domain"
)

// RedisLog stores lines in a Redis list under prefix+name.
// RPUSH is atomic, so concurrent appends never interleave.
type RedisLog struct {
	client *redis.Client
	name   string
	key    string
}

// NewRedisLog creates a Redis-based log. Prefix may be empty.
func NewRedisLog(client *redis.Client, prefix, name string) *RedisLog {
	if prefix == "" {
		prefix = "ledger:"
	}
	return &RedisLog{client: client, name: name, key: prefix + name}
}

func (r *RedisLog) Name() string { return r.name }

// Key returns the Redis list key.
func (r *RedisLog) Key() string { return r.key }

func (r *RedisLog) Append(ctx context.Context, line []byte) error {
	if err := r.client.RPush(ctx, r.key, line).Err(); err != nil {
		return fmt.Errorf("append ledger %s: %w: %w", r.name, domain.ErrStorageUnavailable, err)
	}
	return nil
}

func (r *RedisLog) ReadAll(ctx context.Context) ([][]byte, error) {
	vals, err := r.client.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read ledger %s: %w: %w", r.name, domain.ErrStorageUnavailable, err)
	}
	out := make([][]byte, len(vals))
	for i, v := range vals {
		out[i] = []byte(v)
	}
	return out, nil
}
