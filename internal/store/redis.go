package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

type redisKV struct {
	rdb *redis.Client
}

// compile-time check that redisKV implements KV
// required so linter doesn't complain
var _ KV = (*redisKV)(nil)

// NewRedis connects a KV backed by redis. Values never expire; the schedulers
// replace their batches explicitly.
func NewRedis(address, username, password string) KV {
	return &redisKV{rdb: redis.NewClient(&redis.Options{
		Addr:     address,
		Username: username,
		Password: password,
		DB:       0,
	})}
}

func (s *redisKV) Get(ctx context.Context, key string) (string, error) {
	val, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (s *redisKV) Set(ctx context.Context, key, value string) error {
	return s.rdb.Set(ctx, key, value, 0).Err()
}

func (s *redisKV) Remove(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
