package cachexredis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/cachex"
)

// Store is a cachex.Store on Redis. Keys are written as prefix+key.
type Store struct {
	rdb    redis.Cmdable
	prefix string
}

func NewStore(rdb redis.Cmdable, prefix string) *Store {
	return &Store{rdb: rdb, prefix: prefix}
}

func (s *Store) key(k string) string {
	return s.prefix + k
}

func (s *Store) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return cachex.ErrCodec(key, err)
	}
	if err := s.rdb.Set(ctx, s.key(key), data, ttl).Err(); err != nil {
		return cachex.ErrUnavailable(err).WithDetail("key", key)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string, dest any) error {
	data, err := s.rdb.Get(ctx, s.key(key)).Bytes()
	return decodeReply(key, dest, data, err)
}

// GetDel uses GETDEL (Redis 6.2+).
func (s *Store) GetDel(ctx context.Context, key string, dest any) error {
	data, err := s.rdb.GetDel(ctx, s.key(key)).Bytes()
	return decodeReply(key, dest, data, err)
}

func decodeReply(key string, dest any, data []byte, err error) error {
	if errors.Is(err, redis.Nil) {
		return cachex.ErrMiss(key)
	}
	if err != nil {
		return cachex.ErrUnavailable(err).WithDetail("key", key)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return cachex.ErrCodec(key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(k)
	}
	if err := s.rdb.Del(ctx, full...).Err(); err != nil {
		return cachex.ErrUnavailable(err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return cachex.ErrUnavailable(err)
	}
	return nil
}
