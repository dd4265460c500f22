package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// CartStore is the session-scoped cart: a per-user hash of
// project id -> quantity. Nothing durable is written; the key expires
// with the login session.
type CartStore interface {
	Add(ctx context.Context, userID string, projectID uint) error
	Remove(ctx context.Context, userID string, projectID uint) error
	Items(ctx context.Context, userID string) (map[uint]int64, error)
}

type RedisCartStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCartStore(rdb *redis.Client, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{rdb: rdb, ttl: ttl}
}

func cartKey(userID string) string { return "cart:" + userID }

func (s *RedisCartStore) Add(ctx context.Context, userID string, projectID uint) error {
	key := cartKey(userID)
	pipe := s.rdb.TxPipeline()
	pipe.HIncrBy(ctx, key, strconv.FormatUint(uint64(projectID), 10), 1)
	pipe.Expire(ctx, key, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisCartStore) Remove(ctx context.Context, userID string, projectID uint) error {
	return s.rdb.HDel(ctx, cartKey(userID), strconv.FormatUint(uint64(projectID), 10)).Err()
}

func (s *RedisCartStore) Items(ctx context.Context, userID string) (map[uint]int64, error) {
	raw, err := s.rdb.HGetAll(ctx, cartKey(userID)).Result()
	if err != nil {
		return nil, err
	}
	items := make(map[uint]int64, len(raw))
	for field, value := range raw {
		id, err := strconv.ParseUint(field, 10, 64)
		if err != nil {
			continue
		}
		qty, err := strconv.ParseInt(value, 10, 64)
		if err != nil || qty < 1 {
			continue
		}
		items[uint(id)] = qty
	}
	return items, nil
}
