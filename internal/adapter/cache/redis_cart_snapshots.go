package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ATjewellers01/zold-cart-api/internal/cart"
	domain "github.com/ATjewellers01/zold-cart-api/internal/entity"
)

// RedisCartSnapshots is the durable slot behind the cart store: one key per
// user holding the serialized item list, rewritten after every mutation.
type RedisCartSnapshots struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCartSnapshots(rdb *redis.Client, ttl time.Duration) *RedisCartSnapshots {
	return &RedisCartSnapshots{rdb: rdb, ttl: ttl}
}

func (s *RedisCartSnapshots) key(userID string) string { return "cart:snapshot:" + userID }

// Load returns (nil, false, nil) for a missing snapshot and an error for an
// unreadable or corrupt one; the store fails open on the error path.
func (s *RedisCartSnapshots) Load(ctx context.Context, userID string) ([]domain.LineItem, bool, error) {
	raw, err := s.rdb.Get(ctx, s.key(userID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var items []domain.LineItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false, err
	}
	return items, true, nil
}

func (s *RedisCartSnapshots) Save(ctx context.Context, userID string, items []domain.LineItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.key(userID), raw, s.ttl).Err()
}

var _ cart.Snapshots = (*RedisCartSnapshots)(nil)
