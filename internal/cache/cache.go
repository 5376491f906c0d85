package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Keys for the aggregate endpoints. Any product mutation invalidates
// both.
const (
	KeyCategories     = "inventory:categories"
	KeyInventoryValue = "inventory:value"
)

// Service is a small read-through JSON cache on redis. A nil Service
// (redis not configured) degrades to a pass-through: Get always
// misses, Set and Invalidate are no-ops.
type Service struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(rdb *redis.Client, ttl time.Duration) *Service {
	if rdb == nil {
		return nil
	}
	return &Service{rdb: rdb, ttl: ttl}
}

// Get unmarshals the cached value for key into dest and reports
// whether there was a hit. Redis errors count as misses.
func (s *Service) Get(ctx context.Context, key string, dest any) bool {
	if s == nil {
		return false
	}
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

func (s *Service) Set(ctx context.Context, key string, value any) {
	if s == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = s.rdb.Set(ctx, key, data, s.ttl).Err()
}

func (s *Service) Invalidate(ctx context.Context, keys ...string) {
	if s == nil || len(keys) == 0 {
		return
	}
	_ = s.rdb.Del(ctx, keys...).Err()
}
