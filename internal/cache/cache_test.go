package cache

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestService(t *testing.T) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return New(rdb, time.Minute), mr
}

// Without redis the service degrades to a pass-through: every Get
// misses and Set/Invalidate are no-ops.
func TestNilServicePassThrough(t *testing.T) {
	if New(nil, time.Minute) != nil {
		t.Fatalf("expected nil service for nil client")
	}

	var s *Service
	ctx := context.Background()

	var dest []string
	if s.Get(ctx, KeyCategories, &dest) {
		t.Errorf("nil service reported a cache hit")
	}
	s.Set(ctx, KeyCategories, []string{"widgets"})
	s.Invalidate(ctx, KeyCategories, KeyInventoryValue)
}

func TestGetSetRoundTrip(t *testing.T) {
	s, mr := newTestService(t)
	ctx := context.Background()

	var miss []string
	if s.Get(ctx, KeyCategories, &miss) {
		t.Fatalf("expected miss on empty cache")
	}

	s.Set(ctx, KeyCategories, []string{"gadgets", "widgets"})

	var hit []string
	if !s.Get(ctx, KeyCategories, &hit) {
		t.Fatalf("expected hit after Set")
	}
	if !reflect.DeepEqual(hit, []string{"gadgets", "widgets"}) {
		t.Errorf("cached value mangled: %v", hit)
	}

	if ttl := mr.TTL(KeyCategories); ttl != time.Minute {
		t.Errorf("expected 1m TTL, got %v", ttl)
	}
}

func TestEntriesExpire(t *testing.T) {
	s, mr := newTestService(t)
	ctx := context.Background()

	s.Set(ctx, KeyInventoryValue, map[string]int{"total_products": 3})
	mr.FastForward(2 * time.Minute)

	var dest map[string]int
	if s.Get(ctx, KeyInventoryValue, &dest) {
		t.Errorf("expected expired entry to miss")
	}
}

func TestInvalidate(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	s.Set(ctx, KeyCategories, []string{"widgets"})
	s.Set(ctx, KeyInventoryValue, map[string]int{"total_products": 1})

	s.Invalidate(ctx, KeyCategories, KeyInventoryValue)

	var categories []string
	if s.Get(ctx, KeyCategories, &categories) {
		t.Errorf("categories key survived invalidation")
	}
	var value map[string]int
	if s.Get(ctx, KeyInventoryValue, &value) {
		t.Errorf("inventory-value key survived invalidation")
	}
}

func TestCorruptEntryCountsAsMiss(t *testing.T) {
	s, mr := newTestService(t)

	mr.Set(KeyCategories, "not json")

	var dest []string
	if s.Get(context.Background(), KeyCategories, &dest) {
		t.Errorf("expected corrupt entry to miss")
	}
}
