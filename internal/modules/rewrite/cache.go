package rewrite

import (
	"container/list"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/yungbote/adforge-backend/internal/domain"
	"github.com/yungbote/adforge-backend/internal/platform/logger"
	"github.com/yungbote/adforge-backend/internal/platform/redisdb"
)

const (
	strategyCacheCapacity = 128
	strategyRedisPrefix   = "adforge:strategy:"
	strategyRedisTTL      = 10 * time.Minute
)

type strategyKey struct {
	Platform string
	Audience string
	Intent   string
	Category string
}

func newStrategyKey(platform, audience, intent, category string) strategyKey {
	norm := func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
	return strategyKey{
		Platform: norm(platform),
		Audience: norm(audience),
		Intent:   norm(intent),
		Category: norm(category),
	}
}

func (k strategyKey) redisKey() string {
	return strategyRedisPrefix + strings.Join([]string{k.Platform, k.Audience, k.Intent, k.Category}, "|")
}

type strategyEntry struct {
	key   strategyKey
	value *domain.PlatformStrategy
}

// strategyCache is a bounded in-process LRU over platform strategies, with an
// optional Redis read-through so replicas share graph lookups. Platform data
// changes rarely, so staleness inside the TTL is acceptable.
type strategyCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	items    map[strategyKey]*list.Element

	redis *redisdb.Client
	log   *logger.Logger
}

func newStrategyCache(redis *redisdb.Client, log *logger.Logger) *strategyCache {
	return &strategyCache{
		capacity: strategyCacheCapacity,
		order:    list.New(),
		items:    make(map[strategyKey]*list.Element),
		redis:    redis,
		log:      log,
	}
}

func (c *strategyCache) Get(ctx context.Context, key strategyKey) (*domain.PlatformStrategy, bool) {
	c.mu.Lock()
	if el, ok := c.items[key]; ok {
		c.order.MoveToFront(el)
		value := el.Value.(*strategyEntry).value
		c.mu.Unlock()
		return value, true
	}
	c.mu.Unlock()

	if c.redis == nil || c.redis.RDB == nil {
		return nil, false
	}
	raw, err := c.redis.RDB.Get(ctx, key.redisKey()).Result()
	if err != nil {
		return nil, false
	}
	var strategy domain.PlatformStrategy
	if err := json.Unmarshal([]byte(raw), &strategy); err != nil {
		if c.log != nil {
			c.log.Warn("dropping undecodable cached strategy", "key", key.redisKey(), "error", err)
		}
		return nil, false
	}
	c.storeLocal(key, &strategy)
	return &strategy, true
}

func (c *strategyCache) Put(ctx context.Context, key strategyKey, strategy *domain.PlatformStrategy) {
	if strategy == nil {
		return
	}
	c.storeLocal(key, strategy)

	if c.redis == nil || c.redis.RDB == nil {
		return
	}
	raw, err := json.Marshal(strategy)
	if err != nil {
		return
	}
	if err := c.redis.RDB.Set(ctx, key.redisKey(), raw, strategyRedisTTL).Err(); err != nil && c.log != nil {
		c.log.Warn("strategy cache write failed", "key", key.redisKey(), "error", err)
	}
}

func (c *strategyCache) storeLocal(key strategyKey, strategy *domain.PlatformStrategy) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		el.Value.(*strategyEntry).value = strategy
		c.order.MoveToFront(el)
		return
	}
	c.items[key] = c.order.PushFront(&strategyEntry{key: key, value: strategy})
	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*strategyEntry).key)
	}
}

func (c *strategyCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
