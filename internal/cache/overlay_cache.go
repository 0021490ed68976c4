package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mybestodds/mybestodds-go/internal/models"
)

// OverlayCacheStats tracks cache performance metrics.
type OverlayCacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Sets   int64 `json:"sets"`
	mu     sync.RWMutex
}

// RedisOverlayCache caches overlay contexts per (provider, date, session) key
// in Redis for the duration of a batch run. The overlay is a pure function of
// its key, so a stale-but-present entry is always safe to serve; keying on
// the provider keeps an ephemeris context from being served after the
// deployment switches to the fallback provider, and vice versa.
type RedisOverlayCache struct {
	redis    *redis.Client
	ttl      time.Duration
	stats    *OverlayCacheStats
	prefix   string
	provider string
}

// NewRedisOverlayCache creates a new Redis-based overlay context cache scoped
// to the named overlay provider.
func NewRedisOverlayCache(redisClient *redis.Client, ttl time.Duration, provider string) *RedisOverlayCache {
	return &RedisOverlayCache{
		redis:    redisClient,
		ttl:      ttl,
		stats:    &OverlayCacheStats{},
		prefix:   "overlay_cache:",
		provider: provider,
	}
}

func (c *RedisOverlayCache) key(date time.Time, session models.DrawSession) string {
	return fmt.Sprintf("%s%s:%s:%s", c.prefix, c.provider, date.Format("2006-01-02"), session)
}

// Get retrieves a cached overlay context. The second return value is false on
// a miss or any Redis/deserialization failure; failures never propagate.
func (c *RedisOverlayCache) Get(date time.Time, session models.DrawSession) (models.OverlayContext, bool) {
	ctx := context.Background()

	data, err := c.redis.Get(ctx, c.key(date, session)).Result()
	if err == redis.Nil {
		c.miss()
		return models.OverlayContext{}, false
	}
	if err != nil {
		log.Printf("Redis error getting overlay for %s/%s: %v", date.Format("2006-01-02"), session, err)
		c.miss()
		return models.OverlayContext{}, false
	}

	var entry models.OverlayContext
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		log.Printf("Error deserializing cached overlay for %s/%s: %v", date.Format("2006-01-02"), session, err)
		c.miss()
		return models.OverlayContext{}, false
	}

	c.stats.mu.Lock()
	c.stats.Hits++
	c.stats.mu.Unlock()
	return entry, true
}

// Set stores an overlay context. Storage failures are logged and swallowed;
// the cache is an optimization, not a dependency.
func (c *RedisOverlayCache) Set(date time.Time, session models.DrawSession, overlay models.OverlayContext) {
	ctx := context.Background()

	data, err := json.Marshal(overlay)
	if err != nil {
		log.Printf("Error serializing overlay for %s/%s: %v", date.Format("2006-01-02"), session, err)
		return
	}
	if err := c.redis.Set(ctx, c.key(date, session), data, c.ttl).Err(); err != nil {
		log.Printf("Redis error caching overlay for %s/%s: %v", date.Format("2006-01-02"), session, err)
		return
	}

	c.stats.mu.Lock()
	c.stats.Sets++
	c.stats.mu.Unlock()
}

// GetStats returns a snapshot of the cache counters.
func (c *RedisOverlayCache) GetStats() (hits, misses, sets int64) {
	c.stats.mu.RLock()
	defer c.stats.mu.RUnlock()
	return c.stats.Hits, c.stats.Misses, c.stats.Sets
}

func (c *RedisOverlayCache) miss() {
	c.stats.mu.Lock()
	c.stats.Misses++
	c.stats.mu.Unlock()
}
