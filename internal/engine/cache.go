package engine

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// Transcript extraction is expensive (a page load plus up to a dozen
// caption fetches per video), so extracted transcripts are cached:
// L1 in-memory for the process lifetime, L2 Redis to survive restarts.
var transcriptCache *tieredCache

var (
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
)

// CachedTranscript is the cache payload for one extracted video.
type CachedTranscript struct {
	VideoID string `json:"video_id"`
	Title   string `json:"title,omitempty"`
	Text    string `json:"text"`
}

type tieredCache struct {
	l1              sync.Map      // key → *cacheEntry
	rdb             *redis.Client // nil if Redis unavailable
	ttl             time.Duration
	maxEntries      int
	cleanupInterval time.Duration
}

type cacheEntry struct {
	data      []byte
	expiresAt time.Time
}

// InitCache sets up the transcript cache. Call after Init().
// redisURL can be empty to disable L2.
func InitCache(redisURL string, ttl time.Duration, maxEntries int, cleanupInterval time.Duration) {
	c := &tieredCache{ttl: ttl, maxEntries: maxEntries, cleanupInterval: cleanupInterval}

	if redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			slog.Warn("cache: invalid redis URL, L2 disabled", slog.Any("error", err))
		} else {
			rdb := redis.NewClient(opts)
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			if err := rdb.Ping(ctx).Err(); err != nil {
				slog.Warn("cache: redis unreachable, L2 disabled", slog.Any("error", err))
			} else {
				c.rdb = rdb
				slog.Info("cache: L2 redis connected", slog.String("addr", opts.Addr))
			}
		}
	}

	transcriptCache = c
	slog.Info("cache: initialized", slog.Duration("ttl", ttl), slog.Bool("redis", c.rdb != nil), slog.Int("max_entries", maxEntries))

	go c.cleanupLoop()
}

// CacheKey builds a deterministic cache key from parts.
func CacheKey(parts ...string) string {
	h := sha256.New()
	for i, p := range parts {
		if i > 0 {
			h.Write([]byte{'|'})
		}
		h.Write([]byte(p))
	}
	return fmt.Sprintf("wl:%x", h.Sum(nil)[:12])
}

// CacheGetTranscript tries L1, then L2. On L2 hit, populates L1.
func CacheGetTranscript(ctx context.Context, key string) (CachedTranscript, bool) {
	if transcriptCache == nil {
		cacheMisses.Add(1)
		return CachedTranscript{}, false
	}

	if val, ok := transcriptCache.l1.Load(key); ok {
		entry := val.(*cacheEntry)
		if time.Now().Before(entry.expiresAt) {
			var out CachedTranscript
			if json.Unmarshal(entry.data, &out) == nil {
				slog.Debug("cache: L1 hit", slog.String("key", key))
				cacheHits.Add(1)
				return out, true
			}
		}
		transcriptCache.l1.Delete(key) // expired or corrupt
	}

	if transcriptCache.rdb != nil {
		data, err := transcriptCache.rdb.Get(ctx, key).Bytes()
		if err == nil {
			var out CachedTranscript
			if json.Unmarshal(data, &out) == nil {
				slog.Debug("cache: L2 hit", slog.String("key", key))
				cacheHits.Add(1)
				transcriptCache.l1.Store(key, &cacheEntry{
					data:      data,
					expiresAt: time.Now().Add(transcriptCache.ttl),
				})
				return out, true
			}
		}
	}

	cacheMisses.Add(1)
	return CachedTranscript{}, false
}

// CacheSetTranscript stores value in both L1 and L2.
func CacheSetTranscript(ctx context.Context, key string, value CachedTranscript) {
	if transcriptCache == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		return
	}

	transcriptCache.evictIfNeeded()

	transcriptCache.l1.Store(key, &cacheEntry{
		data:      data,
		expiresAt: time.Now().Add(transcriptCache.ttl),
	})

	if transcriptCache.rdb != nil {
		if err := transcriptCache.rdb.Set(ctx, key, data, transcriptCache.ttl).Err(); err != nil {
			slog.Debug("cache: L2 set failed", slog.Any("error", err))
		}
	}
}

// CacheStats returns current cache hit/miss counters.
func CacheStats() (hits, misses int64) {
	return cacheHits.Load(), cacheMisses.Load()
}

// evictIfNeeded removes entries when L1 exceeds maxEntries:
// expired entries first, then the entries closest to expiry.
func (c *tieredCache) evictIfNeeded() {
	if c.maxEntries <= 0 {
		return
	}

	count := 0
	c.l1.Range(func(_, _ any) bool {
		count++
		return true
	})
	if count < c.maxEntries {
		return
	}

	now := time.Now()
	c.l1.Range(func(key, val any) bool {
		if entry, ok := val.(*cacheEntry); ok && now.After(entry.expiresAt) {
			c.l1.Delete(key)
			count--
		}
		return count >= c.maxEntries
	})

	for count >= c.maxEntries {
		var oldestKey any
		oldestAt := now.Add(24 * time.Hour)
		c.l1.Range(func(key, val any) bool {
			if entry, ok := val.(*cacheEntry); ok && entry.expiresAt.Before(oldestAt) {
				oldestKey = key
				oldestAt = entry.expiresAt
			}
			return true
		})
		if oldestKey == nil {
			return
		}
		c.l1.Delete(oldestKey)
		count--
	}
}

func (c *tieredCache) cleanupLoop() {
	interval := c.cleanupInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		now := time.Now()
		c.l1.Range(func(key, val any) bool {
			if entry, ok := val.(*cacheEntry); ok && now.After(entry.expiresAt) {
				c.l1.Delete(key)
			}
			return true
		})
	}
}
