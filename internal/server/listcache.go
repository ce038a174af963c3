package server

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oakpoint-health/booking-portal/internal/slots"
	"github.com/oakpoint-health/booking-portal/pkg/logging"
)

const (
	listCacheKey        = "slots:available"
	DefaultListCacheTTL = 60 * time.Second
)

// ListCache fronts the slot scan with a short-lived Redis entry. Every Redis
// failure degrades to a cache miss; the table scan always remains available.
// Entries expire by TTL only, so a freshly booked slot may stay listed for up
// to the TTL; the booking endpoint's conditional write still rejects it.
type ListCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewListCache wraps an existing client. A zero or negative ttl gets the
// default.
func NewListCache(client *redis.Client, ttl time.Duration, logger *logging.Logger) *ListCache {
	if client == nil {
		panic("server: redis client required")
	}
	if ttl <= 0 {
		ttl = DefaultListCacheTTL
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ListCache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached slot list and whether it was present.
func (c *ListCache) Get(ctx context.Context) ([]slots.Slot, bool) {
	raw, err := c.client.Get(ctx, listCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("slot cache read failed, falling back to scan", "error", err)
		}
		return nil, false
	}
	var cached []slots.Slot
	if err := json.Unmarshal(raw, &cached); err != nil {
		c.logger.Warn("slot cache entry corrupted, falling back to scan", "error", err)
		return nil, false
	}
	return cached, true
}

// Set stores the slot list for the configured TTL. Failures are logged and
// swallowed.
func (c *ListCache) Set(ctx context.Context, list []slots.Slot) {
	data, err := json.Marshal(list)
	if err != nil {
		c.logger.Warn("slot cache encode failed", "error", err)
		return
	}
	if err := c.client.Set(ctx, listCacheKey, data, c.ttl).Err(); err != nil {
		c.logger.Warn("slot cache write failed", "error", err)
	}
}
