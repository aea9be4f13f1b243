package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Cache fronts the event listing with Redis. A nil client disables it,
// and every Redis error fails open to the database.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// cacheKey derives a stable key from the filter set.
func cacheKey(filters ListFilters) string {
	return fmt.Sprintf("events:category=%s:search=%s:date=%s",
		filters.Category, filters.Search, filters.Date)
}

func (c *Cache) Get(ctx context.Context, filters ListFilters) ([]*Event, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	payload, err := c.client.Get(ctx, cacheKey(filters)).Bytes()
	if err != nil {
		return nil, false
	}

	var events []*Event
	if err := json.Unmarshal(payload, &events); err != nil {
		return nil, false
	}
	return events, true
}

func (c *Cache) Set(ctx context.Context, filters ListFilters, events []*Event) {
	if c == nil || c.client == nil {
		return
	}

	payload, err := json.Marshal(events)
	if err != nil {
		return
	}
	c.client.Set(ctx, cacheKey(filters), payload, c.ttl)
}
