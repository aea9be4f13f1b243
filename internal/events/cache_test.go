package events

import (
	"context"
	"testing"
)

func TestCacheKey(t *testing.T) {
	tests := []struct {
		name    string
		filters ListFilters
		want    string
	}{
		{
			name:    "no filters",
			filters: ListFilters{},
			want:    "events:category=:search=:date=",
		},
		{
			name:    "category only",
			filters: ListFilters{Category: "Music"},
			want:    "events:category=Music:search=:date=",
		},
		{
			name:    "all filters",
			filters: ListFilters{Category: "Food", Search: "market", Date: "today"},
			want:    "events:category=Food:search=market:date=today",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cacheKey(tt.filters); got != tt.want {
				t.Errorf("cacheKey() = %q, want %q", got, tt.want)
			}
		})
	}

	// Distinct filter sets must never collide
	keys := map[string]bool{}
	for _, tt := range tests {
		keys[cacheKey(tt.filters)] = true
	}
	if len(keys) != len(tests) {
		t.Errorf("got %d distinct keys for %d filter sets", len(keys), len(tests))
	}
}

func TestCacheDisabled(t *testing.T) {
	ctx := context.Background()

	var cache *Cache
	if _, ok := cache.Get(ctx, ListFilters{}); ok {
		t.Error("nil cache reported a hit")
	}
	cache.Set(ctx, ListFilters{}, nil)

	disabled := NewCache(nil, 0)
	if _, ok := disabled.Get(ctx, ListFilters{}); ok {
		t.Error("cache without a client reported a hit")
	}
	disabled.Set(ctx, ListFilters{}, nil)
}
