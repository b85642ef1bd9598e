// Package cache provides an optional Redis read-through cache for todo
// reads. A nil *TodoCache is valid and disables caching, so callers never
// branch on configuration.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"go-todo-service/internal/model"
)

type TodoCache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(ctx context.Context, addr string, ttl time.Duration) (*TodoCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}

	slog.Info("redis cache connected", "addr", addr, "ttl", ttl)
	return &TodoCache{client: client, ttl: ttl}, nil
}

func (c *TodoCache) Close() {
	if c == nil {
		return
	}
	_ = c.client.Close()
}

// Lookup returns the cached todo and true on a hit. Decode and transport
// failures count as misses; the store stays authoritative.
func (c *TodoCache) Lookup(ctx context.Context, id int64) (*model.Todo, bool) {
	if c == nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, todoKey(id)).Bytes()
	if err != nil {
		return nil, false
	}

	var todo model.Todo
	if err := json.Unmarshal(raw, &todo); err != nil {
		c.Invalidate(ctx, id)
		return nil, false
	}

	return &todo, true
}

func (c *TodoCache) Store(ctx context.Context, todo *model.Todo) {
	if c == nil || todo == nil {
		return
	}

	raw, err := json.Marshal(todo)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, todoKey(todo.ItemID), raw, c.ttl).Err(); err != nil {
		slog.Warn("cache store failed", "itemid", todo.ItemID, "error", err)
	}
}

func (c *TodoCache) Invalidate(ctx context.Context, id int64) {
	if c == nil {
		return
	}

	if err := c.client.Del(ctx, todoKey(id)).Err(); err != nil {
		slog.Warn("cache invalidate failed", "itemid", id, "error", err)
	}
}

func todoKey(id int64) string {
	return fmt.Sprintf("todo:%d", id)
}
