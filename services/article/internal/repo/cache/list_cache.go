package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"audslp/services/article/internal/entity"

	"github.com/redis/go-redis/v9"
)

const (
	GenerationKey = "articles:generation"
	statsKey      = "articles:stats"
)

// ListCache stores article pages and stats under a generation number.
// Invalidate bumps the generation, which orphans every entry at once; orphans
// expire with their TTL.
type ListCache interface {
	GetPage(ctx context.Context, q entity.ListQuery) (*entity.ArticlePage, bool, error)
	SetPage(ctx context.Context, q entity.ListQuery, page *entity.ArticlePage) error
	GetStats(ctx context.Context) (*entity.Stats, bool, error)
	SetStats(ctx context.Context, stats *entity.Stats) error
	Invalidate(ctx context.Context) error
}

type redisListCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisListCache(client *redis.Client, ttl time.Duration) ListCache {
	return &redisListCache{client: client, ttl: ttl}
}

func (c *redisListCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, GenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *redisListCache) key(ctx context.Context, suffix string) (string, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("articles:v%d:%s", gen, suffix), nil
}

func (c *redisListCache) GetPage(ctx context.Context, q entity.ListQuery) (*entity.ArticlePage, bool, error) {
	var page entity.ArticlePage
	ok, err := c.get(ctx, "list:"+q.CacheKey(), &page)
	if !ok || err != nil {
		return nil, false, err
	}
	return &page, true, nil
}

func (c *redisListCache) SetPage(ctx context.Context, q entity.ListQuery, page *entity.ArticlePage) error {
	return c.set(ctx, "list:"+q.CacheKey(), page)
}

func (c *redisListCache) GetStats(ctx context.Context) (*entity.Stats, bool, error) {
	var stats entity.Stats
	ok, err := c.get(ctx, statsKey, &stats)
	if !ok || err != nil {
		return nil, false, err
	}
	return &stats, true, nil
}

func (c *redisListCache) SetStats(ctx context.Context, stats *entity.Stats) error {
	return c.set(ctx, statsKey, stats)
}

func (c *redisListCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, GenerationKey).Err()
}

func (c *redisListCache) get(ctx context.Context, suffix string, out interface{}) (bool, error) {
	key, err := c.key(ctx, suffix)
	if err != nil {
		return false, err
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("failed to decode cached %s: %w", key, err)
	}
	return true, nil
}

func (c *redisListCache) set(ctx context.Context, suffix string, value interface{}) error {
	key, err := c.key(ctx, suffix)
	if err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}
