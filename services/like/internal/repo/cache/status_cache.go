package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"audslp/services/like/internal/entity"

	"github.com/redis/go-redis/v9"
)

// StatusCache keeps resolved like statuses for a short window. Like counts
// are low-stakes, so readers accept staleness up to the TTL.
type StatusCache interface {
	Get(ctx context.Context, articleID int64, fingerprint string) (entity.LikeStatus, bool, error)
	Set(ctx context.Context, articleID int64, fingerprint string, status entity.LikeStatus) error
}

type redisStatusCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStatusCache(client *redis.Client, ttl time.Duration) StatusCache {
	return &redisStatusCache{client: client, ttl: ttl}
}

func StatusKey(articleID int64, fingerprint string) string {
	return fmt.Sprintf("like:status:%d:%s", articleID, fingerprint)
}

func (c *redisStatusCache) Get(ctx context.Context, articleID int64, fingerprint string) (entity.LikeStatus, bool, error) {
	raw, err := c.client.Get(ctx, StatusKey(articleID, fingerprint)).Bytes()
	if errors.Is(err, redis.Nil) {
		return entity.LikeStatus{}, false, nil
	}
	if err != nil {
		return entity.LikeStatus{}, false, err
	}

	var status entity.LikeStatus
	if err := json.Unmarshal(raw, &status); err != nil {
		return entity.LikeStatus{}, false, fmt.Errorf("failed to decode cached status: %w", err)
	}
	return status, true, nil
}

func (c *redisStatusCache) Set(ctx context.Context, articleID int64, fingerprint string, status entity.LikeStatus) error {
	raw, err := json.Marshal(status)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, StatusKey(articleID, fingerprint), raw, c.ttl).Err()
}
