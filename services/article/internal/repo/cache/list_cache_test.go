package cache

import (
	"context"
	"testing"
	"time"

	"audslp/services/article/internal/entity"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T) (ListCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisListCache(client, 5*time.Minute), mr
}

func samplePage() *entity.ArticlePage {
	title := "Cochlear implant outcomes"
	return &entity.ArticlePage{
		Articles:   []entity.Article{{ID: 1, Title: &title, LikesCount: 3}},
		TotalCount: 1,
		TotalPages: 1,
		Page:       1,
		PageSize:   20,
		Sources:    []string{"Ear and Hearing"},
	}
}

func TestListCache_PageRoundTrip(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()
	q := entity.ParseListQuery("1", "20", "", "", "")

	_, ok, err := c.GetPage(ctx, q)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.SetPage(ctx, q, samplePage()))

	page, ok, err := c.GetPage(ctx, q)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, samplePage(), page)

	_, ok, err = c.GetPage(ctx, entity.ParseListQuery("2", "20", "", "", ""))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListCache_InvalidateOrphansEntries(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()
	q := entity.ParseListQuery("1", "20", "", "", "")

	require.NoError(t, c.SetPage(ctx, q, samplePage()))
	require.NoError(t, c.SetStats(ctx, &entity.Stats{TotalArticles: 1}))
	require.NoError(t, c.Invalidate(ctx))

	_, ok, err := c.GetPage(ctx, q)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = c.GetStats(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListCache_EntriesExpire(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetStats(ctx, &entity.Stats{TotalArticles: 4}))
	stats, ok, err := c.GetStats(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(4), stats.TotalArticles)

	mr.FastForward(6 * time.Minute)

	_, ok, err = c.GetStats(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListCache_RedisDown(t *testing.T) {
	c, mr := setupCache(t)
	mr.Close()

	_, ok, err := c.GetPage(context.Background(), entity.ListQuery{})
	assert.Error(t, err)
	assert.False(t, ok)
}
