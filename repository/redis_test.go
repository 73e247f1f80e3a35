package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-backoffice/config"
	"github.com/yeremiapane/restaurant-backoffice/models"
)

func setupRedis(t *testing.T) *RedisRepository {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	repo := NewRedisRepository(&config.RedisConfig{Addr: addr, DB: 15, PoolSize: 2, CacheTTL: time.Minute})
	require.NoError(t, repo.Ping(context.Background()))
	t.Cleanup(func() {
		_ = repo.client.FlushDB(context.Background()).Err()
		_ = repo.Close()
	})
	return repo
}

func TestRedisTopSellersCache(t *testing.T) {
	repo := setupRedis(t)
	ctx := context.Background()

	_, gen, ok, err := repo.LoadTopSellers(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	sellers := []models.TopSeller{{
		MenuItemID:    "a",
		Name:          "Paneer Tikka",
		Category:      models.CategoryAppetizer,
		Price:         decimal.NewFromInt(249),
		TotalQuantity: 2,
		TotalRevenue:  decimal.NewFromInt(498),
	}}
	require.NoError(t, repo.StoreTopSellers(ctx, gen, sellers))

	got, _, ok, err := repo.LoadTopSellers(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.True(t, got[0].TotalRevenue.Equal(decimal.NewFromInt(498)))

	require.NoError(t, repo.InvalidateReports(ctx))
	_, next, ok, err := repo.LoadTopSellers(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, gen+1, next)
}

func TestRedisStoreSkipsStaleGeneration(t *testing.T) {
	repo := setupRedis(t)
	ctx := context.Background()

	_, gen, ok, err := repo.LoadTopSellers(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	// An order changes status while the report is being computed.
	require.NoError(t, repo.InvalidateReports(ctx))

	require.NoError(t, repo.StoreTopSellers(ctx, gen, []models.TopSeller{{MenuItemID: "stale"}}))
	_, _, ok, err = repo.LoadTopSellers(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisSequencer(t *testing.T) {
	repo := setupRedis(t)
	ctx := context.Background()

	first, err := repo.Next(ctx, "order_number")
	require.NoError(t, err)
	second, err := repo.Next(ctx, "order_number")
	require.NoError(t, err)
	assert.Equal(t, first+1, second)
}
