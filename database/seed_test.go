package database

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-backoffice/models"
	"github.com/yeremiapane/restaurant-backoffice/repository"
	"github.com/yeremiapane/restaurant-backoffice/services"
)

func TestSeed(t *testing.T) {
	db, err := OpenInMemory(strings.ReplaceAll(t.Name(), "/", "_"))
	require.NoError(t, err)

	menuRepo := repository.NewGormMenuRepository(db)
	menu := services.NewMenuService(menuRepo, nil)
	orders := services.NewOrderService(
		repository.NewGormOrderRepository(db), menuRepo, repository.NewGormSequencer(db), nil, "ORD")
	ctx := context.Background()

	seeded, err := Seed(ctx, menu, orders)
	require.NoError(t, err)
	assert.True(t, seeded)

	size, err := menu.CatalogSize(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len(seedMenu)), size)

	page, err := orders.ListOrders(ctx, services.ListOrdersQuery{Limit: 100})
	require.NoError(t, err)
	assert.Equal(t, int64(len(seedOrders)), page.Total)
	for _, order := range page.Orders {
		assert.True(t, order.CurrentStatusMatchesHistory(), order.OrderNumber)
		assert.Equal(t, models.StatusPending, order.StatusHistory[0].Status)
	}

	summary, err := orders.StatusSummary(ctx)
	require.NoError(t, err)
	want := map[models.OrderStatus]int64{
		models.StatusPending:   2,
		models.StatusPreparing: 2,
		models.StatusReady:     2,
		models.StatusDelivered: 3,
		models.StatusCancelled: 1,
	}
	for _, c := range summary {
		assert.Equal(t, want[c.Status], c.Count, c.Status)
	}

	top, err := orders.TopSellers(ctx)
	require.NoError(t, err)
	require.Len(t, top, 5)
	assert.Equal(t, int64(2), top[0].TotalQuantity)
	assert.Equal(t, int64(2), top[1].TotalQuantity)

	// A second run leaves the data alone.
	seeded, err = Seed(ctx, menu, orders)
	require.NoError(t, err)
	assert.False(t, seeded)
}
