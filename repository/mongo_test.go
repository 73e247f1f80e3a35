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
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestTopSellersPipeline(t *testing.T) {
	pipeline := topSellersPipeline(models.StatusDelivered, 5)
	require.Len(t, pipeline, 8)

	stages := make([]string, 0, len(pipeline))
	for _, stage := range pipeline {
		stages = append(stages, stage[0].Key)
	}
	assert.Equal(t, []string{"$match", "$unwind", "$group", "$lookup", "$unwind", "$project", "$sort", "$limit"}, stages)

	assert.Equal(t, bson.D{{Key: "status", Value: "Delivered"}}, pipeline[0][0].Value)
	assert.Equal(t, bson.D{{Key: "totalQuantity", Value: -1}, {Key: "_id", Value: 1}}, pipeline[6][0].Value)
	assert.Equal(t, 5, pipeline[7][0].Value)
}

func TestDecimal128RoundTrip(t *testing.T) {
	for _, s := range []string{"0", "249", "449.50", "1234.05"} {
		d := decimal.RequireFromString(s)
		v, err := toDecimal128(d)
		require.NoError(t, err)
		assert.True(t, fromDecimal128(v).Equal(d), s)
	}
}

func TestOrderDocumentMapping(t *testing.T) {
	menuID := primitive.NewObjectID()
	now := time.Now().UTC().Truncate(time.Millisecond)
	order := &models.Order{
		OrderNumber: "ORD-1-0001",
		Items: []models.OrderItem{
			{MenuItemID: menuID.Hex(), Quantity: 2, UnitPrice: decimal.NewFromInt(249)},
		},
		TotalAmount:   decimal.NewFromInt(498),
		Status:        models.StatusPending,
		StatusHistory: []models.StatusEntry{{Status: models.StatusPending, Timestamp: now}},
		CustomerName:  "Rahul",
		TableNumber:   5,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	doc, err := newOrderDocument(order)
	require.NoError(t, err)
	doc.ID = primitive.NewObjectID()

	back := doc.model()
	assert.Equal(t, doc.ID.Hex(), back.ID)
	assert.Equal(t, menuID.Hex(), back.Items[0].MenuItemID)
	assert.True(t, back.TotalAmount.Equal(order.TotalAmount))
	assert.Equal(t, order.StatusHistory[0].Status, back.StatusHistory[0].Status)

	order.Items[0].MenuItemID = "not-an-object-id"
	_, err = newOrderDocument(order)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestParseObjectIDTreatsGarbageAsMissing(t *testing.T) {
	_, err := parseObjectID("42")
	assert.ErrorIs(t, err, ErrNotFound)
}

// setupMongo connects to the server named by TEST_MONGODB_URI and hands out
// a throwaway database.
func setupMongo(t *testing.T) *MongoStore {
	t.Helper()
	uri := os.Getenv("TEST_MONGODB_URI")
	if uri == "" {
		t.Skip("TEST_MONGODB_URI not set")
	}
	ctx := context.Background()
	store, err := NewMongoStore(ctx, &config.MongoDBConfig{
		URI:      uri,
		Database: "backoffice_test_" + primitive.NewObjectID().Hex(),
		Timeout:  10 * time.Second,
	})
	require.NoError(t, err)
	require.NoError(t, store.EnsureIndexes(ctx))
	t.Cleanup(func() {
		_ = store.Database().Drop(context.Background())
		_ = store.Close(context.Background())
	})
	return store
}

func mongoMenuItem(name string, price int64, ingredients ...string) *models.MenuItem {
	now := time.Now().UTC()
	return &models.MenuItem{
		Name:        name,
		Category:    models.CategoryMainCourse,
		Price:       decimal.NewFromInt(price),
		Ingredients: ingredients,
		IsAvailable: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestMongoMenuRepository(t *testing.T) {
	store := setupMongo(t)
	repo := store.Menus()
	ctx := context.Background()

	item := mongoMenuItem("Butter Chicken", 449, "Chicken", "Butter")
	require.NoError(t, repo.Create(ctx, item))

	got, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Butter Chicken", got.Name)
	assert.True(t, got.Price.Equal(decimal.NewFromInt(449)))

	toggled, err := repo.ToggleAvailability(ctx, item.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsAvailable)
	toggled, err = repo.ToggleAvailability(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsAvailable)

	found, err := repo.Search(ctx, "butter")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	_, err = repo.ToggleAvailability(ctx, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.Delete(ctx, item.ID))
	assert.ErrorIs(t, repo.Delete(ctx, item.ID), ErrNotFound)
}

func TestMongoOrderRepository(t *testing.T) {
	store := setupMongo(t)
	menus := store.Menus()
	orders := store.Orders()
	ctx := context.Background()

	x := mongoMenuItem("Paneer Tikka", 249)
	y := mongoMenuItem("Butter Chicken", 449)
	require.NoError(t, menus.Create(ctx, x))
	require.NoError(t, menus.Create(ctx, y))

	now := time.Now().UTC()
	order := &models.Order{
		OrderNumber: "ORD-1-0001",
		Items: []models.OrderItem{
			{MenuItemID: x.ID, Quantity: 2, UnitPrice: x.Price},
			{MenuItemID: y.ID, Quantity: 1, UnitPrice: y.Price},
		},
		TotalAmount:   decimal.NewFromInt(947),
		Status:        models.StatusPending,
		StatusHistory: []models.StatusEntry{{Status: models.StatusPending, Timestamp: now}},
		CustomerName:  "Rahul",
		TableNumber:   5,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, orders.Create(ctx, order))

	dup := *order
	assert.ErrorIs(t, orders.Create(ctx, &dup), ErrDuplicateKey)

	updated, err := orders.AppendStatus(ctx, order.ID, models.StatusEntry{Status: models.StatusDelivered, Timestamp: time.Now().UTC()})
	require.NoError(t, err)
	assert.Len(t, updated.StatusHistory, 2)
	require.NotNil(t, updated.Items[0].MenuItem)
	assert.Equal(t, "Paneer Tikka", updated.Items[0].MenuItem.Name)

	sellers, err := orders.TopSellers(ctx, models.StatusDelivered, 5)
	require.NoError(t, err)
	require.Len(t, sellers, 2)
	assert.Equal(t, x.ID, sellers[0].MenuItemID)
	assert.True(t, sellers[0].TotalRevenue.Equal(decimal.NewFromInt(498)))

	list, total, err := orders.Find(ctx, OrderFilter{Status: models.StatusPending, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)

	seq := store.Sequencer()
	first, err := seq.Next(ctx, "order_number")
	require.NoError(t, err)
	second, err := seq.Next(ctx, "order_number")
	require.NoError(t, err)
	assert.Equal(t, first+1, second)
}
