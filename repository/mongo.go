package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/yeremiapane/restaurant-backoffice/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	menuCollection    = "menuitems"
	orderCollection   = "orders"
	counterCollection = "counters"
)

// MongoStore owns the client connection and hands out the repositories
// that share it.
type MongoStore struct {
	client   *mongo.Client
	database *mongo.Database
	config   *config.MongoDBConfig
}

func NewMongoStore(ctx context.Context, cfg *config.MongoDBConfig) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return &MongoStore{
		client:   client,
		database: client.Database(cfg.Database),
		config:   cfg,
	}, nil
}

func (m *MongoStore) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

func (m *MongoStore) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *MongoStore) Database() *mongo.Database {
	return m.database
}

// EnsureIndexes creates the indexes the queries rely on. Creating an index
// that already exists is a no-op.
func (m *MongoStore) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	menuIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: "text"}, {Key: "ingredients", Value: "text"}}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "isAvailable", Value: 1}}},
		{Keys: bson.D{{Key: "price", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}
	if _, err := m.database.Collection(menuCollection).Indexes().CreateMany(ctx, menuIndexes); err != nil {
		return fmt.Errorf("create menu indexes: %w", err)
	}

	orderIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "orderNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "items.menuItem", Value: 1}}},
	}
	if _, err := m.database.Collection(orderCollection).Indexes().CreateMany(ctx, orderIndexes); err != nil {
		return fmt.Errorf("create order indexes: %w", err)
	}
	return nil
}

func (m *MongoStore) Menus() *MongoMenuRepository {
	return &MongoMenuRepository{coll: m.database.Collection(menuCollection)}
}

func (m *MongoStore) Orders() *MongoOrderRepository {
	return &MongoOrderRepository{
		coll:  m.database.Collection(orderCollection),
		menus: m.database.Collection(menuCollection),
	}
}

func (m *MongoStore) Sequencer() *MongoSequencer {
	return &MongoSequencer{coll: m.database.Collection(counterCollection)}
}
