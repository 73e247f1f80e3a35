package repository

import (
	"context"
	"time"

	"github.com/yeremiapane/restaurant-backoffice/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoOrderRepository keeps lines and history embedded in the order
// document, so every write to an order is a single-document write.
type MongoOrderRepository struct {
	coll  *mongo.Collection
	menus *mongo.Collection
}

func (r *MongoOrderRepository) Create(ctx context.Context, order *models.Order) error {
	doc, err := newOrderDocument(order)
	if err != nil {
		return err
	}
	doc.ID = primitive.NewObjectID()
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return translateMongoError(err)
	}
	order.ID = doc.ID.Hex()
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	for i := range order.StatusHistory {
		order.StatusHistory[i].OrderID = order.ID
	}
	return nil
}

func (r *MongoOrderRepository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	var doc orderDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translateMongoError(err)
	}
	orders := []models.Order{doc.model()}
	if err := r.populate(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *MongoOrderRepository) Find(ctx context.Context, filter OrderFilter) ([]models.Order, int64, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(filter.Offset))
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var docs []orderDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, err
	}

	orders := make([]models.Order, 0, len(docs))
	for i := range docs {
		orders = append(orders, docs[i].model())
	}
	if err := r.populate(ctx, orders); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// populate attaches the current catalog entry to every order line. Lines
// whose item has since been deleted are left without one.
func (r *MongoOrderRepository) populate(ctx context.Context, orders []models.Order) error {
	seen := make(map[primitive.ObjectID]struct{})
	ids := make([]primitive.ObjectID, 0)
	for _, order := range orders {
		for _, line := range order.Items {
			oid, err := primitive.ObjectIDFromHex(line.MenuItemID)
			if err != nil {
				continue
			}
			if _, ok := seen[oid]; ok {
				continue
			}
			seen[oid] = struct{}{}
			ids = append(ids, oid)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	cursor, err := r.menus.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var docs []menuItemDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return err
	}
	items := make(map[string]models.MenuItem, len(docs))
	for i := range docs {
		item := docs[i].model()
		items[item.ID] = item
	}

	for i := range orders {
		for j := range orders[i].Items {
			if item, ok := items[orders[i].Items[j].MenuItemID]; ok {
				item := item
				orders[i].Items[j].MenuItem = &item
			}
		}
	}
	return nil
}

func (r *MongoOrderRepository) AppendStatus(ctx context.Context, id string, entry models.StatusEntry) (*models.Order, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	update := bson.M{
		"$set": bson.M{"status": string(entry.Status), "updatedAt": entry.Timestamp},
		"$push": bson.M{"statusHistory": statusEntryDocument{
			Status:    string(entry.Status),
			Timestamp: entry.Timestamp,
		}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc orderDocument
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		return nil, translateMongoError(err)
	}
	orders := []models.Order{doc.model()}
	if err := r.populate(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

// topSellersPipeline groups the lines of orders in the given status by menu
// item and joins the live catalog entry. Items no longer in the catalog drop
// out at the $unwind.
func topSellersPipeline(status models.OrderStatus, limit int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "status", Value: string(status)}}}},
		{{Key: "$unwind", Value: "$items"}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$items.menuItem"},
			{Key: "totalQuantity", Value: bson.D{{Key: "$sum", Value: "$items.quantity"}}},
			{Key: "totalRevenue", Value: bson.D{{Key: "$sum", Value: bson.D{
				{Key: "$multiply", Value: bson.A{"$items.quantity", "$items.price"}},
			}}}},
		}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: menuCollection},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "menuItem"},
		}}},
		{{Key: "$unwind", Value: "$menuItem"}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 1},
			{Key: "name", Value: "$menuItem.name"},
			{Key: "category", Value: "$menuItem.category"},
			{Key: "price", Value: "$menuItem.price"},
			{Key: "totalQuantity", Value: 1},
			{Key: "totalRevenue", Value: 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "totalQuantity", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
	}
}

func (r *MongoOrderRepository) TopSellers(ctx context.Context, status models.OrderStatus, limit int) ([]models.TopSeller, error) {
	cursor, err := r.coll.Aggregate(ctx, topSellersPipeline(status, limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []topSellerDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	sellers := make([]models.TopSeller, 0, len(docs))
	for i := range docs {
		sellers = append(sellers, docs[i].model())
	}
	return sellers, nil
}

func (r *MongoOrderRepository) CountByStatus(ctx context.Context) ([]models.StatusCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[models.OrderStatus]int64, len(rows))
	for _, row := range rows {
		counts[models.OrderStatus(row.Status)] = row.Count
	}
	return statusCounts(counts), nil
}

// nowUTC is shared by the Mongo writers that stamp their own times.
func nowUTC() time.Time {
	return time.Now().UTC()
}
