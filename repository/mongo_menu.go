package repository

import (
	"context"
	"errors"
	"time"

	"github.com/yeremiapane/restaurant-backoffice/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoMenuRepository struct {
	coll *mongo.Collection
}

func (r *MongoMenuRepository) Create(ctx context.Context, item *models.MenuItem) error {
	doc, err := newMenuItemDocument(item)
	if err != nil {
		return err
	}
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return translateMongoError(err)
	}
	item.ID = doc.ID.Hex()
	item.Ingredients = doc.Ingredients
	return nil
}

func (r *MongoMenuRepository) FindByID(ctx context.Context, id string) (*models.MenuItem, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	var doc menuItemDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translateMongoError(err)
	}
	item := doc.model()
	return &item, nil
}

// menuFilterDocument turns a MenuFilter into a query document.
func menuFilterDocument(filter MenuFilter) (bson.M, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = string(filter.Category)
	}
	if filter.IsAvailable != nil {
		query["isAvailable"] = *filter.IsAvailable
	}
	if filter.MinPrice != nil || filter.MaxPrice != nil {
		price := bson.M{}
		if filter.MinPrice != nil {
			v, err := toDecimal128(*filter.MinPrice)
			if err != nil {
				return nil, err
			}
			price["$gte"] = v
		}
		if filter.MaxPrice != nil {
			v, err := toDecimal128(*filter.MaxPrice)
			if err != nil {
				return nil, err
			}
			price["$lte"] = v
		}
		query["price"] = price
	}
	return query, nil
}

func (r *MongoMenuRepository) Find(ctx context.Context, filter MenuFilter) ([]models.MenuItem, error) {
	query, err := menuFilterDocument(filter)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}})
	return r.findMany(ctx, query, opts)
}

// Search uses the text index over name and ingredients, best match first.
func (r *MongoMenuRepository) Search(ctx context.Context, query string) ([]models.MenuItem, error) {
	score := bson.M{"score": bson.M{"$meta": "textScore"}}
	opts := options.Find().SetProjection(score).SetSort(score)
	return r.findMany(ctx, bson.M{"$text": bson.M{"$search": query}}, opts)
}

func (r *MongoMenuRepository) findMany(ctx context.Context, query interface{}, opts *options.FindOptions) ([]models.MenuItem, error) {
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []menuItemDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	items := make([]models.MenuItem, 0, len(docs))
	for i := range docs {
		items = append(items, docs[i].model())
	}
	return items, nil
}

func (r *MongoMenuRepository) Save(ctx context.Context, item *models.MenuItem) error {
	doc, err := newMenuItemDocument(item)
	if err != nil {
		return err
	}
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return translateMongoError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoMenuRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// toggleAvailabilityUpdate negates the stored flag server side, so the
// read-modify-write happens inside one document update.
func toggleAvailabilityUpdate(now time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "isAvailable", Value: bson.D{{Key: "$not", Value: bson.A{"$isAvailable"}}}},
			{Key: "updatedAt", Value: now},
		}}},
	}
}

func (r *MongoMenuRepository) ToggleAvailability(ctx context.Context, id string) (*models.MenuItem, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc menuItemDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, toggleAvailabilityUpdate(nowUTC()), opts).Decode(&doc)
	if err != nil {
		return nil, translateMongoError(err)
	}
	item := doc.model()
	return &item, nil
}

func (r *MongoMenuRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

func translateMongoError(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicateKey
	default:
		return err
	}
}
