package repository

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/restaurant-backoffice/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Field names follow the collections the dashboard was first built against.

type menuItemDocument struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty"`
	Name            string               `bson:"name"`
	Description     string               `bson:"description,omitempty"`
	Category        string               `bson:"category"`
	Price           primitive.Decimal128 `bson:"price"`
	Ingredients     []string             `bson:"ingredients"`
	IsAvailable     bool                 `bson:"isAvailable"`
	PreparationTime *int                 `bson:"preparationTime,omitempty"`
	ImageURL        string               `bson:"imageUrl,omitempty"`
	CreatedAt       time.Time            `bson:"createdAt"`
	UpdatedAt       time.Time            `bson:"updatedAt"`
}

type orderItemDocument struct {
	MenuItem primitive.ObjectID   `bson:"menuItem"`
	Quantity int                  `bson:"quantity"`
	Price    primitive.Decimal128 `bson:"price"`
}

type statusEntryDocument struct {
	Status    string    `bson:"status"`
	Timestamp time.Time `bson:"timestamp"`
}

type orderDocument struct {
	ID            primitive.ObjectID    `bson:"_id,omitempty"`
	OrderNumber   string                `bson:"orderNumber"`
	Items         []orderItemDocument   `bson:"items"`
	TotalAmount   primitive.Decimal128  `bson:"totalAmount"`
	Status        string                `bson:"status"`
	CustomerName  string                `bson:"customerName"`
	TableNumber   int                   `bson:"tableNumber"`
	StatusHistory []statusEntryDocument `bson:"statusHistory"`
	CreatedAt     time.Time             `bson:"createdAt"`
	UpdatedAt     time.Time             `bson:"updatedAt"`
}

type topSellerDocument struct {
	ID            primitive.ObjectID   `bson:"_id"`
	Name          string               `bson:"name"`
	Category      string               `bson:"category"`
	Price         primitive.Decimal128 `bson:"price"`
	TotalQuantity int64                `bson:"totalQuantity"`
	TotalRevenue  primitive.Decimal128 `bson:"totalRevenue"`
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("convert %s to decimal128: %w", d, err)
	}
	return v, nil
}

func fromDecimal128(v primitive.Decimal128) decimal.Decimal {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

// parseObjectID treats a malformed id like an unknown one.
func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return oid, nil
}

func newMenuItemDocument(item *models.MenuItem) (*menuItemDocument, error) {
	price, err := toDecimal128(item.Price)
	if err != nil {
		return nil, err
	}
	doc := &menuItemDocument{
		Name:            item.Name,
		Description:     item.Description,
		Category:        string(item.Category),
		Price:           price,
		Ingredients:     item.Ingredients,
		IsAvailable:     item.IsAvailable,
		PreparationTime: item.PreparationTime,
		ImageURL:        item.ImageURL,
		CreatedAt:       item.CreatedAt,
		UpdatedAt:       item.UpdatedAt,
	}
	if doc.Ingredients == nil {
		doc.Ingredients = []string{}
	}
	if item.ID != "" {
		oid, err := parseObjectID(item.ID)
		if err != nil {
			return nil, err
		}
		doc.ID = oid
	}
	return doc, nil
}

func (d *menuItemDocument) model() models.MenuItem {
	ingredients := d.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}
	return models.MenuItem{
		ID:              d.ID.Hex(),
		Name:            d.Name,
		Description:     d.Description,
		Category:        models.Category(d.Category),
		Price:           fromDecimal128(d.Price),
		Ingredients:     ingredients,
		IsAvailable:     d.IsAvailable,
		PreparationTime: d.PreparationTime,
		ImageURL:        d.ImageURL,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func newOrderDocument(order *models.Order) (*orderDocument, error) {
	total, err := toDecimal128(order.TotalAmount)
	if err != nil {
		return nil, err
	}
	doc := &orderDocument{
		OrderNumber:   order.OrderNumber,
		TotalAmount:   total,
		Status:        string(order.Status),
		CustomerName:  order.CustomerName,
		TableNumber:   order.TableNumber,
		Items:         make([]orderItemDocument, 0, len(order.Items)),
		StatusHistory: make([]statusEntryDocument, 0, len(order.StatusHistory)),
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
	for _, line := range order.Items {
		menuID, err := parseObjectID(line.MenuItemID)
		if err != nil {
			return nil, fmt.Errorf("line menu item %q: %w", line.MenuItemID, err)
		}
		price, err := toDecimal128(line.UnitPrice)
		if err != nil {
			return nil, err
		}
		doc.Items = append(doc.Items, orderItemDocument{MenuItem: menuID, Quantity: line.Quantity, Price: price})
	}
	for _, entry := range order.StatusHistory {
		doc.StatusHistory = append(doc.StatusHistory, statusEntryDocument{
			Status:    string(entry.Status),
			Timestamp: entry.Timestamp,
		})
	}
	return doc, nil
}

func (d *orderDocument) model() models.Order {
	order := models.Order{
		ID:            d.ID.Hex(),
		OrderNumber:   d.OrderNumber,
		TotalAmount:   fromDecimal128(d.TotalAmount),
		Status:        models.OrderStatus(d.Status),
		CustomerName:  d.CustomerName,
		TableNumber:   d.TableNumber,
		Items:         make([]models.OrderItem, 0, len(d.Items)),
		StatusHistory: make([]models.StatusEntry, 0, len(d.StatusHistory)),
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	for _, line := range d.Items {
		order.Items = append(order.Items, models.OrderItem{
			OrderID:    order.ID,
			MenuItemID: line.MenuItem.Hex(),
			Quantity:   line.Quantity,
			UnitPrice:  fromDecimal128(line.Price),
		})
	}
	for _, entry := range d.StatusHistory {
		order.StatusHistory = append(order.StatusHistory, models.StatusEntry{
			OrderID:   order.ID,
			Status:    models.OrderStatus(entry.Status),
			Timestamp: entry.Timestamp,
		})
	}
	return order
}

func (d *topSellerDocument) model() models.TopSeller {
	return models.TopSeller{
		MenuItemID:    d.ID.Hex(),
		Name:          d.Name,
		Category:      models.Category(d.Category),
		Price:         fromDecimal128(d.Price),
		TotalQuantity: d.TotalQuantity,
		TotalRevenue:  fromDecimal128(d.TotalRevenue),
	}
}
