package models

import "github.com/shopspring/decimal"

// OrderItem is one line of an order. UnitPrice is the catalog price at the
// moment the order was placed and never changes afterwards.
type OrderItem struct {
	ID         uint            `gorm:"primaryKey" json:"-"`
	OrderID    string          `gorm:"type:varchar(36);not null;index" json:"-"`
	MenuItemID string          `gorm:"type:varchar(36);not null;index" json:"menu_item_id"`
	MenuItem   *MenuItem       `gorm:"foreignKey:MenuItemID;references:ID" json:"menu_item,omitempty"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
