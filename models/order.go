package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Order struct {
	ID            string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OrderNumber   string          `gorm:"type:varchar(40);uniqueIndex;not null" json:"order_number"`
	Items         []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Status        OrderStatus     `gorm:"type:varchar(20);not null;index:idx_order_status_created" json:"status"`
	StatusHistory []StatusEntry   `gorm:"foreignKey:OrderID" json:"status_history"`
	CustomerName  string          `gorm:"type:varchar(255);not null" json:"customer_name"`
	TableNumber   int             `gorm:"not null" json:"table_number"`
	CreatedAt     time.Time       `gorm:"not null;index:idx_order_status_created" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null" json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// StatusEntry is one immutable line of an order's status history.
type StatusEntry struct {
	ID        uint        `gorm:"primaryKey" json:"-"`
	OrderID   string      `gorm:"type:varchar(36);not null;index" json:"-"`
	Status    OrderStatus `gorm:"type:varchar(20);not null" json:"status"`
	Timestamp time.Time   `gorm:"not null" json:"timestamp"`
}

func (StatusEntry) TableName() string {
	return "order_status_history"
}

// CurrentStatusMatchesHistory is true when the last history entry agrees with
// the order's status.
func (o *Order) CurrentStatusMatchesHistory() bool {
	if len(o.StatusHistory) == 0 {
		return false
	}
	return o.StatusHistory[len(o.StatusHistory)-1].Status == o.Status
}
