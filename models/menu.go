package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Prices and totals travel as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

type MenuItem struct {
	ID              string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name            string          `gorm:"type:varchar(255);not null;index" json:"name"`
	Description     string          `gorm:"type:text" json:"description,omitempty"`
	Category        Category        `gorm:"type:varchar(20);not null;index:idx_menu_category_available" json:"category"`
	Price           decimal.Decimal `gorm:"type:decimal(10,2);not null;index" json:"price"`
	Ingredients     []string        `gorm:"type:text;serializer:json" json:"ingredients"`
	IsAvailable     bool            `gorm:"not null;index:idx_menu_category_available" json:"is_available"`
	PreparationTime *int            `json:"preparation_time,omitempty"`
	ImageURL        string          `gorm:"type:varchar(500)" json:"image_url,omitempty"`
	CreatedAt       time.Time       `gorm:"not null;index" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null" json:"updated_at"`
}

func (MenuItem) TableName() string {
	return "menu_items"
}

// BeforeCreate assigns a UUID when the caller did not pick an ID.
func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Ingredients == nil {
		m.Ingredients = []string{}
	}
	return nil
}
