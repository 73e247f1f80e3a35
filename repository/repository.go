// Package repository holds the storage boundary of the back office: the
// catalog and ledger interfaces the services depend on, and their GORM,
// MongoDB and Redis implementations.
package repository

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/restaurant-backoffice/models"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

// MenuFilter narrows a catalog listing. Zero values mean "any".
type MenuFilter struct {
	Category    models.Category
	IsAvailable *bool
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
}

// OrderFilter narrows and pages a ledger listing, newest orders first.
type OrderFilter struct {
	Status models.OrderStatus
	Offset int
	Limit  int
}

type MenuRepository interface {
	Create(ctx context.Context, item *models.MenuItem) error
	FindByID(ctx context.Context, id string) (*models.MenuItem, error)
	Find(ctx context.Context, filter MenuFilter) ([]models.MenuItem, error)
	Search(ctx context.Context, query string) ([]models.MenuItem, error)
	Save(ctx context.Context, item *models.MenuItem) error
	Delete(ctx context.Context, id string) error
	// ToggleAvailability flips is_available in a single atomic update and
	// returns the item as stored afterwards.
	ToggleAvailability(ctx context.Context, id string) (*models.MenuItem, error)
	Count(ctx context.Context) (int64, error)
}

type OrderRepository interface {
	// Create inserts the order with its lines and history in one atomic write.
	// A clash on the order number yields ErrDuplicateKey.
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id string) (*models.Order, error)
	Find(ctx context.Context, filter OrderFilter) ([]models.Order, int64, error)
	// AppendStatus sets the current status and pushes entry onto the history
	// in one atomic write.
	AppendStatus(ctx context.Context, id string, entry models.StatusEntry) (*models.Order, error)
	TopSellers(ctx context.Context, status models.OrderStatus, limit int) ([]models.TopSeller, error)
	CountByStatus(ctx context.Context) ([]models.StatusCount, error)
}

// Sequencer hands out strictly increasing values per name. A value is never
// handed out twice, gaps are allowed.
type Sequencer interface {
	Next(ctx context.Context, name string) (int64, error)
}
