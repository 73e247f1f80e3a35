package repository

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/restaurant-backoffice/models"
	"gorm.io/gorm"
)

type GormOrderRepository struct {
	DB *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{DB: db}
}

// withLines preloads lines with their live menu item and the history in
// insertion order.
func withLines(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id ASC") }).
		Preload("Items.MenuItem").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB { return db.Order("order_status_history.id ASC") })
}

func (r *GormOrderRepository) Create(ctx context.Context, order *models.Order) error {
	// Lines only reference the catalog, they never write to it.
	menuItems := make([]*models.MenuItem, len(order.Items))
	for i := range order.Items {
		menuItems[i] = order.Items[i].MenuItem
		order.Items[i].MenuItem = nil
	}
	defer func() {
		for i := range order.Items {
			order.Items[i].MenuItem = menuItems[i]
		}
	}()

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
	if err != nil {
		return translateGormError(err)
	}
	return nil
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := withLines(r.DB.WithContext(ctx)).First(&order, "id = ?", id).Error; err != nil {
		return nil, translateGormError(err)
	}
	return &order, nil
}

func (r *GormOrderRepository) Find(ctx context.Context, filter OrderFilter) ([]models.Order, int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.Order{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orders := []models.Order{}
	err := withLines(q).
		Order("created_at DESC").
		Order("order_number DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *GormOrderRepository) AppendStatus(ctx context.Context, id string, entry models.StatusEntry) (*models.Order, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Select("id").First(&order, "id = ?", id).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Order{}).Where("id = ?", id).UpdateColumns(map[string]interface{}{
			"status":     entry.Status,
			"updated_at": entry.Timestamp,
		}).Error; err != nil {
			return err
		}

		entry.ID = 0
		entry.OrderID = id
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, translateGormError(err)
	}
	return r.FindByID(ctx, id)
}

// topSellerRow is one (menu item, captured price) group. Quantities are
// summed in SQL; revenue is multiplied out in Go so money stays exact on
// engines that do arithmetic in floating point.
type topSellerRow struct {
	MenuItemID string
	Name       string
	Category   string
	Price      decimal.Decimal
	UnitPrice  decimal.Decimal
	Quantity   int64
}

// TopSellers groups the lines of orders in status by menu item and joins the
// live catalog row. Lines whose menu item was deleted drop out of the join.
func (r *GormOrderRepository) TopSellers(ctx context.Context, status models.OrderStatus, limit int) ([]models.TopSeller, error) {
	var rows []topSellerRow
	err := r.DB.WithContext(ctx).
		Table("order_items AS oi").
		Select(`oi.menu_item_id AS menu_item_id,
			m.name AS name, m.category AS category, m.price AS price,
			oi.unit_price AS unit_price,
			SUM(oi.quantity) AS quantity`).
		Joins("JOIN orders o ON o.id = oi.order_id").
		Joins("JOIN menu_items m ON m.id = oi.menu_item_id").
		Where("o.status = ?", status).
		Group("oi.menu_item_id, m.name, m.category, m.price, oi.unit_price").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	byItem := make(map[string]*models.TopSeller)
	sellers := make([]*models.TopSeller, 0)
	for _, row := range rows {
		seller, ok := byItem[row.MenuItemID]
		if !ok {
			seller = &models.TopSeller{
				MenuItemID:   row.MenuItemID,
				Name:         row.Name,
				Category:     models.Category(row.Category),
				Price:        row.Price,
				TotalRevenue: decimal.Zero,
			}
			byItem[row.MenuItemID] = seller
			sellers = append(sellers, seller)
		}
		seller.TotalQuantity += row.Quantity
		seller.TotalRevenue = seller.TotalRevenue.Add(row.UnitPrice.Mul(decimal.NewFromInt(row.Quantity)))
	}

	sort.Slice(sellers, func(i, j int) bool {
		if sellers[i].TotalQuantity != sellers[j].TotalQuantity {
			return sellers[i].TotalQuantity > sellers[j].TotalQuantity
		}
		return sellers[i].MenuItemID < sellers[j].MenuItemID
	})
	if len(sellers) > limit {
		sellers = sellers[:limit]
	}

	result := make([]models.TopSeller, 0, len(sellers))
	for _, seller := range sellers {
		result = append(result, *seller)
	}
	return result, nil
}

func (r *GormOrderRepository) CountByStatus(ctx context.Context) ([]models.StatusCount, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.DB.WithContext(ctx).Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	byStatus := make(map[models.OrderStatus]int64, len(rows))
	for _, row := range rows {
		byStatus[models.OrderStatus(row.Status)] = row.Count
	}
	return statusCounts(byStatus), nil
}

// statusCounts lists every status, in lifecycle order, including empty ones.
func statusCounts(byStatus map[models.OrderStatus]int64) []models.StatusCount {
	counts := make([]models.StatusCount, 0, len(models.OrderStatuses()))
	for _, st := range models.OrderStatuses() {
		counts = append(counts, models.StatusCount{Status: st, Count: byStatus[st]})
	}
	return counts
}
