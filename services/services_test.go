package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-backoffice/database"
	"github.com/yeremiapane/restaurant-backoffice/models"
	"github.com/yeremiapane/restaurant-backoffice/repository"
	"github.com/yeremiapane/restaurant-backoffice/services"
	"github.com/yeremiapane/restaurant-backoffice/utils"
	"gorm.io/gorm"
)

type fixture struct {
	db     *gorm.DB
	menus  *repository.GormMenuRepository
	orders *repository.GormOrderRepository
	menu   *services.MenuService
	order  *services.OrderService
}

func setup(t *testing.T, cache services.ReportCache) *fixture {
	t.Helper()
	db, err := database.OpenInMemory(strings.ReplaceAll(t.Name(), "/", "_"))
	require.NoError(t, err)

	f := &fixture{
		db:     db,
		menus:  repository.NewGormMenuRepository(db),
		orders: repository.NewGormOrderRepository(db),
	}
	f.menu = services.NewMenuService(f.menus, cache)
	f.order = services.NewOrderService(f.orders, f.menus, repository.NewGormSequencer(db), cache, "ORD")
	return f
}

func (f *fixture) addItem(t *testing.T, name string, price int64, available bool) *models.MenuItem {
	t.Helper()
	p := decimal.NewFromInt(price)
	item, err := f.menu.CreateMenuItem(context.Background(), services.CreateMenuItemRequest{
		Name:        name,
		Category:    models.CategoryMainCourse,
		Price:       &p,
		IsAvailable: &available,
	})
	require.NoError(t, err)
	return item
}

func (f *fixture) countOrders(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&models.Order{}).Count(&n).Error)
	return n
}

func requireKind(t *testing.T, err error, kind utils.ErrorKind) *utils.AppError {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, utils.KindOf(err), err.Error())
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr
}

// memoryCache is a ReportCache held in memory.
type memoryCache struct {
	sellers     []models.TopSeller
	stored      bool
	generation  int64
	loads       int
	invalidated int
}

func (c *memoryCache) LoadTopSellers(context.Context) ([]models.TopSeller, int64, bool, error) {
	c.loads++
	return c.sellers, c.generation, c.stored, nil
}

func (c *memoryCache) StoreTopSellers(_ context.Context, generation int64, sellers []models.TopSeller) error {
	if generation != c.generation {
		return nil
	}
	c.sellers, c.stored = sellers, true
	return nil
}

func (c *memoryCache) InvalidateReports(context.Context) error {
	c.sellers, c.stored = nil, false
	c.generation++
	c.invalidated++
	return nil
}
