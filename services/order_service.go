package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-backoffice/models"
	"github.com/yeremiapane/restaurant-backoffice/repository"
	"github.com/yeremiapane/restaurant-backoffice/utils"
)

const (
	// TopSellersLimit is the length of the best-selling report.
	TopSellersLimit = 5

	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	orderSequenceName      = "order_number"
	maxOrderNumberAttempts = 3
)

var orderMessages = map[string]string{
	"customer_name.required": "Customer name is required",
	"customer_name.max":      "Customer name cannot exceed 100 characters",
	"table_number.min":       "Table number must be at least 1",
	"items.min":              "Order must contain at least one item",
	"menu_item_id.required":  "Menu item is required",
	"quantity.min":           "Quantity must be at least 1",
	"status.enum":            "%v is not a valid status",
	"page.min":               "Page must be at least 1",
	"limit.min":              "Limit must be at least 1",
	"limit.max":              "Limit cannot exceed 100",
}

type OrderLineRequest struct {
	MenuItemID string `json:"menu_item_id" validate:"required"`
	Quantity   int    `json:"quantity" validate:"min=1"`
}

type CreateOrderRequest struct {
	CustomerName string             `json:"customer_name" validate:"required,max=100"`
	TableNumber  int                `json:"table_number" validate:"min=1"`
	Items        []OrderLineRequest `json:"items" validate:"min=1,dive"`
}

// ListOrdersQuery pages through the ledger. Zero Page and Limit take the
// defaults.
type ListOrdersQuery struct {
	Status models.OrderStatus `json:"status" validate:"omitempty,enum"`
	Page   int                `json:"page" validate:"min=1"`
	Limit  int                `json:"limit" validate:"min=1,max=100"`
}

type OrderPage struct {
	Orders []models.Order `json:"orders"`
	Total  int64          `json:"total"`
	Page   int            `json:"page"`
	Limit  int            `json:"limit"`
	Pages  int            `json:"pages"`
}

// OrderService is the order lifecycle controller: it places orders against
// the catalog, moves them between statuses and reports on delivered sales.
type OrderService struct {
	orders    repository.OrderRepository
	menus     repository.MenuRepository
	sequencer repository.Sequencer
	cache     ReportCache
	prefix    string

	Now func() time.Time
}

func NewOrderService(
	orders repository.OrderRepository,
	menus repository.MenuRepository,
	sequencer repository.Sequencer,
	cache ReportCache,
	numberPrefix string,
) *OrderService {
	if numberPrefix == "" {
		numberPrefix = "ORD"
	}
	return &OrderService{
		orders:    orders,
		menus:     menus,
		sequencer: sequencer,
		cache:     cache,
		prefix:    numberPrefix,
		Now:       time.Now,
	}
}

// CreateOrder places an order. Every line is resolved against the catalog
// and must be available; its current price is captured and the total is
// computed from the captured prices. Nothing is stored unless every line
// passes.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*models.Order, error) {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	for i := range req.Items {
		req.Items[i].MenuItemID = strings.TrimSpace(req.Items[i].MenuItemID)
	}
	if err := utils.Validate(req, orderMessages); err != nil {
		return nil, err
	}

	lines := make([]models.OrderItem, 0, len(req.Items))
	total := decimal.Zero
	for _, line := range req.Items {
		item, err := s.menus.FindByID(ctx, line.MenuItemID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, utils.NotFound("Menu item with ID %s not found", line.MenuItemID)
			}
			return nil, utils.Unexpected("Error creating order", err)
		}
		if !item.IsAvailable {
			return nil, utils.InvalidState("%s is currently unavailable", item.Name)
		}

		orderLine := models.OrderItem{
			MenuItemID: item.ID,
			MenuItem:   item,
			Quantity:   line.Quantity,
			UnitPrice:  item.Price,
		}
		total = total.Add(orderLine.Subtotal())
		lines = append(lines, orderLine)
	}

	now := s.Now().UTC()
	order := &models.Order{
		Items:         lines,
		TotalAmount:   total,
		Status:        models.StatusPending,
		StatusHistory: []models.StatusEntry{{Status: models.StatusPending, Timestamp: now}},
		CustomerName:  req.CustomerName,
		TableNumber:   req.TableNumber,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.insertWithNumber(ctx, order); err != nil {
		return nil, err
	}

	logFields(logrus.Fields{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"total":        utils.FormatCurrency(order.TotalAmount),
		"lines":        len(order.Items),
	}).Info("Order created")
	return order, nil
}

// insertWithNumber reserves a sequence value, numbers the order and inserts
// it. A clash on the number is retried with a fresh value.
func (s *OrderService) insertWithNumber(ctx context.Context, order *models.Order) error {
	for attempt := 1; ; attempt++ {
		seq, err := s.sequencer.Next(ctx, orderSequenceName)
		if err != nil {
			return utils.Unexpected("Error creating order", fmt.Errorf("reserve order number: %w", err))
		}
		order.OrderNumber = FormatOrderNumber(s.prefix, order.CreatedAt, seq)

		err = s.orders.Create(ctx, order)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrDuplicateKey) || attempt >= maxOrderNumberAttempts {
			return utils.Unexpected("Error creating order", err)
		}

		utils.ErrorLogger.WithFields(logrus.Fields{
			"order_number": order.OrderNumber,
			"attempt":      attempt,
		}).Warn("Order number already taken, retrying")
		resetInsertState(order)
	}
}

// resetInsertState clears what a failed insert may have assigned.
func resetInsertState(order *models.Order) {
	order.ID = ""
	for i := range order.Items {
		order.Items[i].ID = 0
		order.Items[i].OrderID = ""
	}
	for i := range order.StatusHistory {
		order.StatusHistory[i].ID = 0
		order.StatusHistory[i].OrderID = ""
	}
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Order not found", "Error fetching order")
	}
	return order, nil
}

// ListOrders returns one page of orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, q ListOrdersQuery) (*OrderPage, error) {
	q.Status = models.OrderStatus(strings.TrimSpace(string(q.Status)))
	if q.Page == 0 {
		q.Page = DefaultPage
	}
	if q.Limit == 0 {
		q.Limit = DefaultLimit
	}
	if err := utils.Validate(q, orderMessages); err != nil {
		return nil, err
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		return nil, utils.ValidationFailed("Validation error", "Page is out of range")
	}

	orders, total, err := s.orders.Find(ctx, repository.OrderFilter{
		Status: q.Status,
		Offset: (q.Page - 1) * q.Limit,
		Limit:  q.Limit,
	})
	if err != nil {
		return nil, utils.Unexpected("Error fetching orders", err)
	}

	return &OrderPage{
		Orders: orders,
		Total:  total,
		Page:   q.Page,
		Limit:  q.Limit,
		Pages:  int((total + int64(q.Limit) - 1) / int64(q.Limit)),
	}, nil
}

// UpdateStatus moves an order to status and appends the transition to its
// history. Any status may follow any other, including itself.
func (s *OrderService) UpdateStatus(ctx context.Context, id, status string) (*models.Order, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, utils.ValidationFailed("Status is required", "Status is required")
	}
	target, ok := models.ParseOrderStatus(status)
	if !ok {
		return nil, utils.ValidationFailed("Validation error", fmt.Sprintf("%s is not a valid status", status))
	}

	entry := models.StatusEntry{Status: target, Timestamp: s.Now().UTC()}
	order, err := s.orders.AppendStatus(ctx, id, entry)
	if err != nil {
		return nil, lookupError(err, "Order not found", "Error updating order status")
	}
	invalidateReports(ctx, s.cache)

	logFields(logrus.Fields{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"status":       order.Status,
	}).Info("Order status updated")
	return order, nil
}

// TopSellers ranks menu items by quantity sold over delivered orders only,
// at most TopSellersLimit of them, ties broken by menu item id.
func (s *OrderService) TopSellers(ctx context.Context) ([]models.TopSeller, error) {
	var (
		generation int64
		cacheable  bool
	)
	if s.cache != nil {
		sellers, gen, ok, err := s.cache.LoadTopSellers(ctx)
		switch {
		case err != nil:
			utils.ErrorLogger.WithError(err).Warn("Failed to read top sellers from cache")
		case ok:
			return sellers, nil
		default:
			generation, cacheable = gen, true
		}
	}

	sellers, err := s.orders.TopSellers(ctx, models.StatusDelivered, TopSellersLimit)
	if err != nil {
		return nil, utils.Unexpected("Error fetching top selling items", err)
	}

	if cacheable {
		if err := s.cache.StoreTopSellers(ctx, generation, sellers); err != nil {
			utils.ErrorLogger.WithError(err).Warn("Failed to cache top sellers")
		}
	}
	return sellers, nil
}

// StatusSummary counts orders per status, every status included.
func (s *OrderService) StatusSummary(ctx context.Context) ([]models.StatusCount, error) {
	counts, err := s.orders.CountByStatus(ctx)
	if err != nil {
		return nil, utils.Unexpected("Error fetching order summary", err)
	}
	return counts, nil
}
