package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-backoffice/models"
	"github.com/yeremiapane/restaurant-backoffice/repository"
	"github.com/yeremiapane/restaurant-backoffice/utils"
)

var menuItemMessages = map[string]string{
	"name.required":        "Menu item name is required",
	"name.min":             "Menu item name is required",
	"name.max":             "Menu item name cannot exceed 100 characters",
	"description.max":      "Description cannot exceed 500 characters",
	"category.required":    "Category is required",
	"category.enum":        "%v is not a valid category",
	"price.required":       "Price is required",
	"price.gte":            "Price cannot be negative",
	"preparation_time.gte": "Preparation time cannot be negative",
	"image_url.max":        "Image URL cannot exceed 500 characters",
}

type CreateMenuItemRequest struct {
	Name            string           `json:"name" validate:"required,max=100"`
	Description     string           `json:"description" validate:"max=500"`
	Category        models.Category  `json:"category" validate:"required,enum"`
	Price           *decimal.Decimal `json:"price" validate:"required,gte=0"`
	Ingredients     []string         `json:"ingredients"`
	IsAvailable     *bool            `json:"is_available"`
	PreparationTime *int             `json:"preparation_time" validate:"omitnil,gte=0"`
	ImageURL        string           `json:"image_url" validate:"max=500"`
}

// UpdateMenuItemRequest is a partial update. Nil fields are left untouched.
type UpdateMenuItemRequest struct {
	Name            *string          `json:"name" validate:"omitnil,min=1,max=100"`
	Description     *string          `json:"description" validate:"omitnil,max=500"`
	Category        *models.Category `json:"category" validate:"omitnil,enum"`
	Price           *decimal.Decimal `json:"price" validate:"omitnil,gte=0"`
	Ingredients     []string         `json:"ingredients"`
	IsAvailable     *bool            `json:"is_available"`
	PreparationTime *int             `json:"preparation_time" validate:"omitnil,gte=0"`
	ImageURL        *string          `json:"image_url" validate:"omitnil,max=500"`
}

// MenuQuery carries the raw list filters as they arrive on the query string.
type MenuQuery struct {
	Category    string
	IsAvailable string
	MinPrice    string
	MaxPrice    string
}

type MenuService struct {
	repo  repository.MenuRepository
	cache ReportCache
	Now   func() time.Time
}

func NewMenuService(repo repository.MenuRepository, cache ReportCache) *MenuService {
	return &MenuService{repo: repo, cache: cache, Now: time.Now}
}

func cleanIngredients(in []string) []string {
	out := make([]string, 0, len(in))
	for _, ingredient := range in {
		if ingredient = strings.TrimSpace(ingredient); ingredient != "" {
			out = append(out, ingredient)
		}
	}
	return out
}

// CreateMenuItem validates and stores a new catalog entry. Items are
// available unless the request says otherwise.
func (s *MenuService) CreateMenuItem(ctx context.Context, req CreateMenuItemRequest) (*models.MenuItem, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	req.Category = models.Category(strings.TrimSpace(string(req.Category)))
	req.ImageURL = strings.TrimSpace(req.ImageURL)

	if err := utils.Validate(req, menuItemMessages); err != nil {
		return nil, err
	}

	now := s.Now().UTC()
	item := &models.MenuItem{
		Name:            req.Name,
		Description:     req.Description,
		Category:        req.Category,
		Price:           *req.Price,
		Ingredients:     cleanIngredients(req.Ingredients),
		IsAvailable:     true,
		PreparationTime: req.PreparationTime,
		ImageURL:        req.ImageURL,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, utils.Unexpected("Error creating menu item", err)
	}
	invalidateReports(ctx, s.cache)

	logFields(logrus.Fields{"menu_item_id": item.ID, "name": item.Name}).Info("Menu item created")
	return item, nil
}

func (s *MenuService) GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Menu item not found", "Error fetching menu item")
	}
	return item, nil
}

// parseMenuQuery checks every supplied filter and reports all the bad ones
// at once.
func parseMenuQuery(q MenuQuery) (repository.MenuFilter, error) {
	var (
		filter repository.MenuFilter
		fields []string
	)

	if c := strings.TrimSpace(q.Category); c != "" {
		filter.Category = models.Category(c)
		if !filter.Category.Valid() {
			fields = append(fields, c+" is not a valid category")
		}
	}
	if a := strings.TrimSpace(q.IsAvailable); a != "" {
		available, err := strconv.ParseBool(a)
		if err != nil {
			fields = append(fields, "is_available must be true or false")
		} else {
			filter.IsAvailable = &available
		}
	}
	parsePrice := func(raw, name string) *decimal.Decimal {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			fields = append(fields, name+" must be a number")
			return nil
		}
		return &d
	}
	filter.MinPrice = parsePrice(q.MinPrice, "min_price")
	filter.MaxPrice = parsePrice(q.MaxPrice, "max_price")

	if len(fields) > 0 {
		return filter, utils.ValidationFailed("Validation error", fields...)
	}
	return filter, nil
}

// ListMenuItems returns the catalog, newest first, narrowed by any filters
// present in q.
func (s *MenuService) ListMenuItems(ctx context.Context, q MenuQuery) ([]models.MenuItem, error) {
	filter, err := parseMenuQuery(q)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.Find(ctx, filter)
	if err != nil {
		return nil, utils.Unexpected("Error fetching menu items", err)
	}
	return items, nil
}

// SearchMenuItems matches query against item names and ingredients.
func (s *MenuService) SearchMenuItems(ctx context.Context, query string) ([]models.MenuItem, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, utils.ValidationFailed("Search query is required", "Search query is required")
	}
	items, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, utils.Unexpected("Error searching menu items", err)
	}
	return items, nil
}

// UpdateMenuItem applies the supplied fields only. Prices already captured on
// orders are not affected.
func (s *MenuService) UpdateMenuItem(ctx context.Context, id string, req UpdateMenuItemRequest) (*models.MenuItem, error) {
	trim := func(p *string) {
		if p != nil {
			*p = strings.TrimSpace(*p)
		}
	}
	trim(req.Name)
	trim(req.Description)
	trim(req.ImageURL)

	if err := utils.Validate(req, menuItemMessages); err != nil {
		return nil, err
	}

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Menu item not found", "Error updating menu item")
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.Ingredients != nil {
		item.Ingredients = cleanIngredients(req.Ingredients)
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
	if req.PreparationTime != nil {
		item.PreparationTime = req.PreparationTime
	}
	if req.ImageURL != nil {
		item.ImageURL = *req.ImageURL
	}
	item.UpdatedAt = s.Now().UTC()

	if err := s.repo.Save(ctx, item); err != nil {
		return nil, lookupError(err, "Menu item not found", "Error updating menu item")
	}
	invalidateReports(ctx, s.cache)

	logFields(logrus.Fields{"menu_item_id": item.ID}).Info("Menu item updated")
	return item, nil
}

func (s *MenuService) DeleteMenuItem(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(err, "Menu item not found", "Error deleting menu item")
	}
	invalidateReports(ctx, s.cache)

	logFields(logrus.Fields{"menu_item_id": id}).Info("Menu item deleted")
	return nil
}

// ToggleAvailability flips the item's availability in one atomic update.
// Orders already placed are unaffected.
func (s *MenuService) ToggleAvailability(ctx context.Context, id string) (*models.MenuItem, error) {
	item, err := s.repo.ToggleAvailability(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Menu item not found", "Error toggling availability")
	}
	invalidateReports(ctx, s.cache)

	logFields(logrus.Fields{
		"menu_item_id": item.ID,
		"is_available": item.IsAvailable,
	}).Info("Menu item availability toggled")
	return item, nil
}

// CatalogSize is the number of items in the catalog.
func (s *MenuService) CatalogSize(ctx context.Context) (int64, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, utils.Unexpected("Error counting menu items", err)
	}
	return n, nil
}
