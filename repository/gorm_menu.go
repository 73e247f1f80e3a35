package repository

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/yeremiapane/restaurant-backoffice/models"
	"gorm.io/gorm"
)

type GormMenuRepository struct {
	DB *gorm.DB
}

func NewGormMenuRepository(db *gorm.DB) *GormMenuRepository {
	return &GormMenuRepository{DB: db}
}

func (r *GormMenuRepository) Create(ctx context.Context, item *models.MenuItem) error {
	return r.DB.WithContext(ctx).Create(item).Error
}

func (r *GormMenuRepository) FindByID(ctx context.Context, id string) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.DB.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, translateGormError(err)
	}
	return &item, nil
}

func (r *GormMenuRepository) Find(ctx context.Context, filter MenuFilter) ([]models.MenuItem, error) {
	q := r.DB.WithContext(ctx).Model(&models.MenuItem{})
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.IsAvailable != nil {
		q = q.Where("is_available = ?", *filter.IsAvailable)
	}
	if filter.MinPrice != nil {
		q = q.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("price <= ?", *filter.MaxPrice)
	}

	items := []models.MenuItem{}
	if err := q.Order("created_at DESC").Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Search matches any word of query against the name or one of the
// ingredients, case-insensitively. Words are matched literally and words
// without a letter or digit are ignored.
func (r *GormMenuRepository) Search(ctx context.Context, query string) ([]models.MenuItem, error) {
	items := []models.MenuItem{}
	terms := searchTerms(query)
	if len(terms) == 0 {
		return items, nil
	}

	ingredientMatch := r.ingredientMatch()
	cond := r.DB.Where("1 = 0")
	for _, term := range terms {
		like := "%" + likeEscaper.Replace(term) + "%"
		cond = cond.Or("LOWER(name) LIKE ? ESCAPE '!'", like).Or(ingredientMatch, like)
	}

	if err := r.DB.WithContext(ctx).Model(&models.MenuItem{}).Where(cond).Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ingredientMatch tests the pattern against each element of the ingredients
// array rather than its serialized form.
func (r *GormMenuRepository) ingredientMatch() string {
	if r.DB.Dialector.Name() == "mysql" {
		return "JSON_SEARCH(LOWER(ingredients), 'one', ?, '!') IS NOT NULL"
	}
	return "EXISTS (SELECT 1 FROM json_each(CASE WHEN json_valid(menu_items.ingredients) THEN menu_items.ingredients ELSE '[]' END) AS ing WHERE LOWER(ing.value) LIKE ? ESCAPE '!')"
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func searchTerms(query string) []string {
	var terms []string
	for _, term := range strings.Fields(strings.ToLower(query)) {
		if strings.IndexFunc(term, func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }) >= 0 {
			terms = append(terms, term)
		}
	}
	return terms
}

func (r *GormMenuRepository) Save(ctx context.Context, item *models.MenuItem) error {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.MenuItem{}).Where("id = ?", item.ID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	if err := r.DB.WithContext(ctx).Save(item).Error; err != nil {
		return translateGormError(err)
	}
	return nil
}

func (r *GormMenuRepository) Delete(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Delete(&models.MenuItem{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormMenuRepository) ToggleAvailability(ctx context.Context, id string) (*models.MenuItem, error) {
	res := r.DB.WithContext(ctx).Model(&models.MenuItem{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"is_available": gorm.Expr("NOT is_available"),
			"updated_at":   time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *GormMenuRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.MenuItem{}).Count(&n).Error
	return n, err
}

func translateGormError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateKey
	default:
		return err
	}
}
