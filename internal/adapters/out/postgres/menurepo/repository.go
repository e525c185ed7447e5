package menurepo

import (
	"context"
	"fmt"

	"dinemate/internal/core/domain/model/menu"

	"gorm.io/gorm"
)

// GormMenuRepository implements MenuRepository using GORM.
type GormMenuRepository struct {
	db *gorm.DB
}

// NewGormMenuRepository creates a new GORM menu repository.
func NewGormMenuRepository(db *gorm.DB) *GormMenuRepository {
	return &GormMenuRepository{db: db}
}

// Load fetches the full catalog. An unreachable store and an empty menu table
// are both reported as menu.ErrCatalogUnavailable: either way no order can be
// priced right now.
func (r *GormMenuRepository) Load(ctx context.Context) (menu.Catalog, error) {
	var dtos []MenuItemDTO
	if err := r.db.WithContext(ctx).Find(&dtos).Error; err != nil {
		return menu.Catalog{}, fmt.Errorf("%w: %s", menu.ErrCatalogUnavailable, err)
	}

	prices := make(map[string]float64, len(dtos))
	for _, dto := range dtos {
		prices[dto.Name] = dto.Price
	}

	return menu.NewCatalog(prices)
}

// Seed inserts the given items when the menu table is empty.
// Used at startup so a fresh database serves a usable menu immediately.
func (r *GormMenuRepository) Seed(ctx context.Context, items map[string]float64) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&MenuItemDTO{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	dtos := make([]MenuItemDTO, 0, len(items))
	for name, price := range items {
		dtos = append(dtos, MenuItemDTO{Name: menu.CanonicalName(name), Price: price})
	}

	return r.db.WithContext(ctx).Create(&dtos).Error
}
