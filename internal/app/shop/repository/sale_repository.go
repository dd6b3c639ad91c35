package repository

import (
	"context"
	"time"

	"megano/internal/app/shop/entity"

	"gorm.io/gorm"
)

type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository создает новый репозиторий акций
func NewSaleRepository(db *gorm.DB) SaleRepository {
	return &saleRepository{db: db}
}

// GetActive получает страницу акций, активных на указанную дату
// (границы диапазона включительно), и общее число активных акций
func (r *saleRepository) GetActive(ctx context.Context, on time.Time, offset, limit int) ([]entity.Sale, int64, error) {
	day := on.Format("2006-01-02")

	var total int64
	countResult := r.db.WithContext(ctx).Model(&entity.Sale{}).
		Where("date_from <= ? AND date_to >= ?", day, day).
		Count(&total)
	if countResult.Error != nil {
		return nil, 0, countResult.Error
	}

	var sales []entity.Sale
	result := r.db.WithContext(ctx).
		Where("date_from <= ? AND date_to >= ?", day, day).
		Preload("Product").
		Preload("Product.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_images.id ASC")
		}).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&sales)

	if result.Error != nil {
		return nil, 0, result.Error
	}

	return sales, total, nil
}
