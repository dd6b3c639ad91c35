package repository

import (
	"context"

	"megano/internal/app/shop/entity"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository создает новый репозиторий отзывов
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create создает новый отзыв
func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	result := r.db.WithContext(ctx).Create(review)
	return result.Error
}

// GetByProductID получает все отзывы о товаре в порядке создания
func (r *reviewRepository) GetByProductID(ctx context.Context, productID uint) ([]entity.Review, error) {
	var reviews []entity.Review
	result := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id ASC").
		Find(&reviews)

	if result.Error != nil {
		return nil, result.Error
	}

	return reviews, nil
}

// AverageRate вычисляет средний рейтинг товара и количество отзывов
// Для товара без отзывов возвращает ноль и count 0
func (r *reviewRepository) AverageRate(ctx context.Context, productID uint) (decimal.Decimal, int, error) {
	var row struct {
		Avg   *float64
		Count int64
	}

	result := r.db.WithContext(ctx).Model(&entity.Review{}).
		Select("AVG(rate) AS avg, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Scan(&row)

	if result.Error != nil {
		return decimal.Zero, 0, result.Error
	}

	if row.Avg == nil {
		return decimal.Zero, 0, nil
	}

	return decimal.NewFromFloat(*row.Avg).Round(2), int(row.Count), nil
}
