package repository

import (
	"context"
	"errors"

	"megano/internal/app/shop/entity"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository создает новый репозиторий товаров
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// GetByID получает товар по ID без связей
func (r *productRepository) GetByID(ctx context.Context, id uint) (*entity.Product, error) {
	var product entity.Product
	result := r.db.WithContext(ctx).First(&product, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, result.Error
	}

	return &product, nil
}

// GetByIDWithRelations получает товар со всеми связями для полной карточки
func (r *productRepository) GetByIDWithRelations(ctx context.Context, id uint) (*entity.Product, error) {
	var product entity.Product
	result := r.db.WithContext(ctx).
		Preload("Images").
		Preload("Tags").
		Preload("Reviews").
		Preload("Specifications").
		Preload("Sale").
		First(&product, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, result.Error
	}

	return &product, nil
}

// GetAllWithRelations получает все товары со связями для движка каталога
// Изображения сохраняют порядок вставки
func (r *productRepository) GetAllWithRelations(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	result := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_images.id ASC")
		}).
		Preload("Tags").
		Preload("Reviews").
		Preload("Sale").
		Order("id ASC").
		Find(&products)

	if result.Error != nil {
		return nil, result.Error
	}

	return products, nil
}

// GetByTagName получает товары с указанным тегом для подборок popular/limited
func (r *productRepository) GetByTagName(ctx context.Context, tagName string, limit int) ([]entity.Product, error) {
	var products []entity.Product
	result := r.db.WithContext(ctx).
		Joins("JOIN product_tags ON product_tags.product_id = products.id").
		Joins("JOIN tags ON tags.id = product_tags.tag_id").
		Where("tags.name = ?", tagName).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_images.id ASC")
		}).
		Preload("Tags").
		Preload("Reviews").
		Preload("Sale").
		Order("products.id ASC").
		Limit(limit).
		Find(&products)

	if result.Error != nil {
		return nil, result.Error
	}

	return products, nil
}

// GetTopRated получает товары с ненулевым кешированным рейтингом
// для баннера, по убыванию рейтинга
func (r *productRepository) GetTopRated(ctx context.Context, limit int) ([]entity.Product, error) {
	var products []entity.Product
	result := r.db.WithContext(ctx).
		Where("rating > 0").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_images.id ASC")
		}).
		Preload("Tags").
		Preload("Reviews").
		Preload("Sale").
		Order("rating DESC, id ASC").
		Limit(limit).
		Find(&products)

	if result.Error != nil {
		return nil, result.Error
	}

	return products, nil
}

// IncrementOrdersCount атомарно увеличивает счетчик заказов товара
// Остаток на складе при оформлении не трогается
func (r *productRepository) IncrementOrdersCount(ctx context.Context, id uint, delta int) error {
	result := r.db.WithContext(ctx).Model(&entity.Product{}).
		Where("id = ?", id).
		UpdateColumn("orders_count", gorm.Expr("orders_count + ?", delta))

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// UpdateRating обновляет кешированный рейтинг товара
func (r *productRepository) UpdateRating(ctx context.Context, id uint, rating decimal.Decimal) error {
	result := r.db.WithContext(ctx).Model(&entity.Product{}).
		Where("id = ?", id).
		UpdateColumn("rating", rating)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// GetAllIDs получает ID всех товаров для ночного пересчета рейтингов
func (r *productRepository) GetAllIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	result := r.db.WithContext(ctx).Model(&entity.Product{}).
		Order("id ASC").
		Pluck("id", &ids)

	if result.Error != nil {
		return nil, result.Error
	}

	return ids, nil
}
