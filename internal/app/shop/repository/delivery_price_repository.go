package repository

import (
	"context"
	"errors"

	"megano/internal/app/shop/entity"

	"gorm.io/gorm"
)

type deliveryPriceRepository struct {
	db *gorm.DB
}

// NewDeliveryPriceRepository создает новый репозиторий конфигурации доставки
func NewDeliveryPriceRepository(db *gorm.DB) DeliveryPriceRepository {
	return &deliveryPriceRepository{db: db}
}

// Get получает единственную запись конфигурации доставки
func (r *deliveryPriceRepository) Get(ctx context.Context) (*entity.DeliveryPrice, error) {
	var prices entity.DeliveryPrice
	result := r.db.WithContext(ctx).Order("id ASC").First(&prices)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrDeliveryPriceNotFound
		}
		return nil, result.Error
	}

	return &prices, nil
}

// Seed создает запись конфигурации, если таблица пуста
// Вызывается при старте сервиса со значениями из конфига
func (r *deliveryPriceRepository) Seed(ctx context.Context, prices *entity.DeliveryPrice) error {
	var count int64
	if result := r.db.WithContext(ctx).Model(&entity.DeliveryPrice{}).Count(&count); result.Error != nil {
		return result.Error
	}

	if count > 0 {
		return nil
	}

	result := r.db.WithContext(ctx).Create(prices)
	return result.Error
}
