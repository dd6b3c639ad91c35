package repository

import (
	"context"
	"errors"

	"megano/internal/app/shop/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type basketRepository struct {
	db *gorm.DB
}

// NewBasketRepository создает новый репозиторий корзин
func NewBasketRepository(db *gorm.DB) BasketRepository {
	return &basketRepository{db: db}
}

// GetOrCreateByOwner получает корзину владельца, создавая её при первой записи
// Уникальный индекс по owner_id гарантирует не более одной корзины на владельца
func (r *basketRepository) GetOrCreateByOwner(ctx context.Context, ownerID string) (*entity.Basket, error) {
	var basket entity.Basket
	result := r.db.WithContext(ctx).
		Where(entity.Basket{OwnerID: ownerID}).
		FirstOrCreate(&basket)

	if result.Error != nil {
		return nil, result.Error
	}

	return &basket, nil
}

// GetByOwner получает корзину владельца с позициями
func (r *basketRepository) GetByOwner(ctx context.Context, ownerID string) (*entity.Basket, error) {
	var basket entity.Basket
	result := r.db.WithContext(ctx).
		Preload("Items").
		First(&basket, "owner_id = ?", ownerID)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrBasketNotFound
		}
		return nil, result.Error
	}

	return &basket, nil
}

// GetByID получает корзину по ID с позициями
// Используется при рендере заказа, ссылающегося на корзину
func (r *basketRepository) GetByID(ctx context.Context, id uint) (*entity.Basket, error) {
	var basket entity.Basket
	result := r.db.WithContext(ctx).
		Preload("Items").
		First(&basket, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrBasketNotFound
		}
		return nil, result.Error
	}

	return &basket, nil
}

// UpsertItem атомарно создает позицию или ЗАМЕНЯЕТ её количество
// Конфликт разрешается по уникальной паре (basket_id, product_id), поэтому
// конкурирующие записи не теряют обновлений
func (r *basketRepository) UpsertItem(ctx context.Context, basketID, productID uint, quantity int) error {
	item := entity.BasketItem{
		BasketID:  basketID,
		ProductID: productID,
		Quantity:  quantity,
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "basket_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"quantity": quantity}),
		}).
		Create(&item)

	return result.Error
}

// GetItem получает позицию корзины по товару
func (r *basketRepository) GetItem(ctx context.Context, basketID, productID uint) (*entity.BasketItem, error) {
	var item entity.BasketItem
	result := r.db.WithContext(ctx).
		First(&item, "basket_id = ? AND product_id = ?", basketID, productID)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrBasketItemNotFound
		}
		return nil, result.Error
	}

	return &item, nil
}

// UpdateItemQuantity устанавливает количество в позиции
func (r *basketRepository) UpdateItemQuantity(ctx context.Context, itemID uint, quantity int) error {
	result := r.db.WithContext(ctx).Model(&entity.BasketItem{}).
		Where("id = ?", itemID).
		UpdateColumn("quantity", quantity)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrBasketItemNotFound
	}

	return nil
}

// DeleteItem удаляет позицию корзины целиком
func (r *basketRepository) DeleteItem(ctx context.Context, itemID uint) error {
	result := r.db.WithContext(ctx).Delete(&entity.BasketItem{}, "id = ?", itemID)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrBasketItemNotFound
	}

	return nil
}
