package repository

import (
	"context"
	"errors"
	"time"

	"megano/internal/app/shop/entity"

	"github.com/shopspring/decimal"
)

var (
	// Стандартные ошибки репозиториев для обработки в service layer
	ErrProductNotFound       = errors.New("product not found")
	ErrBasketNotFound        = errors.New("basket not found")
	ErrBasketItemNotFound    = errors.New("basket item not found")
	ErrOrderNotFound         = errors.New("order not found")
	ErrDeliveryPriceNotFound = errors.New("delivery price not configured")
)

type ProductRepository interface {
	GetByID(ctx context.Context, id uint) (*entity.Product, error)
	GetByIDWithRelations(ctx context.Context, id uint) (*entity.Product, error)
	GetAllWithRelations(ctx context.Context) ([]entity.Product, error)
	GetByTagName(ctx context.Context, tagName string, limit int) ([]entity.Product, error)
	GetTopRated(ctx context.Context, limit int) ([]entity.Product, error)
	IncrementOrdersCount(ctx context.Context, id uint, delta int) error
	UpdateRating(ctx context.Context, id uint, rating decimal.Decimal) error
	GetAllIDs(ctx context.Context) ([]uint, error)
}

type CategoryRepository interface {
	GetAllWithSubcategories(ctx context.Context) ([]entity.Category, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	GetByProductID(ctx context.Context, productID uint) ([]entity.Review, error)
	AverageRate(ctx context.Context, productID uint) (decimal.Decimal, int, error)
}

type SaleRepository interface {
	GetActive(ctx context.Context, on time.Time, offset, limit int) ([]entity.Sale, int64, error)
}

type BasketRepository interface {
	GetOrCreateByOwner(ctx context.Context, ownerID string) (*entity.Basket, error)
	GetByOwner(ctx context.Context, ownerID string) (*entity.Basket, error)
	GetByID(ctx context.Context, id uint) (*entity.Basket, error)
	UpsertItem(ctx context.Context, basketID, productID uint, quantity int) error
	GetItem(ctx context.Context, basketID, productID uint) (*entity.BasketItem, error)
	UpdateItemQuantity(ctx context.Context, itemID uint, quantity int) error
	DeleteItem(ctx context.Context, itemID uint) error
}

type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id uint) (*entity.Order, error)
	GetByOwner(ctx context.Context, ownerID string) ([]entity.Order, error)
	UpdateStatus(ctx context.Context, id uint, status entity.OrderStatus, paymentError string) error
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
}

type DeliveryPriceRepository interface {
	Get(ctx context.Context) (*entity.DeliveryPrice, error)
	Seed(ctx context.Context, prices *entity.DeliveryPrice) error
}
