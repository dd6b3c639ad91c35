package mocks

import (
	"context"
	"time"

	"megano/internal/app/shop/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository мок для ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uint) (*entity.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Product), args.Error(1)
}

func (m *MockProductRepository) GetByIDWithRelations(ctx context.Context, id uint) (*entity.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Product), args.Error(1)
}

func (m *MockProductRepository) GetAllWithRelations(ctx context.Context) ([]entity.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Product), args.Error(1)
}

func (m *MockProductRepository) GetByTagName(ctx context.Context, tagName string, limit int) ([]entity.Product, error) {
	args := m.Called(ctx, tagName, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Product), args.Error(1)
}

func (m *MockProductRepository) GetTopRated(ctx context.Context, limit int) ([]entity.Product, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Product), args.Error(1)
}

func (m *MockProductRepository) IncrementOrdersCount(ctx context.Context, id uint, delta int) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

func (m *MockProductRepository) UpdateRating(ctx context.Context, id uint, rating decimal.Decimal) error {
	args := m.Called(ctx, id, rating)
	return args.Error(0)
}

func (m *MockProductRepository) GetAllIDs(ctx context.Context) ([]uint, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

// MockCategoryRepository мок для CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) GetAllWithSubcategories(ctx context.Context) ([]entity.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Category), args.Error(1)
}

// MockReviewRepository мок для ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *entity.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) GetByProductID(ctx context.Context, productID uint) ([]entity.Review, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Review), args.Error(1)
}

func (m *MockReviewRepository) AverageRate(ctx context.Context, productID uint) (decimal.Decimal, int, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(decimal.Decimal), args.Int(1), args.Error(2)
}

// MockSaleRepository мок для SaleRepository
type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) GetActive(ctx context.Context, on time.Time, offset, limit int) ([]entity.Sale, int64, error) {
	args := m.Called(ctx, on, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]entity.Sale), args.Get(1).(int64), args.Error(2)
}

// MockBasketRepository мок для BasketRepository
type MockBasketRepository struct {
	mock.Mock
}

func (m *MockBasketRepository) GetOrCreateByOwner(ctx context.Context, ownerID string) (*entity.Basket, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Basket), args.Error(1)
}

func (m *MockBasketRepository) GetByOwner(ctx context.Context, ownerID string) (*entity.Basket, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Basket), args.Error(1)
}

func (m *MockBasketRepository) GetByID(ctx context.Context, id uint) (*entity.Basket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Basket), args.Error(1)
}

func (m *MockBasketRepository) UpsertItem(ctx context.Context, basketID, productID uint, quantity int) error {
	args := m.Called(ctx, basketID, productID, quantity)
	return args.Error(0)
}

func (m *MockBasketRepository) GetItem(ctx context.Context, basketID, productID uint) (*entity.BasketItem, error) {
	args := m.Called(ctx, basketID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.BasketItem), args.Error(1)
}

func (m *MockBasketRepository) UpdateItemQuantity(ctx context.Context, itemID uint, quantity int) error {
	args := m.Called(ctx, itemID, quantity)
	return args.Error(0)
}

func (m *MockBasketRepository) DeleteItem(ctx context.Context, itemID uint) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}

// MockOrderRepository мок для OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *entity.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uint) (*entity.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByOwner(ctx context.Context, ownerID string) ([]entity.Order, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id uint, status entity.OrderStatus, paymentError string) error {
	args := m.Called(ctx, id, status, paymentError)
	return args.Error(0)
}

// MockPaymentRepository мок для PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

// MockDeliveryPriceRepository мок для DeliveryPriceRepository
type MockDeliveryPriceRepository struct {
	mock.Mock
}

func (m *MockDeliveryPriceRepository) Get(ctx context.Context) (*entity.DeliveryPrice, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DeliveryPrice), args.Error(1)
}

func (m *MockDeliveryPriceRepository) Seed(ctx context.Context, prices *entity.DeliveryPrice) error {
	args := m.Called(ctx, prices)
	return args.Error(0)
}

// MockMessagePublisher мок для Kafka MessagePublisher
type MockMessagePublisher struct {
	mock.Mock
	Messages [][]byte
}

func (m *MockMessagePublisher) PublishMessage(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	if args.Error(0) == nil {
		m.Messages = append(m.Messages, value)
	}
	return args.Error(0)
}

func (m *MockMessagePublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockPaymentGateway мок для платежного шлюза
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) Charge(ctx context.Context, req *entity.PaymentRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
