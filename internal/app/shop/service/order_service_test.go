package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"megano/internal/app/shop/entity"
	"megano/internal/app/shop/infrastructure/payment"
	"megano/internal/app/shop/repository"
	"megano/internal/app/shop/repository/mocks"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type orderServiceFixture struct {
	orderRepo    *mocks.MockOrderRepository
	basketRepo   *mocks.MockBasketRepository
	productRepo  *mocks.MockProductRepository
	paymentRepo  *mocks.MockPaymentRepository
	deliveryRepo *mocks.MockDeliveryPriceRepository
	gateway      *mocks.MockPaymentGateway
	publisher    *mocks.MockMessagePublisher
	svc          *OrderService
}

func newOrderServiceFixture() *orderServiceFixture {
	f := &orderServiceFixture{
		orderRepo:    new(mocks.MockOrderRepository),
		basketRepo:   new(mocks.MockBasketRepository),
		productRepo:  new(mocks.MockProductRepository),
		paymentRepo:  new(mocks.MockPaymentRepository),
		deliveryRepo: new(mocks.MockDeliveryPriceRepository),
		gateway:      new(mocks.MockPaymentGateway),
		publisher:    &mocks.MockMessagePublisher{Messages: make([][]byte, 0)},
	}
	f.svc = NewOrderService(
		f.orderRepo,
		f.basketRepo,
		f.productRepo,
		f.paymentRepo,
		f.deliveryRepo,
		f.gateway,
		f.publisher,
	)
	return f
}

func testOrderRequest() *entity.CreateOrderRequest {
	return &entity.CreateOrderRequest{
		City:         "Москва",
		Address:      "ул. Ленина, 1",
		DeliveryType: entity.DeliveryTypeStandard,
		PaymentType:  entity.PaymentTypeOnline,
	}
}

func TestCreateOrder_TotalIncludesDeliveryFee(t *testing.T) {
	f := newOrderServiceFixture()
	ctx := context.Background()
	owner := "user:42"

	basket := &entity.Basket{
		ID:      1,
		OwnerID: owner,
		Items: []entity.BasketItem{
			{ID: 1, ProductID: 5, Quantity: 2},
			{ID: 2, ProductID: 6, Quantity: 1},
		},
	}

	f.basketRepo.On("GetByOwner", ctx, owner).Return(basket, nil)
	f.productRepo.On("GetByIDWithRelations", ctx, uint(5)).Return(&entity.Product{
		ID: 5, Price: decimal.RequireFromString("100"),
	}, nil)
	f.productRepo.On("GetByIDWithRelations", ctx, uint(6)).Return(&entity.Product{
		ID: 6, Price: decimal.RequireFromString("50"),
	}, nil)
	f.deliveryRepo.On("Get", ctx).Return(&entity.DeliveryPrice{
		StandardCost:        decimal.RequireFromString("20"),
		FreeDeliveryMinimum: decimal.RequireFromString("300"),
	}, nil)
	f.orderRepo.On("Create", ctx, mock.AnythingOfType("*entity.Order")).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.Order).ID = 10
	})
	f.productRepo.On("IncrementOrdersCount", ctx, uint(5), 2).Return(nil)
	f.productRepo.On("IncrementOrdersCount", ctx, uint(6), 1).Return(nil)
	f.publisher.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(nil)

	order, err := f.svc.CreateOrder(ctx, owner, testOrderRequest())

	assert.NoError(t, err)
	// 100*2 + 50*1 = 250, порог 300 не достигнут, доставка 20
	assert.True(t, order.TotalCost.Equal(decimal.RequireFromString("270")))
	assert.Equal(t, entity.OrderStatusInProgress, order.Status)
	assert.Equal(t, uint(1), order.BasketID)
	f.productRepo.AssertExpectations(t)
}

func TestCreateOrder_FreeDeliveryAboveThreshold(t *testing.T) {
	f := newOrderServiceFixture()
	ctx := context.Background()
	owner := "user:42"

	basket := &entity.Basket{
		ID:      1,
		OwnerID: owner,
		Items:   []entity.BasketItem{{ID: 1, ProductID: 5, Quantity: 2}},
	}

	f.basketRepo.On("GetByOwner", ctx, owner).Return(basket, nil)
	f.productRepo.On("GetByIDWithRelations", ctx, uint(5)).Return(&entity.Product{
		ID: 5, Price: decimal.RequireFromString("100"),
	}, nil)
	f.deliveryRepo.On("Get", ctx).Return(&entity.DeliveryPrice{
		StandardCost:        decimal.RequireFromString("20"),
		FreeDeliveryMinimum: decimal.RequireFromString("150"),
	}, nil)
	f.orderRepo.On("Create", ctx, mock.Anything).Return(nil)
	f.productRepo.On("IncrementOrdersCount", ctx, uint(5), 2).Return(nil)
	f.publisher.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(nil)

	order, err := f.svc.CreateOrder(ctx, owner, testOrderRequest())

	assert.NoError(t, err)
	assert.True(t, order.TotalCost.Equal(decimal.RequireFromString("200")))
}

func TestCreateOrder_SalePriceUsedInSubtotal(t *testing.T) {
	f := newOrderServiceFixture()
	ctx := context.Background()
	owner := "user:42"

	basket := &entity.Basket{
		ID:      1,
		OwnerID: owner,
		Items:   []entity.BasketItem{{ID: 1, ProductID: 5, Quantity: 1}},
	}

	now := time.Now()
	f.basketRepo.On("GetByOwner", ctx, owner).Return(basket, nil)
	f.productRepo.On("GetByIDWithRelations", ctx, uint(5)).Return(&entity.Product{
		ID:    5,
		Price: decimal.RequireFromString("1000"),
		Sale: &entity.Sale{
			DateFrom: now.AddDate(0, 0, -1),
			DateTo:   now.AddDate(0, 0, 1),
			Discount: decimal.RequireFromString("400"),
		},
	}, nil)
	f.deliveryRepo.On("Get", ctx).Return(&entity.DeliveryPrice{
		StandardCost:        decimal.RequireFromString("20"),
		FreeDeliveryMinimum: decimal.RequireFromString("500"),
	}, nil)
	f.orderRepo.On("Create", ctx, mock.Anything).Return(nil)
	f.productRepo.On("IncrementOrdersCount", ctx, uint(5), 1).Return(nil)
	f.publisher.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(nil)

	order, err := f.svc.CreateOrder(ctx, owner, testOrderRequest())

	assert.NoError(t, err)
	// Цена со скидкой 600, порог 500 превышен, доставка бесплатна
	assert.True(t, order.TotalCost.Equal(decimal.RequireFromString("600")))
}

func TestCreateOrder_EmptyBasket(t *testing.T) {
	f := newOrderServiceFixture()
	ctx := context.Background()

	f.basketRepo.On("GetByOwner", ctx, "user:42").Return(&entity.Basket{ID: 1}, nil)

	order, err := f.svc.CreateOrder(ctx, "user:42", testOrderRequest())

	assert.ErrorIs(t, err, ErrBasketEmpty)
	assert.Nil(t, order)
	f.orderRepo.AssertNotCalled(t, "Create")
}

func TestCreateOrder_MissingBasket(t *testing.T) {
	f := newOrderServiceFixture()
	ctx := context.Background()

	f.basketRepo.On("GetByOwner", ctx, "guest:none").Return(nil, repository.ErrBasketNotFound)

	order, err := f.svc.CreateOrder(ctx, "guest:none", testOrderRequest())

	assert.ErrorIs(t, err, ErrBasketEmpty)
	assert.Nil(t, order)
}

func TestCreateOrder_PublishesOrderCreatedEvent(t *testing.T) {
	f := newOrderServiceFixture()
	ctx := context.Background()
	owner := "user:42"

	basket := &entity.Basket{
		ID:      1,
		OwnerID: owner,
		Items:   []entity.BasketItem{{ID: 1, ProductID: 5, Quantity: 1}},
	}

	f.basketRepo.On("GetByOwner", ctx, owner).Return(basket, nil)
	f.productRepo.On("GetByIDWithRelations", ctx, uint(5)).Return(&entity.Product{
		ID: 5, Price: decimal.RequireFromString("100"),
	}, nil)
	f.deliveryRepo.On("Get", ctx).Return(&entity.DeliveryPrice{
		StandardCost:        decimal.RequireFromString("20"),
		FreeDeliveryMinimum: decimal.RequireFromString("300"),
	}, nil)
	f.orderRepo.On("Create", ctx, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.Order).ID = 77
	})
	f.productRepo.On("IncrementOrdersCount", ctx, uint(5), 1).Return(nil)
	f.publisher.On("PublishMessage", ctx, "order-77", mock.Anything).Return(nil)

	_, err := f.svc.CreateOrder(ctx, owner, testOrderRequest())

	assert.NoError(t, err)
	assert.Len(t, f.publisher.Messages, 1)

	var event entity.OrderEvent
	assert.NoError(t, json.Unmarshal(f.publisher.Messages[0], &event))
	assert.Equal(t, "ORDER_CREATED", event.EventType)
	assert.Equal(t, uint(77), event.OrderID)
}

func TestGetOrder_ForeignOrderForbidden(t *testing.T) {
	f := newOrderServiceFixture()
	ctx := context.Background()

	f.orderRepo.On("GetByID", ctx, uint(10)).Return(&entity.Order{ID: 10, OwnerID: "user:1"}, nil)

	view, err := f.svc.GetOrder(ctx, "user:2", 10)

	assert.ErrorIs(t, err, ErrForbidden)
	assert.Nil(t, view)
}

func TestGetOrder_RendersLiveBasketLines(t *testing.T) {
	f := newOrderServiceFixture()
	ctx := context.Background()
	owner := "user:42"

	order := &entity.Order{
		ID:        10,
		OwnerID:   owner,
		BasketID:  1,
		TotalCost: decimal.RequireFromString("270"),
		Status:    entity.OrderStatusInProgress,
		CreatedAt: time.Date(2026, 5, 1, 14, 30, 0, 0, time.UTC),
	}
	basket := &entity.Basket{
		ID:    1,
		Items: []entity.BasketItem{{ID: 1, ProductID: 5, Quantity: 2}},
	}

	f.orderRepo.On("GetByID", ctx, uint(10)).Return(order, nil)
	f.basketRepo.On("GetByID", ctx, uint(1)).Return(basket, nil)
	// Цена на момент просмотра, не на момент оформления
	f.productRepo.On("GetByIDWithRelations", ctx, uint(5)).Return(&entity.Product{
		ID: 5, Price: decimal.RequireFromString("999"),
	}, nil)

	view, err := f.svc.GetOrder(ctx, owner, 10)

	assert.NoError(t, err)
	assert.Equal(t, "2026-05-01 14:30", view.CreatedAt)
	assert.Len(t, view.Products, 1)
	assert.True(t, view.Products[0].Price.Equal(decimal.RequireFromString("999")))
	// Зафиксированная сумма заказа не пересчитывается
	assert.True(t, view.TotalCost.Equal(decimal.RequireFromString("270")))
}

func TestGetOrder_NotFound(t *testing.T) {
	f := newOrderServiceFixture()
	ctx := context.Background()

	f.orderRepo.On("GetByID", ctx, uint(10)).Return(nil, repository.ErrOrderNotFound)

	view, err := f.svc.GetOrder(ctx, "user:42", 10)

	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.Nil(t, view)
}

func TestSubmitPayment_SuccessMarksOrderPaid(t *testing.T) {
	f := newOrderServiceFixture()
	ctx := context.Background()
	owner := "user:42"

	order := &entity.Order{ID: 10, OwnerID: owner, Status: entity.OrderStatusInProgress}
	req := &entity.PaymentRequest{Number: "12345678", Name: "IVAN IVANOV", Month: "05", Year: "2027", Code: "123"}

	f.orderRepo.On("GetByID", ctx, uint(10)).Return(order, nil)
	f.gateway.On("Charge", ctx, req).Return(nil)
	f.paymentRepo.On("Create", ctx, mock.AnythingOfType("*entity.Payment")).Return(nil)
	f.orderRepo.On("UpdateStatus", ctx, uint(10), entity.OrderStatusPaid, "").Return(nil)
	f.publisher.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(nil)

	result, err := f.svc.SubmitPayment(ctx, owner, 10, req)

	assert.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPaid, result.Status)
	assert.Empty(t, result.PaymentError)
}

func TestSubmitPayment_ShortYearKeptAsIs(t *testing.T) {
	f := newOrderServiceFixture()
	ctx := context.Background()
	owner := "user:42"

	order := &entity.Order{ID: 10, OwnerID: owner, Status: entity.OrderStatusInProgress}
	req := &entity.PaymentRequest{Number: "12345678", Name: "IVAN IVANOV", Month: "05", Year: "27", Code: "123"}

	f.orderRepo.On("GetByID", ctx, uint(10)).Return(order, nil)
	f.gateway.On("Charge", ctx, req).Return(nil)
	f.paymentRepo.On("Create", ctx, mock.AnythingOfType("*entity.Payment")).Return(nil).Run(func(args mock.Arguments) {
		record := args.Get(1).(*entity.Payment)
		assert.Equal(t, "05/27", record.Expiry)
	})
	f.orderRepo.On("UpdateStatus", ctx, uint(10), entity.OrderStatusPaid, "").Return(nil)
	f.publisher.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(nil)

	result, err := f.svc.SubmitPayment(ctx, owner, 10, req)

	assert.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPaid, result.Status)
}

func TestSubmitPayment_RejectionIsNotAnError(t *testing.T) {
	f := newOrderServiceFixture()
	ctx := context.Background()
	owner := "user:42"

	order := &entity.Order{ID: 10, OwnerID: owner, Status: entity.OrderStatusInProgress}
	req := &entity.PaymentRequest{Number: "12345677", Name: "IVAN IVANOV", Month: "05", Year: "2027", Code: "123"}

	f.orderRepo.On("GetByID", ctx, uint(10)).Return(order, nil)
	f.gateway.On("Charge", ctx, req).Return(payment.ErrRejected)
	f.paymentRepo.On("Create", ctx, mock.AnythingOfType("*entity.Payment")).Return(nil).Run(func(args mock.Arguments) {
		record := args.Get(1).(*entity.Payment)
		assert.False(t, record.Success)
		assert.Equal(t, "**** **** **** 5677", record.CardMasked)
		assert.Equal(t, "05/27", record.Expiry)
	})
	f.orderRepo.On("UpdateStatus", ctx, uint(10), entity.OrderStatusPaymentFailed, payment.ErrRejected.Error()).Return(nil)
	f.publisher.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(nil)

	result, err := f.svc.SubmitPayment(ctx, owner, 10, req)

	assert.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPaymentFailed, result.Status)
	assert.Equal(t, payment.ErrRejected.Error(), result.PaymentError)
}

func TestSubmitPayment_AlreadyPaid(t *testing.T) {
	f := newOrderServiceFixture()
	ctx := context.Background()
	owner := "user:42"

	f.orderRepo.On("GetByID", ctx, uint(10)).Return(&entity.Order{
		ID: 10, OwnerID: owner, Status: entity.OrderStatusPaid,
	}, nil)

	result, err := f.svc.SubmitPayment(ctx, owner, 10, &entity.PaymentRequest{Number: "12345678"})

	assert.ErrorIs(t, err, ErrOrderAlreadyPaid)
	assert.Nil(t, result)
	f.gateway.AssertNotCalled(t, "Charge")
}

func TestSubmitPayment_ForeignOrderForbidden(t *testing.T) {
	f := newOrderServiceFixture()
	ctx := context.Background()

	f.orderRepo.On("GetByID", ctx, uint(10)).Return(&entity.Order{ID: 10, OwnerID: "user:1"}, nil)

	result, err := f.svc.SubmitPayment(ctx, "user:2", 10, &entity.PaymentRequest{Number: "12345678"})

	assert.ErrorIs(t, err, ErrForbidden)
	assert.Nil(t, result)
}

func TestListOrders_RendersAllOrders(t *testing.T) {
	f := newOrderServiceFixture()
	ctx := context.Background()
	owner := "user:42"

	orders := []entity.Order{
		{ID: 2, OwnerID: owner, BasketID: 1, Status: entity.OrderStatusPaid},
		{ID: 1, OwnerID: owner, BasketID: 1, Status: entity.OrderStatusInProgress},
	}
	basket := &entity.Basket{ID: 1, Items: []entity.BasketItem{}}

	f.orderRepo.On("GetByOwner", ctx, owner).Return(orders, nil)
	f.basketRepo.On("GetByID", ctx, uint(1)).Return(basket, nil)

	views, err := f.svc.ListOrders(ctx, owner)

	assert.NoError(t, err)
	assert.Len(t, views, 2)
	assert.Equal(t, uint(2), views[0].ID)
	assert.Equal(t, uint(1), views[1].ID)
}
