package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"megano/internal/app/shop/entity"
	"megano/internal/app/shop/infrastructure"
	"megano/internal/app/shop/infrastructure/payment"
	"megano/internal/app/shop/repository"
	"megano/pkg/logger"
	"megano/pkg/metrics"

	"github.com/shopspring/decimal"
)

const orderTimeFormat = "2006-01-02 15:04"

const (
	eventOrderCreated       = "ORDER_CREATED"
	eventOrderPaid          = "ORDER_PAID"
	eventOrderPaymentFailed = "ORDER_PAYMENT_FAILED"
)

// OrderService управляет жизненным циклом заказа: оформление из корзины,
// просмотр и оплата через платежный шлюз
type OrderService struct {
	orderRepo    repository.OrderRepository
	basketRepo   repository.BasketRepository
	productRepo  repository.ProductRepository
	paymentRepo  repository.PaymentRepository
	deliveryRepo repository.DeliveryPriceRepository
	gateway      infrastructure.PaymentGateway
	publisher    infrastructure.MessagePublisher
}

// NewOrderService создает новый сервис заказов с внедрением зависимостей
func NewOrderService(
	orderRepo repository.OrderRepository,
	basketRepo repository.BasketRepository,
	productRepo repository.ProductRepository,
	paymentRepo repository.PaymentRepository,
	deliveryRepo repository.DeliveryPriceRepository,
	gateway infrastructure.PaymentGateway,
	publisher infrastructure.MessagePublisher,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		basketRepo:   basketRepo,
		productRepo:  productRepo,
		paymentRepo:  paymentRepo,
		deliveryRepo: deliveryRepo,
		gateway:      gateway,
		publisher:    publisher,
	}
}

// CreateOrder оформляет заказ из текущей корзины владельца. Итоговая сумма
// складывается из позиций по актуальным ценам (с учетом активных скидок)
// плюс стоимость доставки по политике порога. Корзина после оформления
// не очищается и не копируется: заказ хранит ссылку на нее.
func (s *OrderService) CreateOrder(ctx context.Context, ownerID string, req *entity.CreateOrderRequest) (*entity.Order, error) {
	basket, err := s.basketRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrBasketNotFound) {
			return nil, ErrBasketEmpty
		}
		return nil, fmt.Errorf("failed to get basket: %w", err)
	}
	if len(basket.Items) == 0 {
		return nil, ErrBasketEmpty
	}

	lines, err := buildBasketLines(ctx, s.productRepo, basket.Items)
	if err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	for _, line := range lines {
		price := line.Price
		if line.SalePrice != nil {
			price = *line.SalePrice
		}
		subtotal = subtotal.Add(price.Mul(decimal.NewFromInt(int64(line.CountInBasket))))
	}

	prices, err := s.deliveryRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get delivery prices: %w", err)
	}

	total := subtotal.Add(DeliveryFee(subtotal, prices))

	order := &entity.Order{
		OwnerID:      ownerID,
		BasketID:     basket.ID,
		City:         req.City,
		Address:      req.Address,
		DeliveryType: req.DeliveryType,
		PaymentType:  req.PaymentType,
		TotalCost:    total,
		Status:       entity.OrderStatusInProgress,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	for _, line := range lines {
		if err := s.productRepo.IncrementOrdersCount(ctx, line.ID, line.CountInBasket); err != nil {
			logger.Error().Err(err).
				Uint("product_id", line.ID).
				Uint("order_id", order.ID).
				Msg("failed to increment orders count")
		}
	}

	s.publishOrderEvent(ctx, eventOrderCreated, order)

	metrics.OrdersCreated.Inc()
	metrics.OrdersTotalAmount.Add(total.InexactFloat64())

	logger.Info().
		Uint("order_id", order.ID).
		Str("owner_id", ownerID).
		Str("total_cost", total.String()).
		Msg("order created")

	return order, nil
}

// GetOrder возвращает заказ владельца с живыми позициями из связанной корзины
func (s *OrderService) GetOrder(ctx context.Context, ownerID string, orderID uint) (*entity.OrderView, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order.OwnerID != ownerID {
		return nil, ErrForbidden
	}

	return s.renderOrder(ctx, order)
}

// ListOrders возвращает историю заказов владельца, новые первыми
func (s *OrderService) ListOrders(ctx context.Context, ownerID string) ([]entity.OrderView, error) {
	orders, err := s.orderRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}

	views := make([]entity.OrderView, 0, len(orders))
	for i := range orders {
		view, err := s.renderOrder(ctx, &orders[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}

	return views, nil
}

// SubmitPayment проводит оплату заказа через платежный шлюз и фиксирует
// результат. Отказ шлюза переводит заказ в payment-failed с текстом причины,
// это не ошибка операции. Повторная оплата уже оплаченного заказа запрещена.
func (s *OrderService) SubmitPayment(ctx context.Context, ownerID string, orderID uint, req *entity.PaymentRequest) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	if order.Status == entity.OrderStatusPaid {
		return nil, ErrOrderAlreadyPaid
	}

	chargeErr := s.gateway.Charge(ctx, req)


	record := &entity.Payment{
		OrderID:    order.ID,
		CardMasked: payment.MaskCard(req.Number),
		Expiry:     formatExpiry(req.Month, req.Year),
		Success:    chargeErr == nil,
	}
	if err := s.paymentRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}

	if chargeErr != nil {
		order.Status = entity.OrderStatusPaymentFailed
		order.PaymentError = chargeErr.Error()
		if err := s.orderRepo.UpdateStatus(ctx, order.ID, order.Status, order.PaymentError); err != nil {
			return nil, fmt.Errorf("failed to update order status: %w", err)
		}

		s.publishOrderEvent(ctx, eventOrderPaymentFailed, order)
		metrics.PaymentsProcessed.WithLabelValues("failed").Inc()

		logger.Warn().
			Uint("order_id", order.ID).
			Str("reason", chargeErr.Error()).
			Msg("payment rejected")

		return order, nil
	}

	order.Status = entity.OrderStatusPaid
	order.PaymentError = ""
	if err := s.orderRepo.UpdateStatus(ctx, order.ID, order.Status, ""); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	s.publishOrderEvent(ctx, eventOrderPaid, order)
	metrics.PaymentsProcessed.WithLabelValues("success").Inc()

	logger.Info().Uint("order_id", order.ID).Msg("order paid")

	return order, nil
}

// renderOrder собирает представление заказа, перечитывая позиции корзины
func (s *OrderService) renderOrder(ctx context.Context, order *entity.Order) (*entity.OrderView, error) {
	basket, err := s.basketRepo.GetByID(ctx, order.BasketID)
	if err != nil {
		if !errors.Is(err, repository.ErrBasketNotFound) {
			return nil, fmt.Errorf("failed to get order basket: %w", err)
		}
		basket = &entity.Basket{}
	}

	lines, err := buildBasketLines(ctx, s.productRepo, basket.Items)
	if err != nil {
		return nil, err
	}

	return &entity.OrderView{
		ID:           order.ID,
		CreatedAt:    order.CreatedAt.Format(orderTimeFormat),
		City:         order.City,
		Address:      order.Address,
		DeliveryType: order.DeliveryType,
		PaymentType:  order.PaymentType,
		TotalCost:    order.TotalCost,
		Status:       order.Status,
		PaymentError: order.PaymentError,
		Products:     lines,
	}, nil
}

// publishOrderEvent отправляет событие заказа в Kafka, ошибки логируются
// и не прерывают операцию
func (s *OrderService) publishOrderEvent(ctx context.Context, eventType string, order *entity.Order) {
	event := entity.OrderEvent{
		EventType: eventType,
		OrderID:   order.ID,
		OwnerID:   order.OwnerID,
		TotalCost: order.TotalCost,
		Status:    order.Status,
		Timestamp: time.Now(),
	}

	value, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Uint("order_id", order.ID).Msg("failed to marshal order event")
		return
	}

	if err := s.publisher.PublishMessage(ctx, fmt.Sprintf("order-%d", order.ID), value); err != nil {
		logger.Error().Err(err).
			Uint("order_id", order.ID).
			Str("event_type", eventType).
			Msg("failed to publish order event")
	}
}

// formatExpiry собирает строку срока действия карты вида "MM/YY".
// Четырехзначный год сокращается до двух последних цифр, остальные
// значения подставляются как есть
func formatExpiry(month, year string) string {
	if len(year) == 4 {
		year = year[2:]
	}
	return month + "/" + year
}
