package infrastructure

import (
	"context"

	"megano/internal/app/shop/entity"
)

// MessagePublisher - интерфейс для отправки событий заказов в Kafka
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}

// PaymentGateway - интерфейс внешнего платежного процессора
// Charge возвращает nil при успешном списании и ошибку с текстом отказа иначе
type PaymentGateway interface {
	Charge(ctx context.Context, req *entity.PaymentRequest) error
}
