package repository

import (
	"context"

	"megano/internal/app/shop/entity"

	"gorm.io/gorm"
)

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository создает новый репозиторий платежей
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// Create записывает результат обращения к платежному шлюзу
func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	result := r.db.WithContext(ctx).Create(payment)
	return result.Error
}
