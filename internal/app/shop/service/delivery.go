package service

import (
	"megano/internal/app/shop/entity"

	"github.com/shopspring/decimal"
)

// DeliveryFee вычисляет стоимость доставки по промежуточной сумме заказа.
// Доставка бесплатна, когда сумма строго превышает порог, иначе берется
// стандартный тариф. ExpressCost в расчете не участвует - сохранено
// наблюдаемое поведение (см. DESIGN.md).
func DeliveryFee(subtotal decimal.Decimal, prices *entity.DeliveryPrice) decimal.Decimal {
	if subtotal.GreaterThan(prices.FreeDeliveryMinimum) {
		return decimal.Zero
	}
	return prices.StandardCost
}
