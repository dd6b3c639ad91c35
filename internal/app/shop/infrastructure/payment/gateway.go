package payment

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"megano/internal/app/shop/entity"
)

var (
	ErrInvalidCardNumber = errors.New("card number is not a valid number")
	ErrRejected          = errors.New("payment rejected by processor")
)

// StubGateway имитирует внешний платежный процессор.
// Списание проходит, если номер карты четный и не оканчивается на ноль,
// иначе платеж отклоняется с текстом причины.
type StubGateway struct{}

func NewStubGateway() *StubGateway {
	return &StubGateway{}
}

// Charge выполняет синхронное "списание" по реквизитам карты
func (g *StubGateway) Charge(_ context.Context, req *entity.PaymentRequest) error {
	number := strings.ReplaceAll(req.Number, " ", "")

	n, err := strconv.ParseUint(number, 10, 64)
	if err != nil {
		return ErrInvalidCardNumber
	}

	if n%2 != 0 || n%10 == 0 {
		return ErrRejected
	}

	return nil
}

// MaskCard возвращает маскированный номер карты для хранения:
// видны только последние четыре цифры
func MaskCard(number string) string {
	digits := strings.ReplaceAll(number, " ", "")
	if len(digits) <= 4 {
		return "**** " + digits
	}
	return "**** **** **** " + digits[len(digits)-4:]
}
