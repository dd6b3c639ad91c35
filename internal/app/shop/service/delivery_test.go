package service

import (
	"testing"

	"megano/internal/app/shop/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDeliveryFee_FreeAboveThreshold(t *testing.T) {
	prices := &entity.DeliveryPrice{
		StandardCost:        decimal.RequireFromString("20"),
		ExpressCost:         decimal.RequireFromString("500"),
		FreeDeliveryMinimum: decimal.RequireFromString("200"),
	}

	// Корзина: 100*2 + 50*1 = 250, порог 200 превышен
	subtotal := decimal.RequireFromString("250")
	fee := DeliveryFee(subtotal, prices)

	assert.True(t, fee.Equal(decimal.Zero))
	assert.True(t, subtotal.Add(fee).Equal(decimal.RequireFromString("250")))
}

func TestDeliveryFee_StandardCostBelowThreshold(t *testing.T) {
	prices := &entity.DeliveryPrice{
		StandardCost:        decimal.RequireFromString("20"),
		ExpressCost:         decimal.RequireFromString("500"),
		FreeDeliveryMinimum: decimal.RequireFromString("300"),
	}

	subtotal := decimal.RequireFromString("250")
	fee := DeliveryFee(subtotal, prices)

	assert.True(t, fee.Equal(decimal.RequireFromString("20")))
	assert.True(t, subtotal.Add(fee).Equal(decimal.RequireFromString("270")))
}

func TestDeliveryFee_ExactThresholdStillCharged(t *testing.T) {
	prices := &entity.DeliveryPrice{
		StandardCost:        decimal.RequireFromString("200"),
		FreeDeliveryMinimum: decimal.RequireFromString("2000"),
	}

	fee := DeliveryFee(decimal.RequireFromString("2000"), prices)

	assert.True(t, fee.Equal(decimal.RequireFromString("200")))
}
