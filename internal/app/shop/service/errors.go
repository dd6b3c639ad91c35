package service

import "errors"

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrInvalidQuery       = errors.New("invalid catalog query")
	ErrProductNotFound    = errors.New("product not found")
	ErrBasketLineNotFound = errors.New("basket line not found")
	ErrBasketEmpty        = errors.New("basket is empty or does not exist")
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderAlreadyPaid   = errors.New("order is already paid")
	ErrForbidden          = errors.New("access to resource denied")
)
