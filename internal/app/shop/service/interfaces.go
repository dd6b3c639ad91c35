package service

import (
	"context"

	"megano/internal/app/shop/entity"
)

type CatalogServiceInterface interface {
	Query(ctx context.Context, query entity.CatalogQuery) (*entity.CatalogPage, error)
	Banner(ctx context.Context) ([]entity.ProductSummary, error)
	Popular(ctx context.Context) ([]entity.ProductSummary, error)
	Limited(ctx context.Context) ([]entity.ProductSummary, error)
	Sales(ctx context.Context, currentPage int) (*entity.SalesPage, error)
	Categories(ctx context.Context) ([]entity.CategoryView, error)
	ProductDetail(ctx context.Context, id uint) (*entity.ProductDetail, error)
}

type BasketServiceInterface interface {
	AddOrSet(ctx context.Context, ownerID string, productID uint, count int) error
	Decrement(ctx context.Context, ownerID string, productID uint, count int) error
	List(ctx context.Context, ownerID string) ([]entity.BasketLineView, error)
}

type OrderServiceInterface interface {
	CreateOrder(ctx context.Context, ownerID string, req *entity.CreateOrderRequest) (*entity.Order, error)
	GetOrder(ctx context.Context, ownerID string, orderID uint) (*entity.OrderView, error)
	ListOrders(ctx context.Context, ownerID string) ([]entity.OrderView, error)
	SubmitPayment(ctx context.Context, ownerID string, orderID uint, req *entity.PaymentRequest) (*entity.Order, error)
}

type ReviewServiceInterface interface {
	Create(ctx context.Context, productID uint, author, email string, req *entity.CreateReviewRequest) ([]entity.ReviewView, error)
}
