package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// NoReviewsSentinel возвращается вместо рейтинга для товара без отзывов,
// чтобы отличать его от товара с настоящей оценкой 0
const NoReviewsSentinel = "Пока нет отзывов"

// Rating - производный рейтинг товара: среднее арифметическое оценок отзывов.
// Сериализуется числом, либо строкой-заглушкой при нуле отзывов.
type Rating struct {
	ReviewCount int
	Value       decimal.Decimal
}

// NewRating вычисляет рейтинг по списку отзывов
func NewRating(reviews []Review) Rating {
	if len(reviews) == 0 {
		return Rating{}
	}

	sum := decimal.Zero
	for _, review := range reviews {
		sum = sum.Add(decimal.NewFromInt(int64(review.Rate)))
	}

	return Rating{
		ReviewCount: len(reviews),
		Value:       sum.DivRound(decimal.NewFromInt(int64(len(reviews))), 2),
	}
}

func (r Rating) MarshalJSON() ([]byte, error) {
	if r.ReviewCount == 0 {
		return json.Marshal(NoReviewsSentinel)
	}
	return json.Marshal(r.Value)
}

// Направления сортировки каталога, все прочие значения трактуются как inc
const (
	SortDirAsc  = "inc"
	SortDirDesc = "dec"
)

// Поля сортировки каталога
const (
	SortByID           = "id"
	SortByCategory     = "category"
	SortByPrice        = "price"
	SortByCount        = "count"
	SortByDate         = "date"
	SortByTitle        = "title"
	SortByFreeDelivery = "freeDelivery"
	SortByRating       = "rating"
)

// CatalogQuery описывает параметры выборки каталога: фильтры, сортировку
// и пагинацию. Все фильтры опциональны и объединяются по И.
type CatalogQuery struct {
	CategoryID   *uint
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	FreeDelivery *bool
	Available    *bool
	Name         string   // Подстрока названия, без учета регистра
	Tags         []string // Товар должен нести ВСЕ перечисленные теги
	Sort         string
	SortDir      string
	CurrentPage  int
	Limit        int
}

// ImageView представляет изображение в ответе API
type ImageView struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// TagView представляет тег в ответе API
type TagView struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// ProductSummary - карточка товара в выдаче каталога с производными полями
type ProductSummary struct {
	ID           uint             `json:"id"`
	Category     *uint            `json:"category"`
	Price        decimal.Decimal  `json:"price"`
	SalePrice    *decimal.Decimal `json:"salePrice,omitempty"` // Цена с учетом активной акции
	Count        int              `json:"count"`
	Date         time.Time        `json:"date"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	FreeDelivery bool             `json:"freeDelivery"`
	Images       []ImageView      `json:"images"`
	Tags         []TagView        `json:"tags"`
	Reviews      int              `json:"reviews"`
	Rating       Rating           `json:"rating"`
}

// CatalogPage - страница выдачи каталога
type CatalogPage struct {
	Items       []ProductSummary `json:"items"`
	CurrentPage int              `json:"currentPage"`
	LastPage    int              `json:"lastPage"`
}

// ReviewView представляет отзыв в карточке товара
type ReviewView struct {
	Author string `json:"author"`
	Email  string `json:"email,omitempty"`
	Text   string `json:"text"`
	Rate   int    `json:"rate"`
	Date   string `json:"date"`
}

// ProductDetail - полная карточка товара
type ProductDetail struct {
	ProductSummary
	FullDescription string              `json:"fullDescription"`
	Specifications  []SpecificationView `json:"specifications"`
	ReviewList      []ReviewView        `json:"reviewList"`
}

// SpecificationView представляет характеристику в карточке товара
type SpecificationView struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SaleItemView - позиция в списке активных акций: исходная цена и цена со скидкой
type SaleItemView struct {
	ID        uint            `json:"id"`
	Price     decimal.Decimal `json:"price"`
	SalePrice decimal.Decimal `json:"salePrice"`
	DateFrom  string          `json:"dateFrom"` // Формат MM-DD
	DateTo    string          `json:"dateTo"`
	Title     string          `json:"title"`
	Images    []ImageView     `json:"images"`
}

// SalesPage - страница списка активных акций
type SalesPage struct {
	Items       []SaleItemView `json:"items"`
	CurrentPage int            `json:"currentPage"`
	LastPage    int            `json:"lastPage"`
}

// CategoryView представляет категорию с подкатегориями в ответе API
type CategoryView struct {
	ID            uint              `json:"id"`
	Title         string            `json:"title"`
	Image         ImageView         `json:"image"`
	Subcategories []SubcategoryView `json:"subcategories"`
}

// SubcategoryView представляет подкатегорию в ответе API
type SubcategoryView struct {
	ID    uint      `json:"id"`
	Title string    `json:"title"`
	Image ImageView `json:"image"`
}

// BasketLineRequest - тело POST/DELETE /basket
type BasketLineRequest struct {
	ID    uint `json:"id" validate:"required"`
	Count int  `json:"count" validate:"required,gt=0"`
}

// BasketLineView - позиция корзины: живая карточка товара плюс количество
type BasketLineView struct {
	ProductSummary
	CountInBasket int `json:"countInBasket"`
}

// CreateReviewRequest - тело POST /product/{id}/reviews
type CreateReviewRequest struct {
	Text string `json:"text" validate:"required,min=1,max=2000"`
	Rate int    `json:"rate" validate:"gte=0,lte=5"`
}

// Типы доставки и оплаты
const (
	DeliveryTypeStandard = "standard"
	DeliveryTypeExpress  = "express"

	PaymentTypeOnline  = "online"
	PaymentTypeAccount = "account"
)

// CreateOrderRequest - тело POST /orders
type CreateOrderRequest struct {
	City         string `json:"city" validate:"required,min=1,max=200"`
	Address      string `json:"address" validate:"required,min=1,max=500"`
	DeliveryType string `json:"deliveryType" validate:"required,oneof=standard express"`
	PaymentType  string `json:"paymentType" validate:"required,oneof=online account"`
}

// OrderView - полный рендер заказа; позиции перечитываются из корзины
// на момент запроса, а не фиксируются при оформлении
type OrderView struct {
	ID           uint             `json:"id"`
	CreatedAt    string           `json:"createdAt"`
	City         string           `json:"city"`
	Address      string           `json:"address"`
	DeliveryType string           `json:"deliveryType"`
	PaymentType  string           `json:"paymentType"`
	TotalCost    decimal.Decimal  `json:"totalCost"`
	Status       OrderStatus      `json:"status"`
	PaymentError string           `json:"paymentError,omitempty"`
	Products     []BasketLineView `json:"products"`
}

// PaymentRequest - тело POST /payment/{id}, реквизиты карты для платежной заглушки
type PaymentRequest struct {
	Number string `json:"number" validate:"required,numeric,min=8,max=19"`
	Name   string `json:"name" validate:"required,min=1,max=200"`
	Month  string `json:"month" validate:"required,len=2,numeric"`
	Year   string `json:"year" validate:"required,len=4,numeric"`
	Code   string `json:"code" validate:"required,len=3,numeric"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
