package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category представляет категорию товаров верхнего уровня
type Category struct {
	ID            uint          `json:"id" gorm:"primaryKey"`
	Title         string        `json:"title" gorm:"type:varchar(200);not null"`
	ImageSrc      string        `json:"-" gorm:"type:varchar(500)"`
	ImageAlt      string        `json:"-" gorm:"type:varchar(200)"`
	Subcategories []Subcategory `json:"subcategories,omitempty" gorm:"foreignKey:CategoryID"`
	CreatedAt     time.Time     `json:"created_at" gorm:"autoCreateTime"`
}

func (Category) TableName() string {
	return "categories"
}

// Subcategory представляет подкатегорию товаров
// CategoryID может быть NULL для подкатегорий без родителя
type Subcategory struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Title      string    `json:"title" gorm:"type:varchar(200);not null"`
	ImageSrc   string    `json:"-" gorm:"type:varchar(500)"`
	ImageAlt   string    `json:"-" gorm:"type:varchar(200)"`
	CategoryID *uint     `json:"category_id" gorm:"index"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Subcategory) TableName() string {
	return "subcategories"
}

// Tag представляет тег товара, имя уникально для поиска по фильтру
type Tag struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"type:varchar(100);not null;uniqueIndex"`
}

func (Tag) TableName() string {
	return "tags"
}

// Product представляет товар в каталоге
// Rating - кешированное производное поле, пересчитывается при создании отзыва
// и ночным cron (см. processor), OrdersCount увеличивается при оформлении заказа
type Product struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	Title          string          `json:"title" gorm:"type:varchar(200);not null"`
	Description    string          `json:"description" gorm:"type:text"`
	Price          decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null;default:0"`
	Count          int             `json:"count" gorm:"not null;default:0;check:count >= 0"` // Остаток на складе
	FreeDelivery   bool            `json:"freeDelivery" gorm:"not null;default:false"`
	CategoryID     *uint           `json:"category" gorm:"index"`
	SubcategoryID  *uint           `json:"subcategory" gorm:"index"`
	Rating         decimal.Decimal `json:"rating" gorm:"type:decimal(3,2);not null;default:0"`
	OrdersCount    int             `json:"orders_count" gorm:"not null;default:0"`
	CreatedAt      time.Time       `json:"date" gorm:"autoCreateTime"`
	Images         []ProductImage  `json:"images,omitempty" gorm:"foreignKey:ProductID"`
	Tags           []Tag           `json:"tags,omitempty" gorm:"many2many:product_tags"`
	Reviews        []Review        `json:"reviews,omitempty" gorm:"foreignKey:ProductID"`
	Specifications []Specification `json:"specifications,omitempty" gorm:"foreignKey:ProductID"`
	Sale           *Sale           `json:"sale,omitempty" gorm:"foreignKey:ProductID"`
}

func (Product) TableName() string {
	return "products"
}

// ProductImage представляет изображение товара, порядок вывода - порядок вставки
type ProductImage struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	ProductID uint   `json:"product_id" gorm:"index;not null"`
	Src       string `json:"src" gorm:"type:varchar(500);not null"`
	Alt       string `json:"alt" gorm:"type:varchar(200)"`
}

func (ProductImage) TableName() string {
	return "product_images"
}

// Specification представляет характеристику товара (имя/значение)
type Specification struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	ProductID uint   `json:"product_id" gorm:"index;not null"`
	Name      string `json:"name" gorm:"type:varchar(200);not null"`
	Value     string `json:"value" gorm:"type:varchar(500);not null"`
}

func (Specification) TableName() string {
	return "specifications"
}

// Review представляет отзыв о товаре с оценкой от 0 до 5
type Review struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ProductID uint      `json:"product_id" gorm:"index;not null"`
	Author    string    `json:"author" gorm:"type:varchar(200);not null"`
	Email     string    `json:"email" gorm:"type:varchar(200)"`
	Text      string    `json:"text" gorm:"type:text"`
	Rate      int       `json:"rate" gorm:"not null;check:rate >= 0 AND rate <= 5"`
	CreatedAt time.Time `json:"date" gorm:"autoCreateTime"`
}

func (Review) TableName() string {
	return "reviews"
}

// Sale представляет акцию на товар, один к одному с Product
// Discount - абсолютная сумма скидки, не процент
type Sale struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	ProductID uint            `json:"product_id" gorm:"uniqueIndex;not null"`
	DateFrom  time.Time       `json:"dateFrom" gorm:"type:date;not null"`
	DateTo    time.Time       `json:"dateTo" gorm:"type:date;not null"`
	Discount  decimal.Decimal `json:"discount" gorm:"type:decimal(10,2);not null"`
	Product   *Product        `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

func (Sale) TableName() string {
	return "sales"
}

// Basket представляет корзину, ровно одна на владельца
// OwnerID - явная идентичность запроса: "user:<id>" или "guest:<session>"
type Basket struct {
	ID        uint         `json:"id" gorm:"primaryKey"`
	OwnerID   string       `json:"owner_id" gorm:"type:varchar(100);not null;uniqueIndex"`
	CreatedAt time.Time    `json:"created_at" gorm:"autoCreateTime"`
	Items     []BasketItem `json:"items,omitempty" gorm:"foreignKey:BasketID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (Basket) TableName() string {
	return "baskets"
}

// BasketItem представляет позицию корзины
// Позиция с количеством 0 удаляется, а не хранится
type BasketItem struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	BasketID  uint `json:"basket_id" gorm:"not null;uniqueIndex:idx_basket_product"`
	ProductID uint `json:"product_id" gorm:"not null;uniqueIndex:idx_basket_product"`
	Quantity  int  `json:"quantity" gorm:"not null;check:quantity > 0"`
}

func (BasketItem) TableName() string {
	return "basket_items"
}

// OrderStatus представляет статус заказа
type OrderStatus string

const (
	OrderStatusInProgress    OrderStatus = "in-progress"    // Оформлен, ожидает оплаты
	OrderStatusPaid          OrderStatus = "paid"           // Оплачен
	OrderStatusPaymentFailed OrderStatus = "payment-failed" // Оплата отклонена
)

// Order представляет заказ, созданный из корзины при оформлении
// Заказ ссылается на корзину, а не копирует её позиции: исторические заказы
// рендерятся по текущему состоянию позиций (см. DESIGN.md)
type Order struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	OwnerID      string          `json:"owner_id" gorm:"type:varchar(100);not null;index"`
	BasketID     uint            `json:"basket_id" gorm:"not null;index"`
	City         string          `json:"city" gorm:"type:varchar(200);not null"`
	Address      string          `json:"address" gorm:"type:varchar(500);not null"`
	DeliveryType string          `json:"deliveryType" gorm:"type:varchar(20);not null"`
	PaymentType  string          `json:"paymentType" gorm:"type:varchar(20);not null"`
	TotalCost    decimal.Decimal `json:"totalCost" gorm:"type:decimal(10,2);not null"`
	Status       OrderStatus     `json:"status" gorm:"type:varchar(50);not null;default:'in-progress'"`
	PaymentError string          `json:"paymentError,omitempty" gorm:"type:varchar(500)"`
	CreatedAt    time.Time       `json:"createdAt" gorm:"autoCreateTime"`
}

func (Order) TableName() string {
	return "orders"
}

// Payment представляет результат обращения к платежному шлюзу, один к одному с Order
type Payment struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	OrderID    uint      `json:"order_id" gorm:"uniqueIndex;not null"`
	CardMasked string    `json:"card_masked" gorm:"type:varchar(30);not null"`
	Expiry     string    `json:"expiry" gorm:"type:varchar(10)"`
	Success    bool      `json:"success" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Payment) TableName() string {
	return "payments"
}

// DeliveryPrice представляет конфигурацию стоимости доставки (единственная запись)
// ExpressCost сконфигурирован, но в расчете порога бесплатной доставки
// не участвует - сохранено наблюдаемое поведение
type DeliveryPrice struct {
	ID                  uint            `json:"id" gorm:"primaryKey"`
	StandardCost        decimal.Decimal `json:"standard_cost" gorm:"type:decimal(10,2);not null"`
	ExpressCost         decimal.Decimal `json:"express_cost" gorm:"type:decimal(10,2);not null"`
	FreeDeliveryMinimum decimal.Decimal `json:"free_delivery_minimum" gorm:"type:decimal(10,2);not null"`
}

func (DeliveryPrice) TableName() string {
	return "delivery_prices"
}

// OrderEvent представляет событие заказа для Kafka
type OrderEvent struct {
	EventType string          `json:"event_type"` // ORDER_CREATED, ORDER_PAID, ORDER_PAYMENT_FAILED
	OrderID   uint            `json:"order_id"`
	OwnerID   string          `json:"owner_id"`
	TotalCost decimal.Decimal `json:"total_cost"`
	Status    OrderStatus     `json:"status"`
	Timestamp time.Time       `json:"timestamp"`
}
