package service

import (
	"sort"
	"strings"
	"time"

	"megano/internal/app/shop/entity"

	"github.com/shopspring/decimal"
)

// Движок выборки каталога: чистые функции фильтрации, сортировки и
// пагинации над полным набором товаров. Все предикаты объединяются по И.

var sortFields = map[string]struct{}{
	entity.SortByID:           {},
	entity.SortByCategory:     {},
	entity.SortByPrice:        {},
	entity.SortByCount:        {},
	entity.SortByDate:         {},
	entity.SortByTitle:        {},
	entity.SortByFreeDelivery: {},
	entity.SortByRating:       {},
}

// validSortField проверяет поле сортировки по белому списку
func validSortField(field string) bool {
	_, ok := sortFields[field]
	return ok
}

// matchesQuery проверяет товар на соответствие всем активным фильтрам
func matchesQuery(p *entity.Product, q entity.CatalogQuery) bool {
	if q.CategoryID != nil {
		inCategory := p.CategoryID != nil && *p.CategoryID == *q.CategoryID
		inSubcategory := p.SubcategoryID != nil && *p.SubcategoryID == *q.CategoryID
		if !inCategory && !inSubcategory {
			return false
		}
	}

	if q.MinPrice != nil && p.Price.LessThan(*q.MinPrice) {
		return false
	}
	if q.MaxPrice != nil && p.Price.GreaterThan(*q.MaxPrice) {
		return false
	}

	if q.FreeDelivery != nil && p.FreeDelivery != *q.FreeDelivery {
		return false
	}

	if q.Available != nil && (p.Count > 0) != *q.Available {
		return false
	}

	if q.Name != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(q.Name)) {
		return false
	}

	// Товар должен нести ВСЕ запрошенные теги; неизвестный тег
	// не несет ни один товар, выборка пуста
	for _, want := range q.Tags {
		found := false
		for _, tag := range p.Tags {
			if tag.Name == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

// filterProducts отбирает товары по фильтрам запроса
func filterProducts(products []entity.Product, q entity.CatalogQuery) []entity.Product {
	filtered := make([]entity.Product, 0, len(products))
	for i := range products {
		if matchesQuery(&products[i], q) {
			filtered = append(filtered, products[i])
		}
	}
	return filtered
}

// liveRating вычисляет живой средний рейтинг товара, ноль без отзывов
func liveRating(p *entity.Product) decimal.Decimal {
	return entity.NewRating(p.Reviews).Value
}

// compareBy сравнивает два товара по полю сортировки: -1, 0 или 1
func compareBy(field string, a, b *entity.Product) int {
	switch field {
	case entity.SortByCategory:
		return compareUintPtr(a.CategoryID, b.CategoryID)
	case entity.SortByPrice:
		return a.Price.Cmp(b.Price)
	case entity.SortByCount:
		return compareInt(a.Count, b.Count)
	case entity.SortByDate:
		return a.CreatedAt.Compare(b.CreatedAt)
	case entity.SortByTitle:
		return strings.Compare(a.Title, b.Title)
	case entity.SortByFreeDelivery:
		return compareBool(a.FreeDelivery, b.FreeDelivery)
	case entity.SortByRating:
		return liveRating(a).Cmp(liveRating(b))
	default: // entity.SortByID
		return compareInt(int(a.ID), int(b.ID))
	}
}

// sortProducts упорядочивает выборку по полю и направлению.
// Равные по полю товары всегда идут по возрастанию ID, чтобы
// пагинация оставалась стабильной.
func sortProducts(products []entity.Product, field, dir string) {
	desc := dir == entity.SortDirDesc

	sort.SliceStable(products, func(i, j int) bool {
		c := compareBy(field, &products[i], &products[j])
		if desc {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
		return products[i].ID < products[j].ID
	})
}

// paginate выделяет страницу выборки; страница за пределами lastPage
// дает пустой список с тем же lastPage
func paginate(products []entity.Product, currentPage, limit int) ([]entity.Product, int) {
	lastPage := (len(products) + limit - 1) / limit

	offset := (currentPage - 1) * limit
	if offset >= len(products) {
		return []entity.Product{}, lastPage
	}

	end := offset + limit
	if end > len(products) {
		end = len(products)
	}

	return products[offset:end], lastPage
}

// activeSalePrice возвращает цену с учетом акции, активной на дату now,
// границы диапазона акции включительно. Скидка больше цены дает ноль,
// не отрицательную цену.
func activeSalePrice(p *entity.Product, now time.Time) *decimal.Decimal {
	if p.Sale == nil {
		return nil
	}

	day := now.Format("2006-01-02")
	from := p.Sale.DateFrom.Format("2006-01-02")
	to := p.Sale.DateTo.Format("2006-01-02")
	if day < from || day > to {
		return nil
	}

	price := p.Price.Sub(p.Sale.Discount)
	if price.IsNegative() {
		price = decimal.Zero
	}
	return &price
}

// newProductSummary собирает карточку товара с производными полями:
// изображения в порядке вставки, имена тегов, число отзывов, рейтинг
func newProductSummary(p *entity.Product, now time.Time) entity.ProductSummary {
	images := make([]entity.ImageView, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, entity.ImageView{Src: img.Src, Alt: img.Alt})
	}

	tags := make([]entity.TagView, 0, len(p.Tags))
	for _, tag := range p.Tags {
		tags = append(tags, entity.TagView{ID: tag.ID, Name: tag.Name})
	}

	return entity.ProductSummary{
		ID:           p.ID,
		Category:     p.CategoryID,
		Price:        p.Price,
		SalePrice:    activeSalePrice(p, now),
		Count:        p.Count,
		Date:         p.CreatedAt,
		Title:        p.Title,
		Description:  p.Description,
		FreeDelivery: p.FreeDelivery,
		Images:       images,
		Tags:         tags,
		Reviews:      len(p.Reviews),
		Rating:       entity.NewRating(p.Reviews),
	}
}

func newProductSummaries(products []entity.Product, now time.Time) []entity.ProductSummary {
	summaries := make([]entity.ProductSummary, 0, len(products))
	for i := range products {
		summaries = append(summaries, newProductSummary(&products[i], now))
	}
	return summaries
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareBool(a, b bool) int {
	switch {
	case !a && b:
		return -1
	case a && !b:
		return 1
	default:
		return 0
	}
}

func compareUintPtr(a, b *uint) int {
	av, bv := 0, 0
	if a != nil {
		av = int(*a)
	}
	if b != nil {
		bv = int(*b)
	}
	return compareInt(av, bv)
}
