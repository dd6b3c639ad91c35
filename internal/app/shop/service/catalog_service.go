package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"megano/internal/app/shop/entity"
	"megano/internal/app/shop/repository"
	"megano/internal/app/shop/util"
	"megano/pkg/logger"
	"megano/pkg/metrics"

	"github.com/shopspring/decimal"
)

const (
	defaultPageSize    = 20
	salesPageSize      = 10
	bannerLimit        = 3
	popularLimit       = 8
	limitedLimit       = 16
	categoriesCacheTTL = time.Hour
	tagPopular         = "popular"
	tagLimited         = "limited"
)

// CatalogService обрабатывает выборки каталога: фильтрацию, сортировку,
// пагинацию и подборки. Данные поставляют репозитории, дерево категорий
// кешируется в Redis.
type CatalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	saleRepo     repository.SaleRepository
	redisClient  *util.RedisClient
}

// NewCatalogService создает новый сервис каталога с внедрением зависимостей
func NewCatalogService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	saleRepo repository.SaleRepository,
	redisClient *util.RedisClient,
) *CatalogService {
	return &CatalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		saleRepo:     saleRepo,
		redisClient:  redisClient,
	}
}

// Query выполняет выборку каталога: фильтры -> сортировка -> страница.
// Неизвестное поле сортировки и неположительный размер страницы отклоняются,
// остальные входы деградируют мягко (неизвестный тег дает пустую выборку).
func (s *CatalogService) Query(ctx context.Context, query entity.CatalogQuery) (*entity.CatalogPage, error) {
	if query.Sort == "" {
		query.Sort = entity.SortByID
	}
	if !validSortField(query.Sort) {
		return nil, fmt.Errorf("%w: unknown sort field %q", ErrInvalidQuery, query.Sort)
	}

	if query.Limit == 0 {
		query.Limit = defaultPageSize
	}
	if query.Limit < 0 {
		return nil, fmt.Errorf("%w: page size must be positive", ErrInvalidQuery)
	}

	if query.CurrentPage < 1 {
		query.CurrentPage = 1
	}

	products, err := s.productRepo.GetAllWithRelations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	filtered := filterProducts(products, query)
	sortProducts(filtered, query.Sort, query.SortDir)
	page, lastPage := paginate(filtered, query.CurrentPage, query.Limit)

	metrics.CatalogQueries.WithLabelValues("catalog").Inc()

	return &entity.CatalogPage{
		Items:       newProductSummaries(page, time.Now()),
		CurrentPage: query.CurrentPage,
		LastPage:    lastPage,
	}, nil
}

// Banner возвращает три товара с наибольшим кешированным рейтингом,
// товары без отзывов (рейтинг 0) не попадают
func (s *CatalogService) Banner(ctx context.Context) ([]entity.ProductSummary, error) {
	products, err := s.productRepo.GetTopRated(ctx, bannerLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load banner products: %w", err)
	}

	metrics.CatalogQueries.WithLabelValues("banners").Inc()
	return newProductSummaries(products, time.Now()), nil
}

// Popular возвращает товары с тегом popular, не более восьми
func (s *CatalogService) Popular(ctx context.Context) ([]entity.ProductSummary, error) {
	products, err := s.productRepo.GetByTagName(ctx, tagPopular, popularLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load popular products: %w", err)
	}

	metrics.CatalogQueries.WithLabelValues("popular").Inc()
	return newProductSummaries(products, time.Now()), nil
}

// Limited возвращает товары с тегом limited, не более шестнадцати
func (s *CatalogService) Limited(ctx context.Context) ([]entity.ProductSummary, error) {
	products, err := s.productRepo.GetByTagName(ctx, tagLimited, limitedLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load limited products: %w", err)
	}

	metrics.CatalogQueries.WithLabelValues("limited").Inc()
	return newProductSummaries(products, time.Now()), nil
}

// Sales возвращает страницу активных акций: исходная цена и цена со скидкой,
// скидка больше цены дает ноль
func (s *CatalogService) Sales(ctx context.Context, currentPage int) (*entity.SalesPage, error) {
	if currentPage < 1 {
		currentPage = 1
	}

	now := time.Now()
	offset := (currentPage - 1) * salesPageSize

	sales, total, err := s.saleRepo.GetActive(ctx, now, offset, salesPageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}

	items := make([]entity.SaleItemView, 0, len(sales))
	for _, sale := range sales {
		if sale.Product == nil {
			continue
		}

		salePrice := sale.Product.Price.Sub(sale.Discount)
		if salePrice.IsNegative() {
			salePrice = decimal.Zero
		}

		images := make([]entity.ImageView, 0, len(sale.Product.Images))
		for _, img := range sale.Product.Images {
			images = append(images, entity.ImageView{Src: img.Src, Alt: img.Alt})
		}

		items = append(items, entity.SaleItemView{
			ID:        sale.ProductID,
			Price:     sale.Product.Price,
			SalePrice: salePrice,
			DateFrom:  sale.DateFrom.Format("01-02"),
			DateTo:    sale.DateTo.Format("01-02"),
			Title:     sale.Product.Title,
			Images:    images,
		})
	}

	lastPage := (int(total) + salesPageSize - 1) / salesPageSize

	metrics.CatalogQueries.WithLabelValues("sales").Inc()

	return &entity.SalesPage{
		Items:       items,
		CurrentPage: currentPage,
		LastPage:    lastPage,
	}, nil
}

// Categories возвращает дерево категорий с подкатегориями
// Сначала проверяется кеш Redis, при промахе данные загружаются из БД
// и кешируются на час
func (s *CatalogService) Categories(ctx context.Context) ([]entity.CategoryView, error) {
	cached, err := s.redisClient.GetCategories(ctx)
	if err == nil && len(cached) > 0 {
		return cached, nil
	}

	categories, err := s.categoryRepo.GetAllWithSubcategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	views := make([]entity.CategoryView, 0, len(categories))
	for _, category := range categories {
		subviews := make([]entity.SubcategoryView, 0, len(category.Subcategories))
		for _, sub := range category.Subcategories {
			subviews = append(subviews, entity.SubcategoryView{
				ID:    sub.ID,
				Title: sub.Title,
				Image: entity.ImageView{Src: sub.ImageSrc, Alt: sub.ImageAlt},
			})
		}

		views = append(views, entity.CategoryView{
			ID:            category.ID,
			Title:         category.Title,
			Image:         entity.ImageView{Src: category.ImageSrc, Alt: category.ImageAlt},
			Subcategories: subviews,
		})
	}

	if err := s.redisClient.SetCategories(ctx, views, categoriesCacheTTL); err != nil {
		// Данные получены из БД, проблемы с кешем не критичны
		logger.Error().Err(err).Msg("failed to cache categories")
	}

	return views, nil
}

// ProductDetail возвращает полную карточку товара с характеристиками и отзывами
func (s *CatalogService) ProductDetail(ctx context.Context, id uint) (*entity.ProductDetail, error) {
	product, err := s.productRepo.GetByIDWithRelations(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	specs := make([]entity.SpecificationView, 0, len(product.Specifications))
	for _, spec := range product.Specifications {
		specs = append(specs, entity.SpecificationView{Name: spec.Name, Value: spec.Value})
	}

	reviews := make([]entity.ReviewView, 0, len(product.Reviews))
	for _, review := range product.Reviews {
		reviews = append(reviews, entity.ReviewView{
			Author: review.Author,
			Email:  review.Email,
			Text:   review.Text,
			Rate:   review.Rate,
			Date:   review.CreatedAt.Format("2006-01-02 15:04"),
		})
	}

	return &entity.ProductDetail{
		ProductSummary:  newProductSummary(product, time.Now()),
		FullDescription: product.Description,
		Specifications:  specs,
		ReviewList:      reviews,
	}, nil
}
