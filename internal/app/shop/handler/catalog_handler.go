package handler

import (
	"errors"
	"net/http"
	"strconv"

	"megano/internal/app/shop/entity"
	"megano/internal/app/shop/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// CatalogHandler обрабатывает HTTP запросы каталога с использованием Gin
type CatalogHandler struct {
	catalogService service.CatalogServiceInterface
}

// NewCatalogHandler создает новый обработчик каталога
func NewCatalogHandler(catalogService service.CatalogServiceInterface) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// Catalog обрабатывает GET /catalog
// Выдача каталога с фильтрами, сортировкой и пагинацией
func (h *CatalogHandler) Catalog(c *gin.Context) {
	query, err := parseCatalogQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.catalogService.Query(c.Request.Context(), *query)
	if err != nil {
		if errors.Is(err, service.ErrInvalidQuery) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query catalog"})
		return
	}

	c.JSON(http.StatusOK, page)
}

// Categories обрабатывает GET /categories
func (h *CatalogHandler) Categories(c *gin.Context) {
	categories, err := h.catalogService.Categories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get categories"})
		return
	}

	c.JSON(http.StatusOK, categories)
}

// Banners обрабатывает GET /banners
// Возвращает товары с наивысшим рейтингом для главной страницы
func (h *CatalogHandler) Banners(c *gin.Context) {
	products, err := h.catalogService.Banner(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get banners"})
		return
	}

	c.JSON(http.StatusOK, products)
}

// Popular обрабатывает GET /products/popular
func (h *CatalogHandler) Popular(c *gin.Context) {
	products, err := h.catalogService.Popular(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get popular products"})
		return
	}

	c.JSON(http.StatusOK, products)
}

// Limited обрабатывает GET /products/limited
func (h *CatalogHandler) Limited(c *gin.Context) {
	products, err := h.catalogService.Limited(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get limited products"})
		return
	}

	c.JSON(http.StatusOK, products)
}

// Sales обрабатывает GET /sales
func (h *CatalogHandler) Sales(c *gin.Context) {
	currentPage := 1
	if raw := c.Query("currentPage"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid currentPage"})
			return
		}
		currentPage = parsed
	}

	page, err := h.catalogService.Sales(c.Request.Context(), currentPage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get sales"})
		return
	}

	c.JSON(http.StatusOK, page)
}

// Product обрабатывает GET /product/{id}
func (h *CatalogHandler) Product(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	detail, err := h.catalogService.ProductDetail(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get product"})
		return
	}

	c.JSON(http.StatusOK, detail)
}

// parseCatalogQuery разбирает query-параметры выдачи каталога.
// Неизвестное направление сортировки деградирует до возрастания.
func parseCatalogQuery(c *gin.Context) (*entity.CatalogQuery, error) {
	query := &entity.CatalogQuery{
		Name:        c.Query("filter[name]"),
		Tags:        c.QueryArray("tags[]"),
		Sort:        c.Query("sort"),
		SortDir:     entity.SortDirAsc,
		CurrentPage: 1,
	}

	if raw := c.Query("sortType"); raw == entity.SortDirDesc {
		query.SortDir = entity.SortDirDesc
	}

	if raw := c.Query("category"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return nil, errors.New("Invalid category")
		}
		categoryID := uint(id)
		query.CategoryID = &categoryID
	}

	if raw := c.Query("filter[minPrice]"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, errors.New("Invalid filter[minPrice]")
		}
		query.MinPrice = &price
	}

	if raw := c.Query("filter[maxPrice]"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, errors.New("Invalid filter[maxPrice]")
		}
		query.MaxPrice = &price
	}

	if raw := c.Query("filter[freeDelivery]"); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, errors.New("Invalid filter[freeDelivery]")
		}
		query.FreeDelivery = &value
	}

	if raw := c.Query("filter[available]"); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, errors.New("Invalid filter[available]")
		}
		query.Available = &value
	}

	if raw := c.Query("currentPage"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return nil, errors.New("Invalid currentPage")
		}
		query.CurrentPage = page
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return nil, errors.New("Invalid limit")
		}
		query.Limit = limit
	}

	return query, nil
}

func parseIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func formatValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			return fieldError.Field() + " is " + fieldError.Tag()
		}
	}
	return "Validation failed"
}
