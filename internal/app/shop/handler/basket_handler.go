package handler

import (
	"errors"
	"net/http"

	"megano/internal/app/shop/entity"
	"megano/internal/app/shop/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// BasketHandler обрабатывает HTTP запросы корзины с использованием Gin
type BasketHandler struct {
	basketService service.BasketServiceInterface
	validator     *validator.Validate
}

// NewBasketHandler создает новый обработчик корзины
func NewBasketHandler(basketService service.BasketServiceInterface) *BasketHandler {
	return &BasketHandler{
		basketService: basketService,
		validator:     validator.New(),
	}
}

// Get обрабатывает GET /basket
// Возвращает позиции корзины с актуальными карточками товаров
func (h *BasketHandler) Get(c *gin.Context) {
	lines, err := h.basketService.List(c.Request.Context(), ownerID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get basket"})
		return
	}

	c.JSON(http.StatusOK, lines)
}

// Add обрабатывает POST /basket
// Устанавливает количество товара в корзине равным переданному
func (h *BasketHandler) Add(c *gin.Context) {
	var req entity.BasketLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	owner := ownerID(c)
	if err := h.basketService.AddOrSet(c.Request.Context(), owner, req.ID, req.Count); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update basket"})
		return
	}

	lines, err := h.basketService.List(c.Request.Context(), owner)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get basket"})
		return
	}

	c.JSON(http.StatusOK, lines)
}

// Remove обрабатывает DELETE /basket
// Уменьшает количество товара, при достижении нуля позиция удаляется
func (h *BasketHandler) Remove(c *gin.Context) {
	var req entity.BasketLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	owner := ownerID(c)
	if err := h.basketService.Decrement(c.Request.Context(), owner, req.ID, req.Count); err != nil {
		if errors.Is(err, service.ErrBasketLineNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Basket item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update basket"})
		return
	}

	lines, err := h.basketService.List(c.Request.Context(), owner)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get basket"})
		return
	}

	c.JSON(http.StatusOK, lines)
}
