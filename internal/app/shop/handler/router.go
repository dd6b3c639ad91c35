package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"megano/pkg/logger"
	"megano/pkg/metrics"
)

// SetupRoutes настраивает все маршруты приложения с использованием Gin
func SetupRoutes(
	catalogHandler *CatalogHandler,
	basketHandler *BasketHandler,
	orderHandler *OrderHandler,
	reviewHandler *ReviewHandler,
	identity *IdentityMiddleware,
) *gin.Engine {
	router := gin.New()

	// Recovery middleware для обработки panic
	router.Use(gin.Recovery())

	// JSON logging middleware для HTTP-запросов
	router.Use(logger.GinLoggerMiddleware())

	// Prometheus metrics middleware
	router.Use(metrics.GinPrometheusMiddleware("shop"))

	// CORS настройки
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Session-ID"},
		ExposeHeaders:    []string{"Link", "X-Session-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "shop",
		})
	})

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Все эндпоинты API работают и для гостей, идентичность определяет middleware
	api := router.Group("/api")
	api.Use(identity.Identify())
	{
		api.GET("/catalog", catalogHandler.Catalog)
		api.GET("/categories", catalogHandler.Categories)
		api.GET("/banners", catalogHandler.Banners)
		api.GET("/products/popular", catalogHandler.Popular)
		api.GET("/products/limited", catalogHandler.Limited)
		api.GET("/sales", catalogHandler.Sales)
		api.GET("/product/:id", catalogHandler.Product)

		// Отзывы может оставлять только авторизованный пользователь
		api.POST("/product/:id/reviews", identity.RequireUser(), reviewHandler.Create)

		api.GET("/basket", basketHandler.Get)
		api.POST("/basket", basketHandler.Add)
		api.DELETE("/basket", basketHandler.Remove)

		api.GET("/orders", orderHandler.GetOrders)
		api.POST("/orders", orderHandler.CreateOrder)
		api.GET("/order/:id", orderHandler.GetOrder)
		api.POST("/payment/:id", orderHandler.Payment)
	}

	return router
}
