package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"megano/internal/app/shop/config"
	"megano/internal/app/shop/entity"
	"megano/internal/app/shop/handler"
	"megano/internal/app/shop/infrastructure/messaging"
	"megano/internal/app/shop/infrastructure/payment"
	"megano/internal/app/shop/processor"
	"megano/internal/app/shop/repository"
	"megano/internal/app/shop/service"
	"megano/internal/app/shop/util"
	"megano/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init("shop", cfg.LogLevel)

	db, err := connectDB(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	logger.Info().
		Str("host", cfg.Database.Host).
		Str("database", cfg.Database.DBName).
		Msg("Connected to PostgreSQL")

	if err := migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	redisClient, err := util.NewRedisClient(
		cfg.Redis.Address(),
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()
	logger.Info().Str("address", cfg.Redis.Address()).Msg("Connected to Redis")

	kafkaProducer := messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer kafkaProducer.Close()
	logger.Info().Str("topic", cfg.Kafka.Topic).Msg("Initialized Kafka producer")

	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	basketRepo := repository.NewBasketRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	deliveryRepo := repository.NewDeliveryPriceRepository(db)

	ctx := context.Background()

	// Стоимость доставки настраивается в БД, из конфигурации берутся
	// только стартовые значения при пустой таблице
	if err := deliveryRepo.Seed(ctx, &entity.DeliveryPrice{
		StandardCost:        cfg.Delivery.StandardCost,
		ExpressCost:         cfg.Delivery.ExpressCost,
		FreeDeliveryMinimum: cfg.Delivery.FreeDeliveryMinimum,
	}); err != nil {
		logger.Fatal().Err(err).Msg("Failed to seed delivery prices")
	}

	catalogService := service.NewCatalogService(productRepo, categoryRepo, saleRepo, redisClient)
	basketService := service.NewBasketService(basketRepo, productRepo)
	orderService := service.NewOrderService(
		orderRepo,
		basketRepo,
		productRepo,
		paymentRepo,
		deliveryRepo,
		payment.NewStubGateway(),
		kafkaProducer,
	)
	reviewService := service.NewReviewService(reviewRepo, productRepo)

	scheduler := processor.NewCronScheduler(reviewService)
	if err := scheduler.Start(ctx, cfg.Worker.RatingCron); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start cron scheduler")
	}
	defer scheduler.Stop()

	identity := handler.NewIdentityMiddleware(cfg.JWT.Secret)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	basketHandler := handler.NewBasketHandler(basketService)
	orderHandler := handler.NewOrderHandler(orderService)
	reviewHandler := handler.NewReviewHandler(reviewService)

	router := handler.SetupRoutes(catalogHandler, basketHandler, orderHandler, reviewHandler, identity)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("Starting shop")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down shop...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Shop stopped gracefully")
}

func connectDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	pgxConfig, err := pgx.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}

	var db *gorm.DB

	for i := 0; i < 10; i++ {
		sqlDB := stdlib.OpenDB(*pgxConfig)
		if err = sqlDB.Ping(); err == nil {
			sqlDB.SetMaxOpenConns(25)
			sqlDB.SetMaxIdleConns(5)
			sqlDB.SetConnMaxLifetime(5 * time.Minute)
			sqlDB.SetConnMaxIdleTime(1 * time.Minute)

			db, err = gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormConfig)
			if err == nil {
				return db, nil
			}
		}
		sqlDB.Close()
		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to connect to database, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect after 10 attempts: %w", err)
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.Category{},
		&entity.Subcategory{},
		&entity.Tag{},
		&entity.Product{},
		&entity.ProductImage{},
		&entity.Specification{},
		&entity.Review{},
		&entity.Sale{},
		&entity.Basket{},
		&entity.BasketItem{},
		&entity.Order{},
		&entity.Payment{},
		&entity.DeliveryPrice{},
	)
}
