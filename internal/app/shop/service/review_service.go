package service

import (
	"context"
	"errors"
	"fmt"

	"megano/internal/app/shop/entity"
	"megano/internal/app/shop/repository"
	"megano/pkg/logger"
	"megano/pkg/metrics"

	"github.com/shopspring/decimal"
)

const reviewTimeFormat = "2006-01-02 15:04"

// ReviewService управляет отзывами и поддерживает кешированный рейтинг
// товара в актуальном состоянии
type ReviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
}

// NewReviewService создает новый сервис отзывов с внедрением зависимостей
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	productRepo repository.ProductRepository,
) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
	}
}

// Create сохраняет отзыв, пересчитывает кешированный рейтинг товара
// и возвращает полный список отзывов товара
func (s *ReviewService) Create(ctx context.Context, productID uint, author, email string, req *entity.CreateReviewRequest) ([]entity.ReviewView, error) {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to verify product: %w", err)
	}

	review := &entity.Review{
		ProductID: productID,
		Author:    author,
		Email:     email,
		Text:      req.Text,
		Rate:      req.Rate,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	if err := s.recomputeRating(ctx, productID); err != nil {
		logger.Error().Err(err).Uint("product_id", productID).Msg("failed to recompute rating")
	}

	metrics.ReviewsCreated.Inc()
	metrics.ReviewsRating.Observe(float64(req.Rate))

	reviews, err := s.reviewRepo.GetByProductID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}

	views := make([]entity.ReviewView, 0, len(reviews))
	for _, r := range reviews {
		views = append(views, entity.ReviewView{
			Author: r.Author,
			Email:  r.Email,
			Text:   r.Text,
			Rate:   r.Rate,
			Date:   r.CreatedAt.Format(reviewTimeFormat),
		})
	}

	return views, nil
}

// RecomputeAllRatings пересчитывает кешированные рейтинги всех товаров.
// Запускается фоновым воркером по расписанию.
func (s *ReviewService) RecomputeAllRatings(ctx context.Context) error {
	ids, err := s.productRepo.GetAllIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list products: %w", err)
	}

	var failed int
	for _, id := range ids {
		if err := s.recomputeRating(ctx, id); err != nil {
			logger.Error().Err(err).Uint("product_id", id).Msg("failed to recompute rating")
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("failed to recompute rating for %d of %d products", failed, len(ids))
	}

	logger.Info().Int("products", len(ids)).Msg("ratings recomputed")
	return nil
}

func (s *ReviewService) recomputeRating(ctx context.Context, productID uint) error {
	avg, count, err := s.reviewRepo.AverageRate(ctx, productID)
	if err != nil {
		return err
	}
	if count == 0 {
		avg = decimal.Zero
	}

	return s.productRepo.UpdateRating(ctx, productID, avg)
}
