package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"megano/internal/app/shop/entity"
	"megano/internal/app/shop/repository"
	"megano/pkg/metrics"
)

// BasketService обрабатывает операции с корзиной. Все операции ключуются
// идентичностью владельца, корзина создается лениво при первой записи.
type BasketService struct {
	basketRepo  repository.BasketRepository
	productRepo repository.ProductRepository
}

// NewBasketService создает новый сервис корзины с внедрением зависимостей
func NewBasketService(
	basketRepo repository.BasketRepository,
	productRepo repository.ProductRepository,
) *BasketService {
	return &BasketService{
		basketRepo:  basketRepo,
		productRepo: productRepo,
	}
}

// AddOrSet создает позицию корзины либо ЗАМЕНЯЕТ её количество переданным
// значением. Накопления нет: повторный вызов с count=2 оставляет 2.
func (s *BasketService) AddOrSet(ctx context.Context, ownerID string, productID uint, count int) error {
	// Товар должен существовать
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to verify product: %w", err)
	}

	basket, err := s.basketRepo.GetOrCreateByOwner(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("failed to get basket: %w", err)
	}

	if err := s.basketRepo.UpsertItem(ctx, basket.ID, productID, count); err != nil {
		return fmt.Errorf("failed to upsert basket item: %w", err)
	}

	metrics.BasketOperations.WithLabelValues("add").Inc()
	return nil
}

// Decrement уменьшает количество в позиции корзины. Если текущее количество
// не превышает запрошенное, позиция удаляется целиком - это определенное
// поведение, а не ошибка.
func (s *BasketService) Decrement(ctx context.Context, ownerID string, productID uint, count int) error {
	basket, err := s.basketRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrBasketNotFound) {
			return ErrBasketLineNotFound
		}
		return fmt.Errorf("failed to get basket: %w", err)
	}

	item, err := s.basketRepo.GetItem(ctx, basket.ID, productID)
	if err != nil {
		if errors.Is(err, repository.ErrBasketItemNotFound) {
			return ErrBasketLineNotFound
		}
		return fmt.Errorf("failed to get basket item: %w", err)
	}

	if item.Quantity > count {
		if err := s.basketRepo.UpdateItemQuantity(ctx, item.ID, item.Quantity-count); err != nil {
			return fmt.Errorf("failed to update basket item: %w", err)
		}
	} else {
		if err := s.basketRepo.DeleteItem(ctx, item.ID); err != nil {
			return fmt.Errorf("failed to delete basket item: %w", err)
		}
	}

	metrics.BasketOperations.WithLabelValues("decrement").Inc()
	return nil
}

// List возвращает позиции корзины с живыми карточками товаров: цена и
// остаток читаются на момент запроса, а не фиксируются при добавлении.
// Отсутствие корзины дает пустой список.
func (s *BasketService) List(ctx context.Context, ownerID string) ([]entity.BasketLineView, error) {
	basket, err := s.basketRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrBasketNotFound) {
			return []entity.BasketLineView{}, nil
		}
		return nil, fmt.Errorf("failed to get basket: %w", err)
	}

	lines, err := buildBasketLines(ctx, s.productRepo, basket.Items)
	if err != nil {
		return nil, err
	}

	metrics.BasketOperations.WithLabelValues("list").Inc()
	return lines, nil
}

// buildBasketLines собирает живые карточки для позиций корзины,
// используется и при рендере заказов
func buildBasketLines(ctx context.Context, productRepo repository.ProductRepository, items []entity.BasketItem) ([]entity.BasketLineView, error) {
	sorted := make([]entity.BasketItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	now := time.Now()
	lines := make([]entity.BasketLineView, 0, len(sorted))
	for _, item := range sorted {
		product, err := productRepo.GetByIDWithRelations(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return nil, ErrProductNotFound
			}
			return nil, fmt.Errorf("failed to get product for basket line: %w", err)
		}

		lines = append(lines, entity.BasketLineView{
			ProductSummary: newProductSummary(product, now),
			CountInBasket:  item.Quantity,
		})
	}

	return lines, nil
}
