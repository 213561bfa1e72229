package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linemk/wegx-store/internal/catalog"
	"github.com/linemk/wegx-store/internal/domain/models"
	"github.com/linemk/wegx-store/internal/storage"
)

// CartView — строки корзины с товарами и итогами
type CartView struct {
	Lines   []CartLine  `json:"lines"`
	Summary CartSummary `json:"summary"`
}

type CartService interface {
	Get(ctx context.Context) (*CartView, error)
	Add(ctx context.Context, productID string, quantity int) (*models.CartItem, error)
	UpdateQuantity(ctx context.Context, id string, quantity int) (*models.CartItem, error)
	Remove(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

type cartService struct {
	log     *slog.Logger
	cart    storage.CartStorage
	catalog catalog.Provider
	pricing PricingPolicy
}

func NewCartService(log *slog.Logger, cart storage.CartStorage, provider catalog.Provider, pricing PricingPolicy) CartService {
	return &cartService{
		log:     log,
		cart:    cart,
		catalog: provider,
		pricing: pricing,
	}
}

func (s *cartService) Get(ctx context.Context) (*CartView, error) {
	const op = "service.CartService.Get"
	logger := s.log.With(slog.String("op", op))

	items, err := s.cart.ListItems(ctx)
	if err != nil {
		logger.Error("failed to list cart items", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to list cart items: %w", op, err)
	}
	cat, err := s.catalog.Load(ctx)
	if err != nil {
		logger.Error("failed to load catalog", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lines := ResolveLines(cat, items)
	return &CartView{
		Lines:   lines,
		Summary: s.pricing.Summarize(lines),
	}, nil
}

// Add добавляет товар в корзину. Количество 0 считается за 1.
func (s *cartService) Add(ctx context.Context, productID string, quantity int) (*models.CartItem, error) {
	const op = "service.CartService.Add"
	logger := s.log.With(slog.String("op", op), slog.String("productID", productID))

	if quantity < 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidQuantity)
	}
	if quantity == 0 {
		quantity = 1
	}

	cat, err := s.catalog.Load(ctx)
	if err != nil {
		logger.Error("failed to load catalog", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, ok := cat.ProductByID(productID); !ok {
		logger.Warn("product not found")
		return nil, fmt.Errorf("%s: %s: %w", op, productID, ErrProductNotFound)
	}

	item, err := s.cart.AddItem(ctx, productID, quantity)
	if err != nil {
		logger.Error("failed to add item", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to add item: %w", op, err)
	}
	logger.Info("item added to cart", slog.Int("quantity", item.Quantity))
	return item, nil
}

// UpdateQuantity перезаписывает количество строки. Неизвестный id — nil без ошибки.
func (s *cartService) UpdateQuantity(ctx context.Context, id string, quantity int) (*models.CartItem, error) {
	const op = "service.CartService.UpdateQuantity"
	logger := s.log.With(slog.String("op", op), slog.String("itemID", id))

	if quantity < 1 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidQuantity)
	}
	item, err := s.cart.UpdateQuantity(ctx, id, quantity)
	if err != nil {
		logger.Error("failed to update quantity", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to update quantity: %w", op, err)
	}
	if item == nil {
		logger.Debug("cart item not found, nothing to update")
	}
	return item, nil
}

func (s *cartService) Remove(ctx context.Context, id string) error {
	const op = "service.CartService.Remove"
	if err := s.cart.RemoveItem(ctx, id); err != nil {
		s.log.Error("failed to remove item", slog.String("op", op), slog.Any("error", err))
		return fmt.Errorf("%s: failed to remove item: %w", op, err)
	}
	return nil
}

func (s *cartService) Clear(ctx context.Context) error {
	const op = "service.CartService.Clear"
	if err := s.cart.Clear(ctx); err != nil {
		s.log.Error("failed to clear cart", slog.String("op", op), slog.Any("error", err))
		return fmt.Errorf("%s: failed to clear cart: %w", op, err)
	}
	return nil
}
