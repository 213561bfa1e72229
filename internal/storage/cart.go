package storage

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/linemk/wegx-store/internal/domain/models"
	"github.com/linemk/wegx-store/internal/storage/kv"
)

// CartKey — имя коллекции корзины в хранилище
const CartKey = "weg_cart"

var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// CartStorage описывает методы для работы с корзиной.
// Каждая мутация перезаписывает коллекцию целиком и ничего не пишет, если чтение не удалось.
type CartStorage interface {
	// ListItems возвращает строки корзины в порядке добавления.
	ListItems(ctx context.Context) ([]models.CartItem, error)
	// AddItem увеличивает количество существующей строки товара или создаёт новую.
	AddItem(ctx context.Context, productID string, quantity int) (*models.CartItem, error)
	// UpdateQuantity перезаписывает количество. Для неизвестного id возвращает nil без ошибки.
	UpdateQuantity(ctx context.Context, id string, quantity int) (*models.CartItem, error)
	// RemoveItem удаляет строку, неизвестный id — не ошибка.
	RemoveItem(ctx context.Context, id string) error
	// Clear очищает корзину.
	Clear(ctx context.Context) error
}

type cartRepository struct {
	mu    sync.Mutex
	items collection[models.CartItem]
}

// NewCartRepository создаёт репозиторий корзины поверх хранилища ключей.
func NewCartRepository(log *slog.Logger, store kv.Store) CartStorage {
	return &cartRepository{
		items: collection[models.CartItem]{log: log, store: store, key: CartKey},
	}
}

func (r *cartRepository) ListItems(ctx context.Context) ([]models.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items.view(ctx), nil
}

func (r *cartRepository) AddItem(ctx context.Context, productID string, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.items.load(ctx)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i := range items {
		if items[i].ProductID == productID {
			idx = i
			break
		}
	}
	if idx >= 0 {
		items[idx].Quantity += quantity
	} else {
		items = append(items, models.CartItem{
			ID:        uuid.NewString(),
			ProductID: productID,
			Quantity:  quantity,
		})
		idx = len(items) - 1
	}

	if err := r.items.save(ctx, items); err != nil {
		return nil, err
	}
	item := items[idx]
	return &item, nil
}

func (r *cartRepository) UpdateQuantity(ctx context.Context, id string, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.items.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID != id {
			continue
		}
		items[i].Quantity = quantity
		if err := r.items.save(ctx, items); err != nil {
			return nil, err
		}
		item := items[i]
		return &item, nil
	}
	return nil, nil
}

func (r *cartRepository) RemoveItem(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.items.load(ctx)
	if err != nil {
		return err
	}
	kept := items[:0]
	for _, it := range items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	return r.items.save(ctx, kept)
}

func (r *cartRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items.save(ctx, []models.CartItem{})
}
