package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/linemk/wegx-store/internal/storage/kv"
)

// collection — список записей, который целиком сериализуется в один ключ хранилища.
// Отсутствующие или повреждённые данные читаются как пустой список.
type collection[T any] struct {
	log   *slog.Logger
	store kv.Store
	key   string
}

// load читает коллекцию. Ошибка возвращается только если хранилище не ответило:
// перезаписывать коллекцию после такой ошибки нельзя.
func (c *collection[T]) load(ctx context.Context) ([]T, error) {
	raw, err := c.store.Get(ctx, c.key)
	if errors.Is(err, kv.ErrNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read collection %s: %w", c.key, err)
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		c.log.Warn("corrupted collection, using empty list",
			slog.String("key", c.key), slog.Any("error", err))
		return []T{}, nil
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// view — чтение для отображения: недоступное хранилище видится пустым списком.
func (c *collection[T]) view(ctx context.Context) []T {
	items, err := c.load(ctx)
	if err != nil {
		c.log.Warn("failed to read collection, using empty list",
			slog.String("key", c.key), slog.Any("error", err))
		return []T{}
	}
	return items
}

func (c *collection[T]) save(ctx context.Context, items []T) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode collection %s: %w", c.key, err)
	}
	if err := c.store.Set(ctx, c.key, raw); err != nil {
		return fmt.Errorf("failed to write collection %s: %w", c.key, err)
	}
	return nil
}
