// Package kv содержит хранилища "ключ -> значение", поверх которых живут
// коллекции корзины и заказов. Значение всегда пишется целиком.
package kv

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// Store описывает минимальный набор операций над хранилищем ключей.
type Store interface {
	// Get возвращает значение ключа или ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set полностью перезаписывает значение ключа.
	Set(ctx context.Context, key string, value []byte) error
	// Delete удаляет ключ, отсутствие ключа ошибкой не считается.
	Delete(ctx context.Context, key string) error
	Close() error
}
