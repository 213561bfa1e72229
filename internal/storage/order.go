package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/linemk/wegx-store/internal/domain/models"
	"github.com/linemk/wegx-store/internal/storage/kv"
)

// OrdersKey — имя коллекции заказов в хранилище
const OrdersKey = "weg_orders"

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrOrderExists   = errors.New("order already exists")
)

// OrderStorage описывает методы для работы с заказами.
type OrderStorage interface {
	// CreateOrder добавляет заказ в коллекцию. Если заказ с тем же ключом
	// идемпотентности уже есть, возвращает его вместе с ErrOrderExists.
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	// ListOrders возвращает все заказы, новые первыми.
	ListOrders(ctx context.Context) ([]models.Order, error)
	GetOrderByID(ctx context.Context, id string) (*models.Order, error)
	GetOrderByNumber(ctx context.Context, number string) (*models.Order, error)
	// GetOrderByIdempotencyKey ищет заказ, созданный с тем же ключом идемпотентности.
	GetOrderByIdempotencyKey(ctx context.Context, key string) (*models.Order, error)
	// UpdateOrder загружает заказ, применяет к нему update и сохраняет под одной блокировкой.
	// Ошибка update возвращается как есть, коллекция при этом не пишется.
	UpdateOrder(ctx context.Context, id string, update func(o *models.Order) error) (*models.Order, error)
}

type orderRepository struct {
	mu     sync.Mutex
	orders collection[models.Order]
}

// NewOrderRepository создаёт репозиторий заказов.
func NewOrderRepository(log *slog.Logger, store kv.Store) OrderStorage {
	return &orderRepository{
		orders: collection[models.Order]{log: log, store: store, key: OrdersKey},
	}
}

func (r *orderRepository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == "" {
		return nil, fmt.Errorf("failed to create order: empty id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	orders, err := r.orders.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	for i := range orders {
		o := orders[i]
		if o.ID == order.ID {
			return nil, ErrOrderExists
		}
		if order.IdempotencyKey != "" && o.IdempotencyKey == order.IdempotencyKey {
			return &o, ErrOrderExists
		}
	}
	orders = append(orders, *order)
	if err := r.orders.save(ctx, orders); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	created := *order
	return &created, nil
}

func (r *orderRepository) ListOrders(ctx context.Context) ([]models.Order, error) {
	r.mu.Lock()
	orders := r.orders.view(ctx)
	r.mu.Unlock()

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (r *orderRepository) find(ctx context.Context, match func(o *models.Order) bool) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders := r.orders.view(ctx)
	for i := range orders {
		if match(&orders[i]) {
			order := orders[i]
			return &order, nil
		}
	}
	return nil, ErrOrderNotFound
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	return r.find(ctx, func(o *models.Order) bool { return o.ID == id })
}

func (r *orderRepository) GetOrderByNumber(ctx context.Context, number string) (*models.Order, error) {
	return r.find(ctx, func(o *models.Order) bool { return o.OrderNumber == number })
}

func (r *orderRepository) GetOrderByIdempotencyKey(ctx context.Context, key string) (*models.Order, error) {
	if key == "" {
		return nil, ErrOrderNotFound
	}
	return r.find(ctx, func(o *models.Order) bool { return o.IdempotencyKey == key })
}

func (r *orderRepository) UpdateOrder(ctx context.Context, id string, update func(o *models.Order) error) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders, err := r.orders.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	for i := range orders {
		if orders[i].ID != id {
			continue
		}
		order := orders[i]
		if err := update(&order); err != nil {
			return nil, err
		}
		orders[i] = order
		if err := r.orders.save(ctx, orders); err != nil {
			return nil, fmt.Errorf("failed to update order: %w", err)
		}
		return &order, nil
	}
	return nil, ErrOrderNotFound
}
